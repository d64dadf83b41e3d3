package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/V1337Q/ghpeek/pkg/github"
	"github.com/V1337Q/ghpeek/pkg/peek"
)

// BoxWidth is the outer width of a pinned repository box.
const BoxWidth = 38

const (
	maxNameLen  = BoxWidth - 6
	maxInnerLen = BoxWidth - 4
	maxLangLen  = 11
	maxCellLen  = 50
)

// RepoBox draws a pinned repository as a rounded box: the name centered in
// the top border, the description, a blank line and a stats line.
// Every line is exactly BoxWidth columns wide.
func RepoBox(repo github.PinnedRepository) string {
	title := " " + truncate(repo.Name, maxNameLen) + " "
	fill := max(BoxWidth-2-lipgloss.Width(title), 0)
	left := fill / 2

	description := strings.TrimSpace(repo.Description)
	if description == "" {
		description = "No description"
	}

	lines := []string{
		"╭" + strings.Repeat("─", left) + title + strings.Repeat("─", fill-left) + "╮",
		boxLine(truncateWords(description, maxInnerLen)),
		boxLine(""),
		boxLine(statsLine(repo)),
		"╰" + strings.Repeat("─", BoxWidth-2) + "╯",
	}
	return strings.Join(lines, "\n")
}

func boxLine(content string) string {
	pad := max(BoxWidth-3-lipgloss.Width(content), 0)
	return "│ " + content + strings.Repeat(" ", pad) + "│"
}

// statsLine joins stars, forks and language, dropping trailing parts until
// the line fits.
func statsLine(repo github.PinnedRepository) string {
	var parts []string
	if repo.StargazerCount > 0 {
		parts = append(parts, fmt.Sprintf("★ %d", repo.StargazerCount))
	}
	if repo.ForkCount > 0 {
		parts = append(parts, fmt.Sprintf("⑂ %d", repo.ForkCount))
	}
	if lang := repo.Language(); lang != "" {
		lang = truncate(lang, maxLangLen)
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(repo.LanguageColor())).Render("●")
		parts = append(parts, dot+" "+lang)
	}

	line := strings.Join(parts, " · ")
	for lipgloss.Width(line) > maxInnerLen && len(parts) > 1 {
		parts = parts[:len(parts)-1]
		line = strings.Join(parts, " · ")
	}
	return line
}

// PinnedRepositories prints pinned repository boxes two per row.
func PinnedRepositories(w io.Writer, repos []github.PinnedRepository) error {
	if len(repos) == 0 {
		_, err := io.WriteString(w, color.New(color.Faint).Sprint("No pinned repositories found.")+"\n")
		return err
	}

	var output strings.Builder
	output.WriteString("\n" + color.New(color.Bold).Sprint("Pinned Repositories") + "\n\n")
	for i := 0; i < len(repos); i += 2 {
		row := RepoBox(repos[i])
		if i+1 < len(repos) {
			row = lipgloss.JoinHorizontal(lipgloss.Top, row, "  ", RepoBox(repos[i+1]))
		}
		output.WriteString(row + "\n")
	}

	_, err := io.WriteString(w, output.String())
	return err
}

// RepositoryTable prints repositories followed by their summary stats.
func RepositoryTable(w io.Writer, repos []github.Repository, stats peek.RepoStats) error {
	if len(repos) == 0 {
		_, err := io.WriteString(w, color.New(color.Faint).Sprint("No repositories found.")+"\n")
		return err
	}

	rows := make([][]string, 0, len(repos))
	for _, r := range repos {
		description := r.Description
		if description == "" {
			description = "No description"
		}
		rows = append(rows, []string{
			r.Name,
			truncate(description, maxCellLen),
			fmt.Sprint(r.StarCount),
			fmt.Sprint(r.ForkCount),
			r.Language,
			formatDate(r.UpdatedAt),
		})
	}

	columns := []lipgloss.Style{
		cellStyle.Foreground(lipgloss.Color("6")),
		cellStyle,
		cellStyle.Foreground(lipgloss.Color("3")),
		cellStyle.Foreground(lipgloss.Color("2")),
		cellStyle.Foreground(lipgloss.Color("4")),
		cellStyle.Faint(true),
	}
	t := newTable(columns, rows, "Repository", "Description", "Stars", "Forks", "Language", "Updated")

	var output strings.Builder
	output.WriteString("\n" + color.New(color.Bold).Sprintf("Repositories (%d most recent)", len(repos)) + "\n\n")
	output.WriteString(t.Render() + "\n")
	output.WriteString("\n" + color.New(color.Faint).Sprintf("Stats: %d total stars • %d total forks • Top language: %s",
		stats.TotalStars, stats.TotalForks, stats.TopLanguage) + "\n")

	_, err := io.WriteString(w, output.String())
	return err
}

var (
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	headerStyle = cellStyle.Bold(true).Foreground(lipgloss.Color("5"))
)

// newTable builds a bordered table whose cells take their column's style.
func newTable(columns []lipgloss.Style, rows [][]string, headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return columns[col]
		})
}
