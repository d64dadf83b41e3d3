package render

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/V1337Q/ghpeek/pkg/peek"
)

// ActivityTable prints recent activity rows.
func ActivityTable(w io.Writer, items []peek.Activity) error {
	if len(items) == 0 {
		_, err := io.WriteString(w, color.New(color.Faint).Sprint("No recent activity found.")+"\n")
		return err
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			activityLabel(item.Type),
			item.Repo,
			truncate(item.Message, maxCellLen),
			formatDate(item.Date),
		})
	}

	columns := []lipgloss.Style{
		cellStyle.Foreground(lipgloss.Color("6")),
		cellStyle.Foreground(lipgloss.Color("2")),
		cellStyle,
		cellStyle.Faint(true),
	}
	t := newTable(columns, rows, "Type", "Repository", "Action", "Date")

	var output strings.Builder
	output.WriteString("\n" + color.New(color.Bold).Sprintf("Recent Activity (%d most recent)", len(items)) + "\n\n")
	output.WriteString(t.Render() + "\n")

	_, err := io.WriteString(w, output.String())
	return err
}

// activityLabel folds event types into the short labels shown in the table.
func activityLabel(activityType string) string {
	switch activityType {
	case peek.ActivityCommit:
		return "commit"
	case "createevent", "forkevent":
		return "create"
	case "watchevent":
		return "star"
	case "issuesevent", "pullrequestevent":
		return "pr/issue"
	default:
		return activityType
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("01/02/2006")
}

// truncate fits s into n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// truncateWords fits s into n runes, cutting at a word boundary when one is
// close to the limit.
func truncateWords(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	cut := r[:n-3]
	for i := len(cut) - 1; i > n-10; i-- {
		if cut[i] == ' ' {
			cut = cut[:i]
			break
		}
	}
	return string(cut) + "..."
}
