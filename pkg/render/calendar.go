// Package render provides terminal output for profiles, calendars and repositories.
package render

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"

	"github.com/V1337Q/ghpeek/pkg/contrib"
)

// Glyph is the character drawn for every calendar cell.
const Glyph = "■"

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// shades maps an intensity level to its cell color, GitHub's green ramp.
var shades = [contrib.Levels]lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#2a313c")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#9be9a8")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#40c463")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#30a14e")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#216e39")),
}

// Calendar draws the contribution grid as seven weekday rows with the newest
// week on the right, followed by a legend.
func Calendar(w io.Writer, grid contrib.Grid) error {
	if len(grid) == 0 {
		_, err := io.WriteString(w, color.New(color.FgYellow).Sprint("No contribution data to display.")+"\n")
		return err
	}

	dim := color.New(color.Faint)
	maxCount := grid.Max()

	var output strings.Builder
	output.WriteString("\n" + color.New(color.Bold).Sprint("Contribution Graph") + "\n")
	output.WriteString(dim.Sprint("(Most recent on the right)") + "\n\n")

	for day, name := range dayNames {
		cells := make([]string, len(grid))
		for i, week := range grid {
			cells[i] = shades[contrib.Classify(week[day], maxCount)].Render(Glyph)
		}
		output.WriteString(dim.Sprint(name) + "  " + strings.Join(cells, " ") + "\n")
	}

	legend := make([]string, len(shades))
	for level, shade := range shades {
		legend[level] = shade.Render(Glyph)
	}
	output.WriteString("\n" + dim.Sprint("Less") + " " + strings.Join(legend, " ") + " " + dim.Sprint("More") + "\n")

	_, err := io.WriteString(w, output.String())
	return err
}
