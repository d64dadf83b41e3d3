package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/V1337Q/ghpeek/pkg/github"
)

// Header prints the banner shown before anything else.
func Header(w io.Writer, username string) error {
	_, err := fmt.Fprintf(w, "%s - %s\n\n",
		color.New(color.Bold).Sprint("GitHub Profile Preview"),
		color.New(color.FgGreen).Sprint(username))
	return err
}

// ProfileCard prints the user's profile as right-aligned labels and values.
// Bio and location rows are omitted when empty.
func ProfileCard(w io.Writer, user *github.User) error {
	joined := "Unknown"
	if !user.CreatedAt.IsZero() {
		joined = user.CreatedAt.Format("Jan 02, 2006")
	}

	profile := "@" + user.Login
	if user.Name != "" {
		profile = fmt.Sprintf("%s (@%s)", user.Name, user.Login)
	}

	rows := [][2]string{{"Profile:", profile}}
	if user.Bio != "" {
		rows = append(rows, [2]string{"Bio:", user.Bio})
	}
	if user.Location != "" {
		rows = append(rows, [2]string{"Location:", user.Location})
	}
	rows = append(rows,
		[2]string{"Repositories:", fmt.Sprint(user.PublicRepos)},
		[2]string{"Followers:", fmt.Sprint(user.Followers)},
		[2]string{"Following:", fmt.Sprint(user.Following)},
		[2]string{"Joined:", joined},
	)

	labelWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, len(row[0]))
	}

	label := color.New(color.Bold, color.FgCyan)
	var output strings.Builder
	for _, row := range rows {
		// Multi-line bios are indented under the value column.
		value := strings.ReplaceAll(row[1], "\n", "\n"+strings.Repeat(" ", labelWidth+1))
		output.WriteString(label.Sprintf("%*s", labelWidth, row[0]) + " " + value + "\n")
	}
	output.WriteString("\n")

	_, err := io.WriteString(w, output.String())
	return err
}
