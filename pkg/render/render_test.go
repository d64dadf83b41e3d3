package render

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/V1337Q/ghpeek/pkg/contrib"
	"github.com/V1337Q/ghpeek/pkg/github"
	"github.com/V1337Q/ghpeek/pkg/peek"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestCalendarEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Calendar(&buf, nil); err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	if got, want := buf.String(), "No contribution data to display.\n"; got != want {
		t.Errorf("Calendar() = %q, want %q", got, want)
	}
}

func TestCalendar(t *testing.T) {
	grid := contrib.Grid{{0, 3, 0, 0, 0, 0, 0}, {0, 5, 0, 0, 0, 0, 0}}

	var buf bytes.Buffer
	if err := Calendar(&buf, grid); err != nil {
		t.Fatalf("Calendar() error = %v", err)
	}
	out := buf.String()

	for _, name := range dayNames {
		if !strings.Contains(out, name+"  "+Glyph+" "+Glyph+"\n") {
			t.Errorf("Calendar() missing row for %s:\n%s", name, out)
		}
	}
	if !strings.Contains(out, "Less "+strings.Repeat(Glyph+" ", contrib.Levels)+"More\n") {
		t.Errorf("Calendar() missing legend:\n%s", out)
	}
	if strings.Index(out, "Sun") > strings.Index(out, "Sat") {
		t.Errorf("Calendar() rows out of order:\n%s", out)
	}
}

func TestProfileCard(t *testing.T) {
	tests := []struct {
		name string
		user *github.User
		want string
	}{
		{
			name: "full",
			user: &github.User{
				Login:       "mona",
				Name:        "Mona Lisa",
				Bio:         "Painter",
				Location:    "Paris",
				PublicRepos: 8,
				Followers:   1200,
				Following:   3,
				CreatedAt:   time.Date(2011, 1, 25, 18, 44, 36, 0, time.UTC),
			},
			want: "     Profile: Mona Lisa (@mona)\n" +
				"         Bio: Painter\n" +
				"    Location: Paris\n" +
				"Repositories: 8\n" +
				"   Followers: 1200\n" +
				"   Following: 3\n" +
				"      Joined: Jan 25, 2011\n\n",
		},
		{
			name: "stub",
			user: &github.User{Login: "ghost"},
			want: "     Profile: @ghost\n" +
				"Repositories: 0\n" +
				"   Followers: 0\n" +
				"   Following: 0\n" +
				"      Joined: Unknown\n\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := ProfileCard(&buf, tt.user); err != nil {
				t.Fatalf("ProfileCard() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("ProfileCard() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepoBox(t *testing.T) {
	tests := []struct {
		name      string
		repo      github.PinnedRepository
		wantTitle string
		wantDesc  string
		wantStats string
	}{
		{
			name: "plain",
			repo: github.PinnedRepository{
				Name:            "ghpeek",
				Description:     "Peek at GitHub profiles",
				StargazerCount:  12,
				ForkCount:       2,
				PrimaryLanguage: &github.LanguageInfo{Name: "Go", Color: "#00ADD8"},
			},
			wantTitle: " ghpeek ",
			wantDesc:  "Peek at GitHub profiles",
			wantStats: "★ 12 · ⑂ 2 · ● Go",
		},
		{
			name: "long name and description",
			repo: github.PinnedRepository{
				Name:        "an-extremely-long-repository-name-indeed",
				Description: "This description is definitely far too long to fit inside",
			},
			wantTitle: " an-extremely-long-repository-... ",
			wantDesc:  "This description is definitely...",
		},
		{
			name: "accented text",
			repo: github.PinnedRepository{
				Name:            "accents",
				Description:     strings.Repeat("é", 19) + " " + strings.Repeat("é", 17),
				StargazerCount:  3,
				PrimaryLanguage: &github.LanguageInfo{Name: "Ünïcödé-Ŝcrïpt"},
			},
			wantTitle: " accents ",
			wantDesc:  strings.Repeat("é", 19) + " " + strings.Repeat("é", 11) + "...",
			wantStats: "★ 3 · ● Ünïcödé-...",
		},
		{
			name:      "no description",
			repo:      github.PinnedRepository{Name: "x", StargazerCount: 1},
			wantDesc:  "No description",
			wantStats: "★ 1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := RepoBox(tt.repo)
			lines := strings.Split(box, "\n")
			if len(lines) != 5 {
				t.Fatalf("RepoBox() has %d lines, want 5:\n%s", len(lines), box)
			}
			for i, line := range lines {
				if w := lipgloss.Width(line); w != BoxWidth {
					t.Errorf("line %d is %d wide, want %d: %q", i, w, BoxWidth, line)
				}
			}
			if tt.wantTitle != "" && !strings.Contains(lines[0], tt.wantTitle) {
				t.Errorf("title line = %q, want it to contain %q", lines[0], tt.wantTitle)
			}
			if got := strings.TrimSpace(strings.Trim(lines[1], "│")); got != tt.wantDesc {
				t.Errorf("description = %q, want %q", got, tt.wantDesc)
			}
			if got := strings.TrimSpace(strings.Trim(lines[3], "│")); got != tt.wantStats {
				t.Errorf("stats = %q, want %q", got, tt.wantStats)
			}
		})
	}
}

func TestPinnedRepositories(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := PinnedRepositories(&buf, nil); err != nil {
			t.Fatalf("PinnedRepositories() error = %v", err)
		}
		if got := buf.String(); got != "No pinned repositories found.\n" {
			t.Errorf("PinnedRepositories() = %q", got)
		}
	})

	t.Run("two per row", func(t *testing.T) {
		repos := []github.PinnedRepository{{Name: "one"}, {Name: "two"}, {Name: "three"}}
		var buf bytes.Buffer
		if err := PinnedRepositories(&buf, repos); err != nil {
			t.Fatalf("PinnedRepositories() error = %v", err)
		}
		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		var top []string
		for _, line := range lines {
			if strings.HasPrefix(line, "╭") {
				top = append(top, line)
			}
		}
		if len(top) != 2 {
			t.Fatalf("got %d box rows, want 2:\n%s", len(top), buf.String())
		}
		if w := lipgloss.Width(top[0]); w != 2*BoxWidth+2 {
			t.Errorf("first row is %d wide, want %d", w, 2*BoxWidth+2)
		}
		if w := lipgloss.Width(top[1]); w != BoxWidth {
			t.Errorf("second row is %d wide, want %d", w, BoxWidth)
		}
	})
}

func TestActivityTable(t *testing.T) {
	items := []peek.Activity{
		{Type: peek.ActivityCommit, Repo: "mona/app", Message: "Fix parser", Date: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{Type: "watchevent", Repo: "octo/star", Message: "Starred repository"},
		{Type: "pushevent", Repo: "mona/app", Message: strings.Repeat("x", 60)},
	}

	var buf bytes.Buffer
	if err := ActivityTable(&buf, items); err != nil {
		t.Fatalf("ActivityTable() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Recent Activity (3 most recent)",
		"Type", "Repository", "Action", "Date",
		"commit", "03/01/2024", "star", "Unknown", "pushevent",
		strings.Repeat("x", 47) + "...",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ActivityTable() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, strings.Repeat("x", 48)) {
		t.Errorf("ActivityTable() did not truncate long message:\n%s", out)
	}
}

func TestActivityTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := ActivityTable(&buf, nil); err != nil {
		t.Fatalf("ActivityTable() error = %v", err)
	}
	if got := buf.String(); got != "No recent activity found.\n" {
		t.Errorf("ActivityTable() = %q", got)
	}
}

func TestRepositoryTable(t *testing.T) {
	repos := []github.Repository{
		{Name: "app", Description: "", StarCount: 5, ForkCount: 1, Language: "Go", UpdatedAt: time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)},
		{Name: "lib", Description: "A library", StarCount: 2, ForkCount: 3},
	}
	stats := peek.SummarizeRepositories(repos)

	var buf bytes.Buffer
	if err := RepositoryTable(&buf, repos, stats); err != nil {
		t.Fatalf("RepositoryTable() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Repositories (2 most recent)",
		"No description", "A library", "02/09/2024", "Unknown",
		"Stats: 7 total stars • 4 total forks • Top language: Go",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RepositoryTable() missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"héllo wörld", 8, "héllo..."},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
