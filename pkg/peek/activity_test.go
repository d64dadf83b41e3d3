package peek

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/V1337Q/ghpeek/pkg/github"
)

func decodeEvents(t *testing.T, raw string) []github.PublicEvent {
	t.Helper()
	var events []github.PublicEvent
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		t.Fatalf("decoding events: %v", err)
	}
	return events
}

const eventsPayload = `[
	{"type":"PushEvent","created_at":"2024-03-01T10:00:00Z","repo":{"name":"mona/app","url":"https://api.github.com/repos/mona/app"},
	 "payload":{"commits":[
		{"sha":"0123456789abcdef","message":"Fix parser\n\nLonger body","url":"https://api.github.com/repos/mona/app/commits/0123456789abcdef"},
		{"sha":"abc","message":"","url":"https://api.github.com/repos/mona/app/commits/abc"}
	 ]}},
	{"type":"GollumEvent","created_at":"2024-03-01T09:00:00Z","repo":{"name":"mona/wiki"}},
	{"type":"CreateEvent","created_at":"2024-03-01T08:00:00Z","repo":{"name":"mona/lib","url":"https://api.github.com/repos/mona/lib"},
	 "payload":{"ref_type":"branch"}},
	{"type":"PullRequestEvent","created_at":"2024-03-01T07:00:00Z","repo":{"name":"","url":""},
	 "payload":{"action":"opened"}},
	{"type":"WatchEvent","created_at":"2024-03-01T06:00:00Z","repo":{"name":"octo/star","url":"https://api.github.com/repos/octo/star"},
	 "payload":"not an object"}
]`

func TestSummarizeEvents(t *testing.T) {
	events := decodeEvents(t, eventsPayload)
	at := func(hour int) time.Time { return time.Date(2024, 3, 1, hour, 0, 0, 0, time.UTC) }

	want := []Activity{
		{Type: ActivityCommit, Repo: "mona/app", Message: "Fix parser", SHA: "0123456", URL: "https://github.com/mona/app/commit/0123456789abcdef", Date: at(10)},
		{Type: ActivityCommit, Repo: "mona/app", Message: "No message", SHA: "abc", URL: "https://github.com/mona/app/commit/abc", Date: at(10)},
		{Type: "createevent", Repo: "mona/lib", Message: "Created branch", URL: "https://github.com/mona/lib", Date: at(8)},
		{Type: "pullrequestevent", Repo: "Unknown", Message: "opened pull request", Date: at(7)},
		{Type: "watchevent", Repo: "octo/star", Message: "Starred repository", URL: "https://github.com/octo/star", Date: at(6)},
	}

	got := SummarizeEvents(events, 10)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SummarizeEvents() mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeEventsLimit(t *testing.T) {
	events := decodeEvents(t, eventsPayload)
	for _, count := range []int{0, 1, 2, 3} {
		if got := SummarizeEvents(events, count); len(got) != count {
			t.Errorf("SummarizeEvents(count=%d) returned %d rows", count, len(got))
		}
	}
}

func TestRecentActivity(t *testing.T) {
	t.Run("rows", func(t *testing.T) {
		f := newFakeGitHub(t)
		f.handle("/users/mona/events", http.StatusOK, eventsPayload)

		got, err := f.peeker().RecentActivity(context.Background(), "mona", 3)
		if err != nil {
			t.Fatalf("RecentActivity() error = %v", err)
		}
		if len(got) != 3 {
			t.Errorf("RecentActivity() returned %d rows, want 3", len(got))
		}
	})

	t.Run("nothing listable", func(t *testing.T) {
		f := newFakeGitHub(t)
		f.handle("/users/mona/events", http.StatusOK, `[{"type":"GollumEvent"}]`)

		_, err := f.peeker().RecentActivity(context.Background(), "mona", 5)
		if !errors.Is(err, ErrNoActivity) {
			t.Errorf("RecentActivity() error = %v, want ErrNoActivity", err)
		}
	})
}

func TestSummarizeRepositories(t *testing.T) {
	tests := []struct {
		name  string
		repos []github.Repository
		want  RepoStats
	}{
		{
			name: "empty",
			want: RepoStats{TopLanguage: "None"},
		},
		{
			name: "no languages",
			repos: []github.Repository{
				{StarCount: 2, ForkCount: 1},
				{StarCount: 3},
			},
			want: RepoStats{TopLanguage: "None", TotalStars: 5, TotalForks: 1},
		},
		{
			name: "tie goes to first seen",
			repos: []github.Repository{
				{Language: "Go"},
				{Language: "Rust"},
				{Language: "Rust"},
				{Language: "Go"},
			},
			want: RepoStats{TopLanguage: "Go"},
		},
		{
			name: "most common",
			repos: []github.Repository{
				{Language: "Go", StarCount: 1},
				{Language: "Rust", StarCount: 1},
				{Language: "Rust", ForkCount: 2},
			},
			want: RepoStats{TopLanguage: "Rust", TotalStars: 2, TotalForks: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SummarizeRepositories(tt.repos); got != tt.want {
				t.Errorf("SummarizeRepositories() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
