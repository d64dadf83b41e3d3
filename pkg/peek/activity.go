package peek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/V1337Q/ghpeek/pkg/github"
)

// ErrNoActivity is returned when a user has no recent public activity worth
// listing.
var ErrNoActivity = errors.New("no recent activity found")

// ActivityCommit is the Activity.Type of a pushed commit.
const ActivityCommit = "commit"

// RecentActivity lists up to count recent activity rows for a user.
func (p *Peeker) RecentActivity(ctx context.Context, username string, count int) ([]Activity, error) {
	username, err := checkUsername(username)
	if err != nil {
		return nil, err
	}
	events, err := p.github.FetchEvents(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}

	items := SummarizeEvents(events, count)
	if len(items) == 0 {
		return nil, ErrNoActivity
	}
	return items, nil
}

type eventPayload struct {
	Action  string `json:"action"`
	RefType string `json:"ref_type"`
	Commits []struct {
		SHA     string `json:"sha"`
		Message string `json:"message"`
		URL     string `json:"url"`
	} `json:"commits"`
}

// SummarizeEvents flattens public events into at most count rows. Each pushed
// commit becomes its own row; create, delete, star, fork, issue and pull
// request events become one row each. Other events are skipped.
func SummarizeEvents(events []github.PublicEvent, count int) []Activity {
	var items []Activity
	for _, ev := range events {
		if len(items) >= count {
			break
		}

		var payload eventPayload
		if len(ev.Payload) > 0 {
			// A payload we cannot read still yields a row with empty details.
			_ = json.Unmarshal(ev.Payload, &payload)
		}

		if ev.Type == "PushEvent" {
			for _, c := range payload.Commits {
				if len(items) >= count {
					break
				}
				message := c.Message
				if message == "" {
					message = "No message"
				}
				items = append(items, Activity{
					Type:    ActivityCommit,
					Repo:    repoName(ev),
					Message: strings.SplitN(message, "\n", 2)[0],
					SHA:     shortSHA(c.SHA),
					URL:     webURL(c.URL),
					Date:    ev.CreatedAt,
				})
			}
			continue
		}

		message, ok := eventMessage(ev.Type, payload)
		if !ok {
			continue
		}
		items = append(items, Activity{
			Type:    strings.ToLower(ev.Type),
			Repo:    repoName(ev),
			Message: message,
			URL:     webURL(ev.Repo.URL),
			Date:    ev.CreatedAt,
		})
	}
	return items
}

func eventMessage(eventType string, payload eventPayload) (string, bool) {
	switch eventType {
	case "CreateEvent":
		return "Created " + payload.RefType, true
	case "DeleteEvent":
		return "Deleted " + payload.RefType, true
	case "WatchEvent":
		return "Starred repository", true
	case "ForkEvent":
		return "Forked repository", true
	case "IssuesEvent":
		return payload.Action + " issue", true
	case "PullRequestEvent":
		return payload.Action + " pull request", true
	default:
		return "", false
	}
}

func repoName(ev github.PublicEvent) string {
	if ev.Repo.Name == "" {
		return "Unknown"
	}
	return ev.Repo.Name
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

// webURL turns an API URL into its github.com page.
func webURL(apiURL string) string {
	u := strings.Replace(apiURL, "api.github.com/repos", "github.com", 1)
	return strings.Replace(u, "/commits/", "/commit/", 1)
}
