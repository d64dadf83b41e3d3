package peek

import (
	"time"

	"github.com/V1337Q/ghpeek/pkg/contrib"
)

// Option configures a Peeker.
type Option func(*OptionHolder)

// WithGitHubToken sets the GitHub API token for the Peeker.
func WithGitHubToken(token string) Option {
	return func(o *OptionHolder) {
		o.githubToken = token
	}
}

// WithNoCache disables the in-memory response cache.
func WithNoCache() Option {
	return func(o *OptionHolder) {
		o.noCache = true
	}
}

// WithoutGraphQL skips the GraphQL contribution calendar even when a token
// is present.
func WithoutGraphQL() Option {
	return func(o *OptionHolder) {
		o.noGraphQL = true
	}
}

// WithBaseURLs points the Peeker at alternate API and web hosts.
func WithBaseURLs(apiBase, webBase string) Option {
	return func(o *OptionHolder) {
		o.apiBase = apiBase
		o.webBase = webBase
	}
}

// WithCacheTTL sets how long responses stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *OptionHolder) {
		o.cacheTTL = ttl
	}
}

// OptionHolder holds configuration options.
type OptionHolder struct {
	githubToken string
	apiBase     string
	webBase     string
	cacheTTL    time.Duration
	noCache     bool
	noGraphQL   bool
}

// Contributions is a recovered calendar and how it was obtained.
type Contributions struct {
	Days   contrib.Map
	Method string
}

// MethodGraphQL names calendars read from the GraphQL API.
const MethodGraphQL = "GraphQL API"

// Activity is one row of recent activity.
type Activity struct {
	Type    string // "commit" or the lowercased event type
	Repo    string
	Message string
	SHA     string // short SHA, commits only
	URL     string
	Date    time.Time
}

// RepoStats summarizes a repository listing.
type RepoStats struct {
	TopLanguage string
	TotalStars  int
	TotalForks  int
}
