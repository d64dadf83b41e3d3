// Package github fetches public profile data from the GitHub REST API, the
// GraphQL API and the github.com profile page.
package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Default endpoints.
const (
	DefaultAPIBase = "https://api.github.com"
	DefaultWebBase = "https://github.com"
)

var (
	// ErrFetchFailed wraps network and unexpected HTTP failures.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrUserNotFound is returned for a 404 on the user or profile page.
	ErrUserNotFound = errors.New("user not found")

	// ErrTokenRequired is returned by GraphQL calls made without a token.
	ErrTokenRequired = errors.New("github token required for GraphQL API")
)

// HTTPDoFunc performs a request. Implementations may cache or retry.
type HTTPDoFunc func(context.Context, *http.Request) (*http.Response, error)

// Client provides methods for interacting with the GitHub API
type Client struct {
	logger       *slog.Logger
	cachedHTTPDo HTTPDoFunc
	githubToken  string
	apiBase      string
	webBase      string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURLs points the client at alternate API and web hosts.
// Empty values keep the defaults.
func WithBaseURLs(apiBase, webBase string) ClientOption {
	return func(c *Client) {
		if apiBase != "" {
			c.apiBase = strings.TrimSuffix(apiBase, "/")
		}
		if webBase != "" {
			c.webBase = strings.TrimSuffix(webBase, "/")
		}
	}
}

// NewClient creates a new GitHub API client
func NewClient(logger *slog.Logger, githubToken string, cachedHTTPDo HTTPDoFunc, opts ...ClientOption) *Client {
	c := &Client{
		logger:       logger,
		githubToken:  githubToken,
		cachedHTTPDo: cachedHTTPDo,
		apiBase:      DefaultAPIBase,
		webBase:      DefaultWebBase,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GraphQL returns a GraphQL client sharing this client's token, transport
// and API host.
func (c *Client) GraphQL() *GraphQLClient {
	return NewGraphQLClient(c.githubToken, c.cachedHTTPDo, c.logger, c.apiBase+"/graphql")
}

// HasToken reports whether a plausible token is configured.
func (c *Client) HasToken() bool {
	return IsValidToken(c.githubToken)
}

// IsValidToken checks if a token looks valid (basic check)
func IsValidToken(token string) bool {
	// Fine-grained: github_pat_, OAuth: gho_, App: ghs_, classic: ghp_ or 40 hex chars.
	if token == "" {
		return false
	}

	if strings.HasPrefix(token, "github_pat_") ||
		strings.HasPrefix(token, "gho_") ||
		strings.HasPrefix(token, "ghs_") ||
		strings.HasPrefix(token, "ghp_") {
		return true
	}

	if len(token) == 40 {
		for _, c := range token {
			if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
				return false
			}
		}
		return true
	}

	return false
}

// DefaultHTTPClient returns a default HTTP client with timeout
func DefaultHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}
