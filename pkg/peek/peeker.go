// Package peek gathers everything ghpeek shows about a GitHub user.
package peek

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/V1337Q/ghpeek/pkg/contrib"
	"github.com/V1337Q/ghpeek/pkg/github"
	"github.com/V1337Q/ghpeek/pkg/httpcache"
	"github.com/codeGROOVE-dev/retry"
)

// ErrInvalidUsername is returned for logins GitHub would never accept.
var ErrInvalidUsername = errors.New("invalid GitHub username")

const defaultCacheTTL = 30 * time.Minute

// Peeker fetches and assembles profile data for display.
type Peeker struct {
	logger     *slog.Logger
	httpClient *http.Client
	cache      *httpcache.Cache
	github     *github.Client
	noGraphQL  bool
}

// New creates a new Peeker with default logger.
func New(ctx context.Context, opts ...Option) *Peeker {
	return NewWithLogger(ctx, slog.Default(), opts...)
}

// NewWithLogger creates a new Peeker with a custom logger.
func NewWithLogger(_ context.Context, logger *slog.Logger, opts ...Option) *Peeker {
	optHolder := &OptionHolder{cacheTTL: defaultCacheTTL}
	for _, opt := range opts {
		opt(optHolder)
	}

	p := &Peeker{
		logger:     logger,
		httpClient: github.DefaultHTTPClient(),
		noGraphQL:  optHolder.noGraphQL,
	}

	if optHolder.noCache {
		logger.Info("caching disabled by --no-cache flag")
	} else {
		p.cache = httpcache.New(optHolder.cacheTTL, logger)
	}

	p.github = github.NewClient(logger, optHolder.githubToken, p.cachedHTTPDo,
		github.WithBaseURLs(optHolder.apiBase, optHolder.webBase))

	return p
}

// Close releases cached responses.
func (p *Peeker) Close() error {
	if p.cache != nil {
		p.cache.Purge()
	}
	return nil
}

// cachedHTTPDo performs an HTTP request through the response cache and the
// retrying transport.
func (p *Peeker) cachedHTTPDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	cachedClient := httpcache.NewCachedHTTPClient(p.cache, &retryableHTTPClient{peeker: p, ctx: ctx}, p.logger)
	return cachedClient.Do(req)
}

// retryableHTTPClient adapts retryableHTTPDo to httpcache.HTTPClient.
type retryableHTTPClient struct {
	peeker *Peeker
	ctx    context.Context
}

func (r *retryableHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return r.peeker.retryableHTTPDo(r.ctx, req)
}

// retryableHTTPDo performs an HTTP request with exponential backoff and jitter.
// Network errors and 502/503/504 are retried for up to 15 seconds; every other
// status, rate limits included, is handed back after one request.
// The returned response body must be closed by the caller.
func (p *Peeker) retryableHTTPDo(ctx context.Context, req *http.Request) (*http.Response, error) {
	retryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var resp *http.Response
	var lastErr error

	err := retry.Do(
		func() error {
			attempt := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return retry.Unrecoverable(fmt.Errorf("rewinding request body: %w", err))
				}
				attempt.Body = body
			}

			var err error
			resp, err = p.httpClient.Do(attempt) //nolint:bodyclose // Body closed on retry, returned open on success for caller
			if err != nil {
				lastErr = err
				return err
			}

			switch resp.StatusCode {
			case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
				if _, err := io.Copy(io.Discard, resp.Body); err != nil {
					p.logger.Debug("failed to drain error response body", "error", err)
				}
				if err := resp.Body.Close(); err != nil {
					p.logger.Debug("failed to close error response body", "error", err)
				}
				lastErr = fmt.Errorf("HTTP %d", resp.StatusCode)
				p.logger.Debug("retryable HTTP error", "status", resp.StatusCode, "url", req.URL.String())
				return lastErr
			}
			return nil
		},
		retry.Context(retryCtx),
		retry.Attempts(10),
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(3*time.Second),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(100*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			p.logger.Info("retrying HTTP request",
				"attempt", n+1,
				"url", req.URL.String(),
				"error", err)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, fmt.Errorf("request failed after retries: %w", lastErr)
	}

	return resp, nil
}

// IsValidGitHubUsername validates GitHub username format.
func IsValidGitHubUsername(username string) bool {
	username = strings.TrimSpace(username)

	// At most 39 alphanumerics or hyphens; no leading, trailing or doubled hyphen.
	if username == "" || len(username) > 39 {
		return false
	}

	if username[0] == '-' || username[len(username)-1] == '-' {
		return false
	}

	if strings.Contains(username, "--") {
		return false
	}

	for _, ch := range username {
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') &&
			(ch < '0' || ch > '9') && ch != '-' {
			return false
		}
	}

	return true
}

func checkUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if !IsValidGitHubUsername(username) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUsername, username)
	}
	return username, nil
}

// Profile fetches the user's profile. REST is tried first, then the profile
// page, and finally a stub carrying only the login. When REST fails the
// fallback user is returned along with the REST error.
func (p *Peeker) Profile(ctx context.Context, username string) (*github.User, error) {
	username, err := checkUsername(username)
	if err != nil {
		return nil, err
	}

	user, restErr := p.github.FetchUser(ctx, username)
	if restErr == nil {
		return user, nil
	}
	p.logger.Debug("REST profile fetch failed, trying profile page", "username", username, "error", restErr)

	body, err := p.github.FetchProfileHTML(ctx, username)
	if err != nil {
		p.logger.Debug("profile page fetch failed, using stub", "username", username, "error", err)
	}
	return p.github.ParseProfileHTML(body, username), fmt.Errorf("profile API: %w", restErr)
}

// Contributions recovers the contribution calendar. GraphQL is tried first
// when a token is configured, then extraction from the profile page. Results
// are never merged across sources.
func (p *Peeker) Contributions(ctx context.Context, username string) (*Contributions, error) {
	username, err := checkUsername(username)
	if err != nil {
		return nil, err
	}

	var lastErr error
	if !p.noGraphQL && p.github.HasToken() {
		days, err := p.graphQLContributions(ctx, username)
		if err == nil {
			p.logger.Debug("contributions fetched via GraphQL", "username", username, "days", len(days))
			return &Contributions{Days: days, Method: MethodGraphQL}, nil
		}
		p.logger.Debug("GraphQL contributions failed", "username", username, "error", err)
		lastErr = fmt.Errorf("GraphQL: %w", err)
	}

	body, err := p.github.FetchProfileHTML(ctx, username)
	if err != nil {
		lastErr = fmt.Errorf("profile page: %w", err)
		return nil, fmt.Errorf("%w: %w", contrib.ErrNoDataFound, lastErr)
	}

	days, strategy, err := contrib.Extract(body)
	if err != nil {
		p.logger.Debug("profile extraction failed", "username", username, "html_length", len(body))
		if lastErr != nil {
			return nil, fmt.Errorf("profile page: %w (after %w)", err, lastErr)
		}
		return nil, fmt.Errorf("profile page: %w", err)
	}

	p.logger.Debug("contributions extracted from profile", "username", username, "strategy", strategy, "days", len(days))
	return &Contributions{
		Days:   days,
		Method: fmt.Sprintf("profile data extraction (%s)", strategy),
	}, nil
}

func (p *Peeker) graphQLContributions(ctx context.Context, username string) (contrib.Map, error) {
	data, err := p.github.GraphQL().FetchContributionCalendar(ctx, username)
	if err != nil {
		return nil, err
	}
	return contrib.ParseJSON(data)
}

// PinnedRepositories fetches the user's pinned repositories. It needs a token.
func (p *Peeker) PinnedRepositories(ctx context.Context, username string) ([]github.PinnedRepository, error) {
	username, err := checkUsername(username)
	if err != nil {
		return nil, err
	}
	repos, err := p.github.GraphQL().FetchPinnedRepositories(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("pinned repositories: %w", err)
	}
	return repos, nil
}

// Repositories fetches the count most recently updated repositories and
// summarizes them.
func (p *Peeker) Repositories(ctx context.Context, username string, count int) ([]github.Repository, RepoStats, error) {
	username, err := checkUsername(username)
	if err != nil {
		return nil, RepoStats{}, err
	}
	repos, err := p.github.FetchRepositories(ctx, username, count, "updated")
	if err != nil {
		return nil, RepoStats{}, fmt.Errorf("repositories: %w", err)
	}
	return repos, SummarizeRepositories(repos), nil
}

// SummarizeRepositories totals stars and forks and picks the most common
// language. Ties go to the language seen first; "None" when no repository
// declares one.
func SummarizeRepositories(repos []github.Repository) RepoStats {
	stats := RepoStats{TopLanguage: "None"}
	counts := make(map[string]int)
	var order []string
	for _, r := range repos {
		stats.TotalStars += r.StarCount
		stats.TotalForks += r.ForkCount
		if r.Language == "" {
			continue
		}
		if counts[r.Language] == 0 {
			order = append(order, r.Language)
		}
		counts[r.Language]++
	}

	best := 0
	for _, lang := range order {
		if counts[lang] > best {
			best = counts[lang]
			stats.TopLanguage = lang
		}
	}
	return stats
}
