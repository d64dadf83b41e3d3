package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
)

// GraphQLClient handles GitHub GraphQL API requests.
type GraphQLClient struct {
	cachedHTTPDo HTTPDoFunc
	logger       *slog.Logger
	token        string
	endpoint     string
}

// NewGraphQLClient creates a new GraphQL client. An empty endpoint uses
// the public API.
func NewGraphQLClient(token string, cachedHTTPDo HTTPDoFunc, logger *slog.Logger, endpoint string) *GraphQLClient {
	if endpoint == "" {
		endpoint = DefaultAPIBase + "/graphql"
	}
	return &GraphQLClient{
		token:        token,
		cachedHTTPDo: cachedHTTPDo,
		logger:       logger,
		endpoint:     endpoint,
	}
}

// GraphQLResponse represents the response from a GraphQL query.
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents an error in a GraphQL response.
type GraphQLError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// errTransient marks GraphQL errors reported inside a 200 response that
// GitHub documents as worth retrying.
var errTransient = errors.New("GraphQL server error (transient)")

const contributionCalendarQuery = `
query($login: String!) {
	user(login: $login) {
		contributionsCollection {
			contributionCalendar {
				totalContributions
				weeks {
					contributionDays {
						date
						contributionCount
						color
					}
				}
			}
		}
	}
}`

const pinnedRepositoriesQuery = `
query($login: String!) {
	user(login: $login) {
		pinnedItems(first: 6, types: REPOSITORY) {
			nodes {
				... on Repository {
					name
					description
					url
					stargazerCount
					forkCount
					primaryLanguage {
						name
						color
					}
				}
			}
		}
	}
}`

// FetchContributionCalendar returns the "data" member of the calendar query,
// shaped {"user": {"contributionsCollection": ...}}.
func (c *GraphQLClient) FetchContributionCalendar(ctx context.Context, username string) (json.RawMessage, error) {
	resp, err := c.executeQuery(ctx, contributionCalendarQuery, map[string]any{"login": username})
	if err != nil {
		return nil, err
	}

	var probe struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &probe); err != nil {
		return nil, fmt.Errorf("unmarshaling calendar data: %w", err)
	}
	if len(probe.User) == 0 || string(probe.User) == "null" {
		return nil, fmt.Errorf("GraphQL: %w", ErrUserNotFound)
	}

	return resp.Data, nil
}

// FetchPinnedRepositories fetches up to six repositories pinned by a user.
func (c *GraphQLClient) FetchPinnedRepositories(ctx context.Context, username string) ([]PinnedRepository, error) {
	resp, err := c.executeQuery(ctx, pinnedRepositoriesQuery, map[string]any{"login": username})
	if err != nil {
		return nil, err
	}

	var result struct {
		User *struct {
			PinnedItems struct {
				Nodes []PinnedRepository `json:"nodes"`
			} `json:"pinnedItems"`
		} `json:"user"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("unmarshaling pinned repositories: %w", err)
	}
	if result.User == nil {
		return nil, fmt.Errorf("GraphQL: %w", ErrUserNotFound)
	}

	// Non-repository pins decode as empty nodes.
	var repos []PinnedRepository
	for _, node := range result.User.PinnedItems.Nodes {
		if node.Name != "" {
			repos = append(repos, node)
		}
	}

	c.logger.Debug("fetched pinned repositories", "username", username, "count", len(repos))
	return repos, nil
}

// executeQuery executes a GraphQL query, retrying errors GitHub reports as
// transient. HTTP-level failures are not retried here; the transport does that.
func (c *GraphQLClient) executeQuery(ctx context.Context, query string, variables map[string]any) (*GraphQLResponse, error) {
	if !IsValidToken(c.token) {
		return nil, ErrTokenRequired
	}

	var resp *GraphQLResponse
	var lastErr error
	attempt := 0

	// Create a context with 15-second timeout for interactive use
	retryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err := retry.Do(
		func() error {
			// Retries must not be answered with the cached failure.
			resp, lastErr = c.executeQueryOnce(retryCtx, query, variables, attempt > 0)
			attempt++
			if lastErr != nil && !errors.Is(lastErr, errTransient) {
				return retry.Unrecoverable(lastErr)
			}
			return lastErr
		},
		retry.Context(retryCtx),
		retry.Attempts(5),
		retry.Delay(100*time.Millisecond),
		retry.MaxDelay(3*time.Second),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.MaxJitter(200*time.Millisecond),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Info("retrying GraphQL query",
				"attempt", n+1,
				"error", err.Error())
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("GraphQL query failed: %w", err)
	}

	return resp, nil
}

// executeQueryOnce executes a single GraphQL query attempt.
func (c *GraphQLClient) executeQueryOnce(ctx context.Context, query string, variables map[string]any, fresh bool) (*GraphQLResponse, error) {
	payload := map[string]any{
		"query":     query,
		"variables": variables,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if fresh {
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := c.cachedHTTPDo(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: executing request: %w", ErrFetchFailed, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusTooManyRequests:
		c.logger.Warn("GitHub rate limit or permission error on GraphQL endpoint",
			"status", resp.StatusCode,
			"rate_limit_remaining", resp.Header.Get("X-Ratelimit-Remaining"),
			"rate_limit_reset", resp.Header.Get("X-Ratelimit-Reset"))
		return nil, fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	default:
		c.logger.Warn("unexpected HTTP status on GraphQL endpoint", "status", resp.StatusCode)
		return nil, checkStatus(resp)
	}

	var graphqlResp GraphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&graphqlResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(graphqlResp.Errors) > 0 {
		errMsg := graphqlResp.Errors[0].Message
		if strings.Contains(errMsg, "Something went wrong") ||
			strings.Contains(strings.ToLower(errMsg), "timeout") {
			c.logger.Warn("GraphQL server error (may be transient)",
				"error", errMsg,
				"type", graphqlResp.Errors[0].Type)
			return nil, fmt.Errorf("%w: %s", errTransient, errMsg)
		}
		return nil, fmt.Errorf("GraphQL error: %s", errMsg)
	}

	return &graphqlResp, nil
}
