package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	userAgent = "ghpeek/1.0"

	// GitHub serves a trimmed page to unknown agents.
	browserUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

	maxProfileBytes = 5 << 20
	maxErrorSnippet = 200
)

// FetchUser fetches basic public user info via the REST API.
func (c *Client) FetchUser(ctx context.Context, username string) (*User, error) {
	apiURL := fmt.Sprintf("%s/users/%s", c.apiBase, url.PathEscape(username))

	var user User
	if err := c.getJSON(ctx, apiURL, &user); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched user", "username", username, "name", user.Name)
	return &user, nil
}

// FetchEvents fetches the most recent public events for a user.
func (c *Client) FetchEvents(ctx context.Context, username string) ([]PublicEvent, error) {
	apiURL := fmt.Sprintf("%s/users/%s/events?per_page=100", c.apiBase, url.PathEscape(username))

	var events []PublicEvent
	if err := c.getJSON(ctx, apiURL, &events); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched public events", "username", username, "count", len(events))
	return events, nil
}

// FetchRepositories fetches up to count public repositories owned by a user,
// ordered by sort ("updated", "created", "pushed" or "full_name").
func (c *Client) FetchRepositories(ctx context.Context, username string, count int, sort string) ([]Repository, error) {
	count = max(1, min(count, 100))
	if sort == "" {
		sort = "updated"
	}
	q := url.Values{}
	q.Set("sort", sort)
	q.Set("per_page", fmt.Sprint(count))
	apiURL := fmt.Sprintf("%s/users/%s/repos?%s", c.apiBase, url.PathEscape(username), q.Encode())

	var repos []Repository
	if err := c.getJSON(ctx, apiURL, &repos); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched repositories", "username", username, "count", len(repos))
	return repos, nil
}

// FetchProfileHTML fetches the raw HTML of a GitHub profile page.
func (c *Client) FetchProfileHTML(ctx context.Context, username string) ([]byte, error) {
	profileURL := fmt.Sprintf("%s/%s", c.webBase, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.cachedHTTPDo(ctx, req)
	if err != nil {
		c.logger.Debug("failed to fetch profile HTML", "username", username, "error", err)
		return nil, fmt.Errorf("%w: profile page: %w", ErrFetchFailed, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	if err := checkStatus(resp); err != nil {
		c.logger.Debug("profile HTML returned non-200", "username", username, "status", resp.StatusCode)
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProfileBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading profile page: %w", ErrFetchFailed, err)
	}

	c.logger.Debug("fetched profile HTML", "username", username, "html_length", len(body))
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, apiURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.HasToken() {
		req.Header.Set("Authorization", "token "+c.githubToken)
	}

	resp, err := c.cachedHTTPDo(ctx, req)
	if err != nil {
		c.logger.Debug("GitHub API request failed", "url", apiURL, "error", err)
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("failed to close response body", "error", err)
		}
	}()

	if err := checkStatus(resp); err != nil {
		c.logger.Debug("GitHub API returned non-200 status", "url", apiURL, "status", resp.StatusCode)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrFetchFailed, err)
	}
	return nil
}

// checkStatus maps a non-200 response to ErrUserNotFound or ErrFetchFailed,
// keeping the first bytes of the body for context.
func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrUserNotFound
	}
	snippet, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorSnippet))
	if err != nil {
		return fmt.Errorf("%w: HTTP %d", ErrFetchFailed, resp.StatusCode)
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrFetchFailed, resp.StatusCode, snippet)
}
