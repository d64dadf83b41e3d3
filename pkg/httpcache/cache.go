// Package httpcache keeps successful GitHub responses in memory for the
// lifetime of the process. Nothing is written to disk.
package httpcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/maypok86/otter/v2"
)

// FromCacheHeader is set on responses served from the cache.
const FromCacheHeader = "X-From-Cache"

// Entry is a cached response body.
type Entry struct {
	ExpiresAt   time.Time
	ContentType string
	Data        []byte
}

// Cache is an otter-backed response cache keyed by method, URL and body.
type Cache struct {
	cache  *otter.Cache[string, Entry]
	logger *slog.Logger
	ttl    time.Duration
}

// New creates a memory-only cache whose entries live for ttl.
func New(ttl time.Duration, logger *slog.Logger) *Cache {
	cache := otter.Must(&otter.Options[string, Entry]{
		MaximumSize:      10_000,
		InitialCapacity:  256,
		ExpiryCalculator: otter.ExpiryWriting[string, Entry](ttl),
	})
	return &Cache{cache: cache, logger: logger, ttl: ttl}
}

func key(method, url string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{0})
	h.Write([]byte(url))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the entry for a request, if present and unexpired.
func (c *Cache) Get(method, url string, body []byte) (Entry, bool) {
	k := key(method, url, body)
	entry, found := c.cache.GetIfPresent(k)
	if !found {
		c.logger.Debug("cache miss", "method", method, "url", url)
		return Entry{}, false
	}

	// Otter expires lazily; entries past their deadline are dropped here.
	if time.Now().After(entry.ExpiresAt) {
		c.logger.Debug("cache miss", "method", method, "url", url, "reason", "expired", "expired_at", entry.ExpiresAt)
		c.cache.Invalidate(k)
		return Entry{}, false
	}

	c.logger.Debug("cache hit", "method", method, "url", url, "size", len(entry.Data))
	return entry, true
}

// Set stores a response body for a request.
func (c *Cache) Set(method, url string, body []byte, contentType string, data []byte) {
	entry := Entry{
		ExpiresAt:   time.Now().Add(c.ttl),
		ContentType: contentType,
		Data:        data,
	}
	c.cache.Set(key(method, url, body), entry)
	c.logger.Debug("cache set", "method", method, "url", url, "expires_at", entry.ExpiresAt, "size", len(data))
}

// Len returns the approximate number of cached entries.
func (c *Cache) Len() int {
	return c.cache.EstimatedSize()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.cache.InvalidateAll()
}

// HTTPClient interface for making HTTP requests
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CachedHTTPClient wraps an HTTP client with caching support
type CachedHTTPClient struct {
	cache      *Cache
	httpClient HTTPClient
	logger     *slog.Logger
}

// NewCachedHTTPClient creates a new cached HTTP client. A nil cache passes
// every request straight through.
func NewCachedHTTPClient(cache *Cache, httpClient HTTPClient, logger *slog.Logger) *CachedHTTPClient {
	return &CachedHTTPClient{
		cache:      cache,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Do performs an HTTP request with caching support. GET and POST requests
// are cached; POST bodies (GraphQL queries) are part of the key. Only 200
// responses are stored. A "Cache-Control: no-cache" request skips the lookup
// but still refreshes the entry.
func (c *CachedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.cache == nil || (req.Method != http.MethodGet && req.Method != http.MethodPost) {
		return c.httpClient.Do(req)
	}

	url := req.URL.String()

	var requestBody []byte
	if req.Body != nil && req.Body != http.NoBody {
		var err error
		requestBody, err = io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("reading request body: %w", err)
		}
		if err := req.Body.Close(); err != nil {
			c.logger.Debug("failed to close request body", "error", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(requestBody))
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(requestBody)), nil
		}
	}

	if req.Header.Get("Cache-Control") == "no-cache" {
		c.logger.Debug("cache bypass", "method", req.Method, "url", url)
	} else if entry, found := c.cache.Get(req.Method, url, requestBody); found {
		resp := &http.Response{
			Status:        "200 OK",
			StatusCode:    http.StatusOK,
			Proto:         "HTTP/1.1",
			ProtoMajor:    1,
			ProtoMinor:    1,
			Body:          io.NopCloser(bytes.NewReader(entry.Data)),
			ContentLength: int64(len(entry.Data)),
			Header:        make(http.Header),
			Request:       req,
		}
		resp.Header.Set(FromCacheHeader, "true")
		if entry.ContentType != "" {
			resp.Header.Set("Content-Type", entry.ContentType)
		}
		return resp, nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed to close response body", "error", closeErr)
		}
		if err != nil {
			return nil, err
		}

		c.cache.Set(req.Method, url, requestBody, resp.Header.Get("Content-Type"), body)
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	return resp, nil
}
