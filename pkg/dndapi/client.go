// Package dndapi provides a client for the D&D 5e API.
package dndapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/monster-pipeline/internal/model"
)

// DefaultBaseURL is the versioned API root for catalog endpoints.
const DefaultBaseURL = "https://www.dnd5eapi.co/api/2014"

// DefaultSiteURL prefixes root-relative detail references.
const DefaultSiteURL = "https://www.dnd5eapi.co"

// Client defines the D&D 5e API operations the pipeline needs.
type Client interface {
	// ListMonsters fetches the full monster catalog.
	ListMonsters(ctx context.Context) (*model.CatalogResponse, error)

	// GetMonster fetches one monster's raw detail payload. ref may be an
	// absolute URL or a root-relative path like /api/2014/monsters/goblin.
	GetMonster(ctx context.Context, ref string) (map[string]any, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithSiteURL sets the prefix for root-relative detail references.
func WithSiteURL(url string) Option {
	return func(c *httpClient) {
		c.siteURL = strings.TrimRight(url, "/")
	}
}

// WithUserAgent sets the User-Agent header on all requests.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithTimeout bounds every request. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL   string
	siteURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
}

// NewClient creates a D&D 5e API client. The client makes exactly one
// attempt per call: failures surface to the caller rather than retrying.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   DefaultBaseURL,
		siteURL:   DefaultSiteURL,
		userAgent: "monster-pipeline/1.0",
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(20, 20),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) ListMonsters(ctx context.Context) (*model.CatalogResponse, error) {
	var catalog model.CatalogResponse
	if err := c.getJSON(ctx, c.baseURL+"/monsters", &catalog); err != nil {
		return nil, eris.Wrap(err, "dndapi: list monsters")
	}
	return &catalog, nil
}

func (c *httpClient) GetMonster(ctx context.Context, ref string) (map[string]any, error) {
	raw := make(map[string]any)
	if err := c.getJSON(ctx, c.resolve(ref), &raw); err != nil {
		return nil, eris.Wrapf(err, "dndapi: get monster %s", ref)
	}
	return raw, nil
}

// resolve turns a root-relative reference into a fully qualified URL.
func (c *httpClient) resolve(ref string) string {
	if strings.HasPrefix(ref, "/") {
		return c.siteURL + ref
	}
	return ref
}

func (c *httpClient) getJSON(ctx context.Context, url string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "get %s", url)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return eris.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrapf(err, "decode response from %s", url)
	}
	return nil
}
