// Package oadoi resolves DOIs to open-access full-text locations using the
// oaDOI (Unpaywall) v2 API.
package oadoi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Siedlerchr/jabref/internal/doi"
	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/httpx"
	"github.com/Siedlerchr/jabref/internal/jsondoc"
	"github.com/Siedlerchr/jabref/internal/storage"
)

const (
	// BaseURL is the oaDOI v2 API base URL.
	BaseURL = "https://api.oadoi.org/v2"

	// DefaultEmail is sent as the contact address the API requires.
	DefaultEmail = "developers@jabref.org"

	// RateLimit is the default request rate in requests per second.
	RateLimit = 10.0

	maxPayloadBytes = 4 << 20
)

// Cache stores previous lookups. A stored empty URL records that no
// open-access copy was found.
type Cache interface {
	GetLocation(doi string) (storage.Location, bool, error)
	PutLocation(doi, url string, checkedAt time.Time) error
}

// Client is a rate-limited oaDOI client. It is safe for concurrent use.
type Client struct {
	httpClient httpx.Doer
	limiter    *rate.Limiter
	baseURL    string
	email      string
	cache      Cache
	maxAge     time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc httpx.Doer) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithEmail sets the contact address sent with every request.
func WithEmail(email string) ClientOption {
	return func(c *Client) {
		if email != "" {
			c.email = email
		}
	}
}

// WithRateLimit sets the request rate in requests per second.
// A non-positive rate disables limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithCache consults cache before the network. Entries older than maxAge
// are refreshed; a zero maxAge keeps entries forever.
func WithCache(cache Cache, maxAge time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = cache
		c.maxAge = maxAge
	}
}

// WithLogger sets the logger for cache diagnostics.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new oaDOI client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: httpx.DefaultClient(),
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		email:      DefaultEmail,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the best open-access location for d. A nil URL with a
// nil error means the API knows of no open-access copy.
func (c *Client) Resolve(ctx context.Context, d doi.DOI) (*url.URL, error) {
	if d.IsZero() {
		return nil, ErrEmptyDOI
	}
	key := strings.ToLower(d.String())

	if loc, ok := c.cached(key); ok {
		return parseLocation(loc.URL)
	}

	raw, err := c.lookup(ctx, d)
	if err != nil {
		return nil, err
	}
	u, err := parseLocation(raw)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.PutLocation(key, raw, c.now()); err != nil {
			c.logger.Warn("caching open-access location", "doi", key, "error", err)
		}
	}
	return u, nil
}

// FindFullText resolves the DOI stored in e. Entries without a parsable
// DOI yield nil, nil.
func (c *Client) FindFullText(ctx context.Context, e *entry.Entry) (*url.URL, error) {
	if e == nil {
		return nil, nil
	}
	raw, ok := e.Field(field.DOI)
	if !ok {
		return nil, nil
	}
	d, ok := doi.Parse(raw)
	if !ok {
		c.logger.Debug("entry DOI not parsable", "citekey", e.CiteKey, "doi", raw)
		return nil, nil
	}
	return c.Resolve(ctx, d)
}

func (c *Client) cached(key string) (storage.Location, bool) {
	if c.cache == nil {
		return storage.Location{}, false
	}
	loc, ok, err := c.cache.GetLocation(key)
	if err != nil {
		c.logger.Warn("reading open-access cache", "doi", key, "error", err)
		return storage.Location{}, false
	}
	if !ok {
		return storage.Location{}, false
	}
	if c.maxAge > 0 && c.now().Sub(loc.CheckedAt) > c.maxAge {
		return storage.Location{}, false
	}
	return loc, true
}

// lookup performs the single round-trip and returns best_oa_location.url,
// or "" when there is none.
func (c *Client) lookup(ctx context.Context, d doi.DOI) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %w", ErrFetchFailed, err)
	}

	// The DOI suffix is opaque; it must not be unescaped or cleaned.
	endpoint, err := url.Parse(c.baseURL + "/" + d.PathEscape())
	if err != nil {
		return "", fmt.Errorf("%w: building URL: %w", ErrFetchFailed, err)
	}
	endpoint.RawQuery = url.Values{"email": {c.email}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	httpx.SetUA(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(httpx.Snippet(resp.Body)),
			DOI:        d.String(),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes))
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %w", ErrFetchFailed, err)
	}
	doc, err := jsondoc.Parse(body)
	switch {
	case errors.Is(err, jsondoc.ErrNotObject):
		return "", fmt.Errorf("%w: payload for %s: %w", ErrInvalidResponse, d, err)
	case err != nil:
		return "", fmt.Errorf("%w: decoding response: %w", ErrFetchFailed, err)
	}
	return bestLocationURL(doc)
}

// bestLocationURL reads best_oa_location.url. An absent or null location
// or url is "". Values of the wrong JSON type are ErrInvalidResponse.
func bestLocationURL(doc jsondoc.Object) (string, error) {
	if !doc.Has("best_oa_location") || doc.IsNull("best_oa_location") {
		return "", nil
	}
	loc, ok := doc.Object("best_oa_location")
	if !ok {
		return "", fmt.Errorf("%w: best_oa_location is not an object", ErrInvalidResponse)
	}
	if !loc.Has("url") || loc.IsNull("url") {
		return "", nil
	}
	raw, ok := loc["url"].(string)
	if !ok {
		return "", fmt.Errorf("%w: best_oa_location.url is not a string", ErrInvalidResponse)
	}
	return strings.TrimSpace(raw), nil
}

// parseLocation requires an absolute URL. "" means no location.
func parseLocation(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: location %q: %w", ErrInvalidResponse, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: location %q is not an absolute URL", ErrInvalidResponse, raw)
	}
	return u, nil
}
