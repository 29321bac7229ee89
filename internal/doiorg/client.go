// Package doiorg fetches DOI metadata from doi.org by content negotiation
// and translates it into canonical entries.
package doiorg

import (
	"context"
	"fmt"
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
	"github.com/Siedlerchr/jabref/internal/translate"
)

const (
	// BaseURL is the DOI resolver.
	BaseURL = "https://doi.org"

	// CSLMediaType requests CSL-JSON from registration agencies.
	CSLMediaType = "application/vnd.citationstyles.csl+json"

	// RateLimit is the default request rate in requests per second.
	RateLimit = 10.0
)

// Cache stores fetched entries keyed by DOI.
type Cache interface {
	GetEntry(doi string) (*entry.Entry, time.Time, bool, error)
	PutEntry(doi string, e *entry.Entry, fetchedAt time.Time) error
}

// Client is a rate-limited doi.org client. It is safe for concurrent use.
type Client struct {
	httpClient httpx.Doer
	limiter    *rate.Limiter
	baseURL    string
	opts       translate.Options
	cache      Cache
	now        func() time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc httpx.Doer) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithRateLimit sets the request rate; non-positive disables limiting.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithTranslateOptions sets the options handed to the CSL translator.
func WithTranslateOptions(opts translate.Options) ClientOption {
	return func(c *Client) { c.opts = opts }
}

// WithCache consults cache before the network.
func WithCache(cache Cache) ClientOption {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a new doi.org client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: httpx.DefaultClient(),
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves the CSL-JSON record for d and translates it. The DOI
// field of the result is always the normalized d.
func (c *Client) Fetch(ctx context.Context, d doi.DOI) (*entry.Entry, error) {
	if d.IsZero() {
		return nil, ErrEmptyDOI
	}
	log := c.logger()

	if c.cache != nil {
		e, _, ok, err := c.cache.GetEntry(d.String())
		if err != nil {
			log.Warn("reading metadata cache", "doi", d.String(), "error", err)
		} else if ok {
			// The cache is case-insensitive; report the DOI as requested.
			e = e.Clone()
			e.SetField(field.DOI, d.String())
			return e, nil
		}
	}

	doc, err := c.get(ctx, d)
	if err != nil {
		return nil, err
	}
	e, err := translate.CSL{}.Translate(doc, c.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	e.SetField(field.DOI, d.String())

	if c.cache != nil {
		if err := c.cache.PutEntry(d.String(), e, c.now()); err != nil {
			log.Warn("caching metadata", "doi", d.String(), "error", err)
		}
	}
	return e, nil
}

func (c *Client) logger() *slog.Logger {
	if c.opts.Logger != nil {
		return c.opts.Logger
	}
	return slog.Default()
}

func (c *Client) get(ctx context.Context, d doi.DOI) (jsondoc.Object, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %w", ErrFetchFailed, err)
	}

	endpoint, err := url.Parse(c.baseURL + "/" + d.PathEscape())
	if err != nil {
		return nil, fmt.Errorf("%w: building URL: %w", ErrFetchFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrFetchFailed, err)
	}
	req.Header.Set("Accept", CSLMediaType)
	httpx.SetUA(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(httpx.Snippet(resp.Body)),
			DOI:        d.String(),
		}
	}

	doc, err := jsondoc.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return doc, nil
}
