package oadoi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Siedlerchr/jabref/internal/doi"
	"github.com/Siedlerchr/jabref/internal/entry"
	"github.com/Siedlerchr/jabref/internal/field"
	"github.com/Siedlerchr/jabref/internal/storage"
)

// recorded is the last request a test server saw.
type recorded struct {
	mu     sync.Mutex
	url    *url.URL
	header http.Header
}

func (r *recorded) URL() *url.URL {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.url
}

func (r *recorded) Header() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header
}

// newTestServer answers every request with status and body.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, *recorded) {
	t.Helper()
	last := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		last.mu.Lock()
		last.url = r.URL
		last.header = r.Header.Clone()
		last.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, last
}

func newTestClient(srv *httptest.Server, opts ...ClientOption) *Client {
	base := []ClientOption{WithBaseURL(srv.URL + "/v2"), WithRateLimit(0)}
	return NewClient(append(base, opts...)...)
}

func TestResolve_Found(t *testing.T) {
	srv, last := newTestServer(t, http.StatusOK,
		`{"doi":"10.1109/icws.2007.59","best_oa_location":{"url":"https://example.org/paper.pdf","host_type":"repository"}}`)
	c := newTestClient(srv)

	u, err := c.Resolve(context.Background(), doi.MustParse("10.1109/ICWS.2007.59"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u == nil || u.String() != "https://example.org/paper.pdf" {
		t.Fatalf("Resolve = %v", u)
	}

	if last.URL().Path != "/v2/10.1109/ICWS.2007.59" {
		t.Errorf("path = %q", last.URL().Path)
	}
	if got := last.URL().Query().Get("email"); got != DefaultEmail {
		t.Errorf("email = %q, want %q", got, DefaultEmail)
	}
	if got := last.Header().Get("Accept"); got != "application/json" {
		t.Errorf("Accept = %q", got)
	}
}

func TestResolve_Email(t *testing.T) {
	srv, last := newTestServer(t, http.StatusOK, `{"best_oa_location":null}`)
	c := newTestClient(srv, WithEmail("someone@example.org"))
	c.Resolve(context.Background(), doi.MustParse("10.1234/x"))
	if got := last.URL().Query().Get("email"); got != "someone@example.org" {
		t.Errorf("email = %q", got)
	}
}

func TestResolve_NoCopy(t *testing.T) {
	bodies := map[string]string{
		"null location":   `{"best_oa_location":null}`,
		"absent location": `{"doi":"10.1234/x"}`,
		"location no url": `{"best_oa_location":{"host_type":"publisher"}}`,
		"null url":        `{"best_oa_location":{"url":null}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, body)
			u, err := newTestClient(srv).Resolve(context.Background(), doi.MustParse("10.1234/x"))
			if err != nil {
				t.Fatalf("Resolve error: %v", err)
			}
			if u != nil {
				t.Errorf("Resolve = %v, want nil", u)
			}
		})
	}
}

func TestResolve_InvalidLocation(t *testing.T) {
	for _, raw := range []string{"not a url", "/relative/path.pdf", "http://[::1"} {
		body := fmt.Sprintf(`{"best_oa_location":{"url":%q}}`, raw)
		srv, _ := newTestServer(t, http.StatusOK, body)
		_, err := newTestClient(srv).Resolve(context.Background(), doi.MustParse("10.1234/x"))
		if !errors.Is(err, ErrInvalidResponse) {
			t.Errorf("url %q: error = %v, want ErrInvalidResponse", raw, err)
		}
		if IsFetchFailed(err) {
			t.Errorf("url %q: parse failure must not be a fetch failure", raw)
		}
	}
}

func TestResolve_WrongShape(t *testing.T) {
	bodies := map[string]string{
		"null payload":    `null`,
		"array payload":   `[]`,
		"location string": `{"best_oa_location":"https://x"}`,
		"url number":      `{"best_oa_location":{"url":42}}`,
		"url object":      `{"best_oa_location":{"url":{"href":"https://x"}}}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, body)
			u, err := newTestClient(srv).Resolve(context.Background(), doi.MustParse("10.1234/x"))
			if !errors.Is(err, ErrInvalidResponse) {
				t.Fatalf("Resolve = %v, %v; want ErrInvalidResponse", u, err)
			}
			if IsFetchFailed(err) {
				t.Error("shape error must not be a fetch failure")
			}
		})
	}
}

func TestResolve_RequestPathKeepsDOI(t *testing.T) {
	tests := []struct {
		doi     string
		escaped string
	}{
		{"10.1234/50%off", "/v2/10.1234/50%25off"},
		{"10.1234/%41", "/v2/10.1234/%2541"},
		{"10.1234/a?b", "/v2/10.1234/a%3Fb"},
		{"10.1234/a#b", "/v2/10.1234/a%23b"},
		{"10.1234/a//b", "/v2/10.1234/a//b"},
	}
	for _, tt := range tests {
		t.Run(tt.doi, func(t *testing.T) {
			srv, last := newTestServer(t, http.StatusOK, `{"best_oa_location":{"url":"https://example.org/p.pdf"}}`)
			u, err := newTestClient(srv).Resolve(context.Background(), doi.MustParse(tt.doi))
			if err != nil || u == nil {
				t.Fatalf("Resolve = %v, %v", u, err)
			}
			got := last.URL()
			if got.Path != "/v2/"+tt.doi {
				t.Errorf("path = %q, want %q", got.Path, "/v2/"+tt.doi)
			}
			if got.EscapedPath() != tt.escaped {
				t.Errorf("escaped path = %q, want %q", got.EscapedPath(), tt.escaped)
			}
			if got.Query().Get("email") != DefaultEmail {
				t.Errorf("query = %q", got.RawQuery)
			}
		})
	}
}

func TestResolve_FetchFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		notFound bool
	}{
		{"not found", http.StatusNotFound, `{"error":true}`, true},
		{"server error", http.StatusInternalServerError, "boom", false},
		{"rate limited", http.StatusTooManyRequests, "", false},
		{"malformed json", http.StatusOK, `{"best_oa_location":`, false},
		{"wrong shape", http.StatusOK, `{"best_oa_location":"https://x"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, tt.status, tt.body)
			_, err := newTestClient(srv).Resolve(context.Background(), doi.MustParse("10.1234/x"))
			if !IsFetchFailed(err) {
				t.Fatalf("error = %v, want fetch failure", err)
			}
			if IsNotFound(err) != tt.notFound {
				t.Errorf("IsNotFound = %v, want %v", IsNotFound(err), tt.notFound)
			}
		})
	}
}

func TestResolve_APIErrorDetails(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusTooManyRequests, "slow down")
	_, err := newTestClient(srv).Resolve(context.Background(), doi.MustParse("10.1234/x"))

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %v is not an APIError", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Message != "slow down" {
		t.Errorf("APIError = %+v", apiErr)
	}
	if !IsRateLimited(err) {
		t.Error("IsRateLimited should be true")
	}
	if !strings.Contains(err.Error(), "10.1234/x") {
		t.Errorf("error %q should name the DOI", err)
	}
}

func TestResolve_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	c := NewClient(WithBaseURL(base), WithRateLimit(0))
	_, err := c.Resolve(context.Background(), doi.MustParse("10.1234/x"))
	if !IsFetchFailed(err) {
		t.Errorf("error = %v, want fetch failure", err)
	}
}

func TestResolve_Canceled(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestClient(srv).Resolve(ctx, doi.MustParse("10.1234/x"))
	if !errors.Is(err, context.Canceled) || !IsFetchFailed(err) {
		t.Errorf("error = %v, want canceled fetch failure", err)
	}
}

func TestResolve_ZeroDOI(t *testing.T) {
	c := NewClient()
	if _, err := c.Resolve(context.Background(), doi.DOI{}); !errors.Is(err, ErrEmptyDOI) {
		t.Errorf("error = %v, want ErrEmptyDOI", err)
	}
}

func TestFindFullText(t *testing.T) {
	srv, last := newTestServer(t, http.StatusOK, `{"best_oa_location":{"url":"https://example.org/x.pdf"}}`)
	c := newTestClient(srv)

	e := entry.New(field.Article)
	e.SetField(field.DOI, "https://doi.org/10.1234/x")
	u, err := c.FindFullText(context.Background(), e)
	if err != nil || u == nil {
		t.Fatalf("FindFullText = %v, %v", u, err)
	}
	if last.URL().Path != "/v2/10.1234/x" {
		t.Errorf("path = %q", last.URL().Path)
	}

	for name, e := range map[string]*entry.Entry{
		"nil entry":   nil,
		"no doi":      entry.New(field.Article),
		"garbage doi": func() *entry.Entry { e := entry.New(field.Article); e.SetField(field.DOI, "not-a-doi"); return e }(),
	} {
		u, err := c.FindFullText(context.Background(), e)
		if u != nil || err != nil {
			t.Errorf("%s: FindFullText = %v, %v; want nil, nil", name, u, err)
		}
	}
}

// memCache is an in-memory Cache.
type memCache struct {
	mu   sync.Mutex
	locs map[string]storage.Location
	puts int
}

func (m *memCache) GetLocation(d string) (storage.Location, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	loc, ok := m.locs[d]
	return loc, ok, nil
}

func (m *memCache) PutLocation(d, u string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locs == nil {
		m.locs = make(map[string]storage.Location)
	}
	m.locs[d] = storage.Location{DOI: d, URL: u, CheckedAt: at}
	m.puts++
	return nil
}

func TestResolve_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"best_oa_location":{"url":"https://example.org/c.pdf"}}`)
	}))
	defer srv.Close()

	cache := &memCache{}
	c := newTestClient(srv, WithCache(cache, time.Hour))

	for i := 0; i < 3; i++ {
		u, err := c.Resolve(context.Background(), doi.MustParse("10.1234/C"))
		if err != nil || u == nil || u.String() != "https://example.org/c.pdf" {
			t.Fatalf("Resolve #%d = %v, %v", i, u, err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
	if _, ok := cache.locs["10.1234/c"]; !ok {
		t.Error("cache key should be the lowercased DOI")
	}

	// Expired entries are refreshed.
	c.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	c.Resolve(context.Background(), doi.MustParse("10.1234/C"))
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times after expiry, want 2", n)
	}
}

func TestResolve_CacheNegative(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"best_oa_location":null}`)
	cache := &memCache{}
	c := newTestClient(srv, WithCache(cache, 0))

	if u, err := c.Resolve(context.Background(), doi.MustParse("10.1234/n")); u != nil || err != nil {
		t.Fatalf("Resolve = %v, %v", u, err)
	}
	if loc := cache.locs["10.1234/n"]; loc.URL != "" || cache.puts != 1 {
		t.Errorf("negative result not cached: %+v", cache.locs)
	}
}

func TestResolve_ErrorsNotCached(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, "")
	cache := &memCache{}
	c := newTestClient(srv, WithCache(cache, 0))
	c.Resolve(context.Background(), doi.MustParse("10.1234/e"))
	if cache.puts != 0 {
		t.Error("failed lookups must not be cached")
	}
}
