// Package httpx holds the HTTP plumbing shared by the remote clients.
package httpx

import (
	"io"
	"net/http"
	"sync"
	"time"
)

// UserAgent identifies outbound requests.
const UserAgent = "bibnorm/1.0 (+https://github.com/Siedlerchr/jabref)"

// DefaultTimeout bounds a single round-trip when no client is supplied.
const DefaultTimeout = 10 * time.Second

// Doer is the minimal HTTP client interface the remote clients need.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultClient returns the process-wide client, built on first use.
var DefaultClient = sync.OnceValue(func() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
})

// SetUA sets the User-Agent header on req.
func SetUA(req *http.Request) {
	if req != nil {
		req.Header.Set("User-Agent", UserAgent)
	}
}

// Snippet reads at most 512 bytes of body for error messages.
func Snippet(body io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(body, 512))
	return string(b)
}
