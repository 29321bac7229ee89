package doiorg

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the doi.org client.
var (
	// ErrFetchFailed covers transport failures, non-2xx statuses and
	// undecodable payloads.
	ErrFetchFailed = errors.New("doi.org metadata fetch failed")

	// ErrEmptyDOI is returned when Fetch is called with the zero DOI.
	ErrEmptyDOI = errors.New("empty DOI")
)

// APIError represents a non-2xx answer from doi.org.
type APIError struct {
	StatusCode int
	Message    string
	DOI        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("doi.org error (status %d): %s (doi: %s)", e.StatusCode, e.Message, e.DOI)
}

// Unwrap makes every APIError match ErrFetchFailed.
func (e *APIError) Unwrap() error { return ErrFetchFailed }

// IsNotFound returns true if doi.org does not know the DOI.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}
