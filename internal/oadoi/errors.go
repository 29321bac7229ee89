package oadoi

import (
	"errors"
	"fmt"
	"net/http"
)

// Errors returned by the resolver.
var (
	// ErrFetchFailed covers transport failures, non-2xx statuses and
	// payloads that are not valid JSON.
	ErrFetchFailed = errors.New("open-access lookup failed")

	// ErrInvalidResponse indicates valid JSON of the wrong shape: a top
	// level that is not an object, a location or url of the wrong type, or
	// a location URL that cannot be parsed.
	ErrInvalidResponse = errors.New("invalid response from oaDOI")

	// ErrEmptyDOI is returned when Resolve is called with the zero DOI.
	ErrEmptyDOI = errors.New("empty DOI")
)

// APIError represents a non-2xx answer from the oaDOI API.
type APIError struct {
	StatusCode int
	Message    string
	DOI        string // For context in lookup errors
}

func (e *APIError) Error() string {
	if e.DOI != "" {
		return fmt.Sprintf("oaDOI API error (status %d): %s (doi: %s)", e.StatusCode, e.Message, e.DOI)
	}
	return fmt.Sprintf("oaDOI API error (status %d): %s", e.StatusCode, e.Message)
}

// Unwrap makes every APIError match ErrFetchFailed.
func (e *APIError) Unwrap() error { return ErrFetchFailed }

// IsFetchFailed returns true if the lookup could not be completed.
func IsFetchFailed(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsNotFound returns true if the API does not know the DOI.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited returns true if the API rejected the request for rate.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}
