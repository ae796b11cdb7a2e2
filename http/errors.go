package http

import (
	"errors"
	"fmt"
	"time"
)

// HTTPError indicates a non-success HTTP response. It is propagated to the
// caller unchanged; the scraping layer never swallows transport failures.
type HTTPError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// Body is the response body, kept for diagnostics
	Body []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http: status %d", e.StatusCode)
}

// RateLimitError indicates the server throttled the request (429 or 503).
type RateLimitError struct {
	// StatusCode is the HTTP status code
	StatusCode int
	// RetryAfter is the server-suggested wait, zero when absent
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("http: rate limited (status %d): retry after %v", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("http: rate limited (status %d)", e.StatusCode)
}

// ErrNoResponse indicates the request loop finished without a usable response.
var ErrNoResponse = errors.New("http: no response received")
