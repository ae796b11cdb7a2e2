// Package http provides the HTTP transport for YouTube page and API requests,
// with retry logic, token-bucket rate limiting, and a shared cookie jar for
// per-request localization.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"ytscrape/internal/retry"
)

// Client wraps an HTTP client with retry logic and rate limiting. All
// requests share one cookie jar, so cookies set through SetCookie (for
// example the PREF localization cookie) apply to every subsequent request.
type Client struct {
	base    *http.Client
	config  *Config
	limiter *rate.Limiter
	jar     http.CookieJar
}

// Config holds HTTP client configuration.
type Config struct {
	// Timeout for individual HTTP requests
	Timeout time.Duration

	// Retry configuration
	Retry retry.Config

	// UserAgent for HTTP requests
	UserAgent string

	// RequestsPerSecond caps the outgoing request rate. Zero disables the
	// limiter.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size. Defaults to 1 when unset and a
	// rate is configured.
	Burst int

	// ProxyURL routes all requests through the given proxy when non-empty.
	ProxyURL string

	// Transport holds connection pool settings
	Transport TransportConfig
}

// TransportConfig configures the HTTP transport (connection pooling).
type TransportConfig struct {
	// MaxIdleConns is the maximum number of idle connections across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum idle connections per host.
	MaxIdleConnsPerHost int

	// MaxConnsPerHost is the maximum concurrent connections per host.
	MaxConnsPerHost int

	// IdleConnTimeout is the maximum time an idle connection stays open.
	IdleConnTimeout time.Duration

	// ForceAttemptHTTP2 enables HTTP/2 for servers that support it.
	ForceAttemptHTTP2 bool
}

// DefaultConfig returns sensible defaults for scraping a single host.
func DefaultConfig() *Config {
	return &Config{
		Timeout:           30 * time.Second,
		Retry:             retry.DefaultConfig(),
		UserAgent:         defaultUserAgent,
		RequestsPerSecond: 2.5,
		Burst:             3,
		Transport:         DefaultTransportConfig(),
	}
}

// defaultUserAgent mimics a standard browser; YouTube serves a different
// page layout to unknown agents.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultTransportConfig returns sensible connection pool defaults.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     20,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
}

// New creates an HTTP client with the given configuration. A nil config
// uses DefaultConfig.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.Transport.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.Transport.MaxConnsPerHost,
		IdleConnTimeout:     cfg.Transport.IdleConnTimeout,
		ForceAttemptHTTP2:   cfg.Transport.ForceAttemptHTTP2,
	}
	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		base: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			Jar:       jar,
		},
		config:  cfg,
		limiter: limiter,
		jar:     jar,
	}, nil
}

// Response represents an HTTP response with status code and body.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodGet, url, nil, headers)
}

// Post performs a POST request with the given body.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) (*Response, error) {
	return c.do(ctx, http.MethodPost, url, body, headers)
}

// do performs an HTTP request with rate limiting and retry. Transient
// failures (network errors, 5xx, throttling) are retried; other non-2xx
// statuses surface immediately as *HTTPError.
func (c *Client) do(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	var resp *Response

	err := retry.Do(ctx, c.config.Retry, isRetryableHTTPError, func(ctx context.Context) error {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
		if err != nil {
			return err
		}

		req.Header.Set("User-Agent", c.config.UserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		httpResp, err := c.base.Do(req)
		if err != nil {
			return fmt.Errorf("http request failed: %w", err)
		}
		defer httpResp.Body.Close()

		if httpResp.StatusCode == http.StatusTooManyRequests ||
			httpResp.StatusCode == http.StatusServiceUnavailable {
			return &RateLimitError{
				StatusCode: httpResp.StatusCode,
				RetryAfter: parseRetryAfter(httpResp.Header),
			}
		}

		if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
			respBody, _ := io.ReadAll(httpResp.Body)
			return &HTTPError{StatusCode: httpResp.StatusCode, Body: respBody}
		}

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("read response body: %w", err)
		}

		resp = &Response{
			StatusCode: httpResp.StatusCode,
			Header:     httpResp.Header,
			Body:       respBody,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, ErrNoResponse
	}
	return resp, nil
}

// SetCookie stores a cookie on the shared jar for the given URL's domain.
func (c *Client) SetCookie(rawURL string, cookie *http.Cookie) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse cookie url: %w", err)
	}
	c.jar.SetCookies(u, []*http.Cookie{cookie})
	return nil
}

// isRetryableHTTPError marks throttling and 5xx responses as transient.
func isRetryableHTTPError(err error) bool {
	if !retry.IsRetryable(err) {
		return false
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode >= 500
	}
	return true
}

// parseRetryAfter extracts the Retry-After header value, either as seconds
// or as an HTTP date. Zero when absent or unparseable.
func parseRetryAfter(header http.Header) time.Duration {
	retryAfter := header.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(retryAfter); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(retryAfter); err == nil {
		return time.Until(t)
	}
	return 0
}

// Close releases idle connections. In-flight requests complete normally;
// CloseIdleConnections is the transport's drain primitive.
func (c *Client) Close() error {
	if c.base != nil {
		c.base.CloseIdleConnections()
	}
	return nil
}
