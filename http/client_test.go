package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"ytscrape/internal/retry"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 0 // no throttling in tests
	cfg.Retry = retry.Config{MaxRetries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond, Multiplier: 2.0}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	resp, err := testClient(t).Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(resp.Body) != "hello" {
		t.Errorf("body = %q, want %q", resp.Body, "hello")
	}
}

func TestClient_PostBodyAndHeaders(t *testing.T) {
	var gotBody string
	var gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	_, err := testClient(t).Post(context.Background(), srv.URL, []byte(`{"q":1}`), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if gotBody != `{"q":1}` {
		t.Errorf("server saw body %q", gotBody)
	}
	if gotType != "application/json" {
		t.Errorf("server saw content-type %q", gotType)
	}
}

func TestClient_HTTPErrorNotRetriedOn4xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(t).Get(context.Background(), srv.URL, nil)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Get() error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", httpErr.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server called %d times, want 1 (4xx is permanent)", got)
	}
}

func TestClient_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "flaky", http.StatusBadGateway)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := testClient(t).Get(context.Background(), srv.URL, nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("body = %q, want %q", resp.Body, "ok")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server called %d times, want 3", got)
	}
}

func TestClient_RateLimitError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 0
	cfg.Retry = retry.Config{MaxRetries: 0}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	_, err = c.Get(context.Background(), srv.URL, nil)
	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("Get() error = %v, want *RateLimitError", err)
	}
	if rateErr.RetryAfter != 7*time.Second {
		t.Errorf("RetryAfter = %v, want 7s", rateErr.RetryAfter)
	}
}

func TestClient_SetCookie(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("PREF"); err == nil {
			got = c.Value
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := testClient(t)
	if err := c.SetCookie(srv.URL, &http.Cookie{Name: "PREF", Value: "hl=en&gl=US"}); err != nil {
		t.Fatalf("SetCookie() error = %v", err)
	}
	if _, err := c.Get(context.Background(), srv.URL, nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "hl=en&gl=US" {
		t.Errorf("server saw PREF cookie %q, want %q", got, "hl=en&gl=US")
	}
}
