package innertube

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		marker string
		want   string
	}{
		{
			name:   "script assignment",
			body:   `<script>var ytInitialData = {"a":1};</script>`,
			marker: "ytInitialData",
			want:   `{"a":1}`,
		},
		{
			name:   "quoted key",
			body:   `{"INNERTUBE_CONTEXT":{"client":{"hl":"en"}},"other":1}`,
			marker: "INNERTUBE_CONTEXT",
			want:   `{"client":{"hl":"en"}}`,
		},
		{
			name:   "close brace inside string value",
			body:   `ytInitialData = {"title":"end};of story","n":{"x":2}};more`,
			marker: "ytInitialData",
			want:   `{"title":"end};of story","n":{"x":2}}`,
		},
		{
			name:   "escaped quote inside string value",
			body:   `ytInitialData = {"t":"she said \"}\" loudly"};`,
			marker: "ytInitialData",
			want:   `{"t":"she said \"}\" loudly"}`,
		},
		{
			name:   "nested objects",
			body:   `ytInitialPlayerResponse = {"a":{"b":{"c":3}},"d":4};var x = 1;`,
			marker: "ytInitialPlayerResponse",
			want:   `{"a":{"b":{"c":3}},"d":4}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject([]byte(tt.body), tt.marker)
			if err != nil {
				t.Fatalf("ExtractObject() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ExtractObject() = %s, want %s", got, tt.want)
			}
			if !json.Valid(got) {
				t.Errorf("ExtractObject() returned invalid JSON: %s", got)
			}
		})
	}
}

func TestExtractObject_MarkerMissing(t *testing.T) {
	_, err := ExtractObject([]byte(`<html>no data here</html>`), "ytInitialData")
	var extractErr *ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
	if extractErr.Marker != "ytInitialData" {
		t.Errorf("Marker = %q, want %q", extractErr.Marker, "ytInitialData")
	}
}

func TestExtractObject_UnbalancedBraces(t *testing.T) {
	_, err := ExtractObject([]byte(`ytInitialData = {"a":{"b":1}`), "ytInitialData")
	if err == nil {
		t.Fatal("expected error for unbalanced braces, got nil")
	}
}

func TestExtractAPIKey(t *testing.T) {
	body := []byte(`"INNERTUBE_API_KEY":"AIzaSy_example-KEY_123","INNERTUBE_API_VERSION":"v1"`)
	key, err := ExtractAPIKey(body)
	if err != nil {
		t.Fatalf("ExtractAPIKey() error = %v", err)
	}
	if key != "AIzaSy_example-KEY_123" {
		t.Errorf("ExtractAPIKey() = %q", key)
	}

	if _, err := ExtractAPIKey([]byte("nothing")); err == nil {
		t.Error("expected error for missing key")
	}
}

func TestExtractContinuation(t *testing.T) {
	body := []byte(`"continuationCommand":{"token":"EpMDEgVx","request":"CONTINUATION_REQUEST_TYPE_SEARCH"}`)
	got, err := ExtractContinuation(body)
	if err != nil {
		t.Fatalf("ExtractContinuation() error = %v", err)
	}
	if got != "EpMDEgVx" {
		t.Errorf("ExtractContinuation() = %q, want %q", got, "EpMDEgVx")
	}
}

func TestExtractContinuation_Missing(t *testing.T) {
	var extractErr *ExtractionError
	if _, err := ExtractContinuation([]byte("no token")); !errors.As(err, &extractErr) {
		t.Fatalf("expected *ExtractionError, got %v", err)
	}
}

func TestExtractPlayerJSURL(t *testing.T) {
	body := []byte(`"PLAYER_JS_URL":"x","jsUrl":"/s/player/abcd1234/player_ias.vflset/en_US/base.js","cssUrl":"y"`)
	got, err := ExtractPlayerJSURL(body)
	if err != nil {
		t.Fatalf("ExtractPlayerJSURL() error = %v", err)
	}
	if got != "/s/player/abcd1234/player_ias.vflset/en_US/base.js" {
		t.Errorf("ExtractPlayerJSURL() = %q", got)
	}
}

func TestExtractContext(t *testing.T) {
	body := []byte(`"INNERTUBE_CONTEXT":{"client":{"clientName":"WEB","clientVersion":"2.2026"}},"INNERTUBE_API_KEY":"k"`)
	raw, err := ExtractContext(body)
	if err != nil {
		t.Fatalf("ExtractContext() error = %v", err)
	}
	var ctx struct {
		Client struct {
			ClientName string `json:"clientName"`
		} `json:"client"`
	}
	if err := json.Unmarshal(raw, &ctx); err != nil {
		t.Fatalf("unmarshal context: %v", err)
	}
	if ctx.Client.ClientName != "WEB" {
		t.Errorf("clientName = %q, want WEB", ctx.Client.ClientName)
	}
}
