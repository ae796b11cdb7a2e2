package config

import (
	"testing"
	"time"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("YTSCRAPE_LANGUAGE", "de")
	t.Setenv("YTSCRAPE_REGION", "DE")
	t.Setenv("YTSCRAPE_PAGES", "3")
	t.Setenv("YTSCRAPE_MAX_RESULTS", "50")
	t.Setenv("YTSCRAPE_TIMEOUT", "10s")
	t.Setenv("YTSCRAPE_RPS", "1.5")
	t.Setenv("YTSCRAPE_MAX_RETRIES", "7")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.Language != "de" || cfg.Region != "DE" {
		t.Errorf("localization = %q/%q", cfg.Language, cfg.Region)
	}
	if cfg.Pages != 3 || cfg.MaxResults != 50 {
		t.Errorf("pages/max = %d/%d", cfg.Pages, cfg.MaxResults)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.RequestsPerSecond != 1.5 {
		t.Errorf("RequestsPerSecond = %v", cfg.RequestsPerSecond)
	}
	if cfg.MaxRetries != 7 {
		t.Errorf("MaxRetries = %d", cfg.MaxRetries)
	}
}

func TestLoadFromEnvIgnoresUnparseable(t *testing.T) {
	t.Setenv("YTSCRAPE_PAGES", "not-a-number")
	t.Setenv("YTSCRAPE_TIMEOUT", "soon")

	cfg := DefaultConfig()
	cfg.loadFromEnv()

	if cfg.Pages != 1 || cfg.Timeout != 30*time.Second {
		t.Errorf("unparseable values must keep defaults, got %d %v", cfg.Pages, cfg.Timeout)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pages", func(c *Config) { c.Pages = 0 }},
		{"negative max results", func(c *Config) { c.MaxResults = -1 }},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }},
		{"negative rps", func(c *Config) { c.RequestsPerSecond = -1 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"backoff inversion", func(c *Config) { c.MaxBackoff = c.InitialBackoff / 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
