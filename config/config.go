// Package config manages application configuration for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Localization settings
	Language string `json:"language"`
	Region   string `json:"region"`

	// Search settings
	Pages      int `json:"pages"`
	MaxResults int `json:"max_results"`

	// HTTP settings
	Timeout           time.Duration `json:"timeout"`
	RequestsPerSecond float64       `json:"requests_per_second"`
	ProxyURL          string        `json:"proxy_url"`

	// Retry settings
	MaxRetries     int           `json:"max_retries"`
	InitialBackoff time.Duration `json:"initial_backoff"`
	MaxBackoff     time.Duration `json:"max_backoff"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		Language:          "en",
		Region:            "US",
		Pages:             1,
		MaxResults:        0,
		Timeout:           30 * time.Second,
		RequestsPerSecond: 2.5,
		MaxRetries:        3,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        15 * time.Second,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Config file is optional
	if err := cfg.loadFromFile(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytscrape.json in the current
// directory or the user's config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytscrape.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytscrape", "ytscrape.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTSCRAPE_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("YTSCRAPE_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("YTSCRAPE_PAGES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pages = n
		}
	}
	if v := os.Getenv("YTSCRAPE_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxResults = n
		}
	}
	if v := os.Getenv("YTSCRAPE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("YTSCRAPE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RequestsPerSecond = f
		}
	}
	if v := os.Getenv("YTSCRAPE_PROXY_URL"); v != "" {
		c.ProxyURL = v
	}
	if v := os.Getenv("YTSCRAPE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTSCRAPE_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTSCRAPE_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Pages < 1 {
		return fmt.Errorf("pages must be positive")
	}
	if c.MaxResults < 0 {
		return fmt.Errorf("max_results must be non-negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	return nil
}
