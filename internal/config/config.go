// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and CHARCACHE_* env vars.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Default values.
const (
	DefaultSourceURL     = "https://rickandmortyapi.com/api/character"
	DefaultDBPath        = "rick_and_morty.db"
	DefaultPageDelayMS   = 200
	DefaultHTTPTimeoutMS = 10_000
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address used by -serve, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite file holding the cache. Relative paths resolve
	// against the working directory.
	DBPath string `koanf:"db_path"`

	// SourceURL is the paginated collection endpoint; ?page=N is appended.
	SourceURL string `koanf:"source_url"`

	// PageDelayMS is the pause after each committed page.
	PageDelayMS int `koanf:"page_delay_ms"`

	// HTTPTimeoutMS bounds a single page request.
	HTTPTimeoutMS int `koanf:"http_timeout_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		DBPath:        DefaultDBPath,
		SourceURL:     DefaultSourceURL,
		PageDelayMS:   DefaultPageDelayMS,
		HTTPTimeoutMS: DefaultHTTPTimeoutMS,
	}
}

// PageDelay returns PageDelayMS as a duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// HTTPTimeout returns HTTPTimeoutMS as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutMS) * time.Millisecond
}

// Validate checks the values Load cannot repair.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DBPath) == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.SourceURL) == "":
		return fmt.Errorf("%w: source_url must not be empty", ErrInvalidConfig)
	case c.PageDelayMS < 0:
		return fmt.Errorf("%w: page_delay_ms must not be negative", ErrInvalidConfig)
	case c.HTTPTimeoutMS <= 0:
		return fmt.Errorf("%w: http_timeout_ms must be positive", ErrInvalidConfig)
	}
	u, err := url.Parse(c.SourceURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: source_url must be an absolute http(s) URL", ErrInvalidConfig)
	}
	return nil
}
