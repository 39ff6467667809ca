// Package config defines the gateway configuration and how it is loaded.
//
// Values are layered: defaults from New, then an optional YAML file, then
// FLIGHTS_* environment variables. The result is read once at startup and
// treated as immutable.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Upstream defaults for the Skyscanner browse-quotes API on RapidAPI.
const (
	DefaultUpstreamHost = "skyscanner-skyscanner-flight-search-v1.p.rapidapi.com"
	DefaultCountry      = "US"
	DefaultCurrency     = "USD"
	DefaultLocale       = "en-US"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// UpstreamBaseURL is the scheme and host the quote API is reached at.
	UpstreamBaseURL string `koanf:"upstream_base_url"`

	// UpstreamHost is sent as the x-rapidapi-host header.
	UpstreamHost string `koanf:"upstream_host"`

	// APIKey is sent as the x-rapidapi-key header.
	APIKey string `koanf:"api_key"`

	// RequireAPIKey makes Load fail when APIKey is empty.
	RequireAPIKey bool `koanf:"require_api_key"`

	Country  string `koanf:"country"`
	Currency string `koanf:"currency"`
	Locale   string `koanf:"locale"`

	// UpstreamTimeoutMS bounds each upstream call. Zero keeps the HTTP
	// client default, which never times out.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// StrictErrorStatus answers upstream failures with 500 instead of 200.
	// The failure body is INTERNAL_SERVER_ERROR either way.
	StrictErrorStatus bool `koanf:"strict_error_status"`

	// TracingEndpoint is an OTLP/HTTP collector address (host:port).
	// Tracing is disabled when empty.
	TracingEndpoint string `koanf:"tracing_endpoint"`

	// ServiceName is reported to the tracing backend.
	ServiceName string `koanf:"service_name"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":8080",
		UpstreamBaseURL: "https://" + DefaultUpstreamHost,
		UpstreamHost:    DefaultUpstreamHost,
		Country:         DefaultCountry,
		Currency:        DefaultCurrency,
		Locale:          DefaultLocale,
		ServiceName:     "flightgate",
	}
}

// UpstreamTimeout returns the upstream call timeout as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	if c.UpstreamTimeoutMS <= 0 {
		return 0
	}
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// Validate checks the fields the gateway cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.UpstreamBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: upstream_base_url %q must be an absolute URL", ErrInvalidConfig, c.UpstreamBaseURL)
	}
	if strings.TrimSpace(c.UpstreamHost) == "" {
		return fmt.Errorf("%w: upstream_host must not be empty", ErrInvalidConfig)
	}
	if c.RequireAPIKey && c.APIKey == "" {
		return fmt.Errorf("%w: api_key is required", ErrInvalidConfig)
	}
	if c.UpstreamTimeoutMS < 0 {
		return fmt.Errorf("%w: upstream_timeout_ms must not be negative", ErrInvalidConfig)
	}
	return nil
}
