package upstream

import (
	"net/http"
	"time"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHost sets the value of the x-rapidapi-host header.
func WithHost(host string) Option {
	return func(c *Client) {
		if host != "" {
			c.host = host
		}
	}
}

// WithAPIKey sets the value of the x-rapidapi-key header. An empty key is
// sent as-is; the provider decides whether to reject it.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithMarket sets the country, currency and locale path segments.
// Empty values keep the defaults.
func WithMarket(country, currency, locale string) Option {
	return func(c *Client) {
		if country != "" {
			c.country = country
		}
		if currency != "" {
			c.currency = currency
		}
		if locale != "" {
			c.locale = locale
		}
	}
}

// WithTimeout bounds each call. Zero leaves the client without a timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}
