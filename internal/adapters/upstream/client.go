// Package upstream talks to the third-party flight quote provider.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/flightgate/internal/domain/quote"
)

// Header names expected by the RapidAPI gateway.
const (
	HeaderHost   = "x-rapidapi-host"
	HeaderAPIKey = "x-rapidapi-key"
)

// InboundParam is the query parameter carrying the inbound date.
const InboundParam = "inboundpartialdate"

const (
	browseQuotesPath   = "/apiservices/browsequotes/v1.0"
	defaultContentType = "application/json"
)

// Fetcher retrieves the raw quote document for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q quote.Query) (quote.Result, error)
}

// Client issues browse-quotes requests. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	baseURL    string
	host       string
	apiKey     string
	country    string
	currency   string
	locale     string
	httpClient *http.Client
}

// New creates a Client for the provider reachable at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		host:       u.Host,
		country:    "US",
		currency:   "USD",
		locale:     "en-US",
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// URL renders the outbound request URL for q. The inbound date is added as a
// query parameter only for round trips.
func (c *Client) URL(q quote.Query) string {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(browseQuotesPath)
	for _, seg := range []string{
		c.country,
		c.currency,
		c.locale,
		q.Origin + "-sky",
		q.Destination + "-sky",
		q.Outbound,
	} {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(seg))
	}
	if q.Kind() == quote.RoundTrip {
		b.WriteString("?" + InboundParam + "=")
		b.WriteString(url.QueryEscape(q.Inbound))
	}
	return b.String()
}

// Fetch performs exactly one GET for q and returns the body unmodified.
// Transport failures, unreadable bodies and non-2xx statuses all return an
// error wrapping ErrUpstreamCall. There are no retries.
func (c *Client) Fetch(ctx context.Context, q quote.Query) (quote.Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(q), http.NoBody)
	if err != nil {
		return quote.Result{}, fmt.Errorf("%w: create request: %w", ErrUpstreamCall, err)
	}
	req.Header.Set(HeaderHost, c.host)
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return quote.Result{}, fmt.Errorf("%w: send request: %w", ErrUpstreamCall, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return quote.Result{}, fmt.Errorf("%w: read body: %w", ErrUpstreamCall, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return quote.Result{}, &StatusError{Code: resp.StatusCode, Body: body}
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = defaultContentType
	}
	return quote.Result{Body: body, ContentType: ct}, nil
}
