// Package finscreener is a client for the Finscreener Developer API. It
// exchanges a long-lived API key for short-lived bearer tokens, enforces the
// client-side daily quota on detail endpoints, and routes named tool calls to
// the remote API, returning response bodies unmodified.
package finscreener

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	// DefaultURL is the default Finscreener Developer API base URL.
	DefaultURL = "https://api.finscreener.in"

	// apiRoot prefixes every developer API path.
	apiRoot = "/api"
)

// HTTPDoer implements the standard http.Client interface.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a Finscreener Developer API client.
type Client struct {
	url        string
	apiKey     string
	httpClient HTTPDoer
	logger     *zap.Logger
	now        func() time.Time
	registerer prometheus.Registerer

	registry map[string]*EndpointDescriptor
	creds    *tokenSource
	quota    *quota
	metrics  *clientMetrics
}

// URL returns the API base URL.
func (c *Client) URL() string {
	return c.url
}

// Option is a functional configuration option
type Option func(c *Client)

// WithURL sets the Finscreener API base URL
func WithURL(u string) Option {
	return func(c *Client) {
		c.url = u
	}
}

// WithAPIKey sets the developer API key used for the token exchange
func WithAPIKey(k string) Option {
	return func(c *Client) {
		c.apiKey = k
	}
}

// WithLogger sets logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithHTTPClient overrides the default http client
func WithHTTPClient(h HTTPDoer) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithClock overrides the time source used for token expiry and quota
// windows, primarily for tests
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithMetricsRegisterer sets the prometheus registerer for client metrics
func WithMetricsRegisterer(r prometheus.Registerer) Option {
	return func(c *Client) {
		c.registerer = r
	}
}

// NewClient returns a new Finscreener client. The endpoint registry is
// validated here so a malformed descriptor table fails at startup rather
// than on first call.
func NewClient(opts ...Option) (*Client, error) {
	client := Client{
		url:        DefaultURL,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(&client)
	}

	if client.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client.url = strings.TrimSuffix(client.url, "/")

	registry, err := newRegistry()
	if err != nil {
		return nil, err
	}

	client.registry = registry
	client.quota = newQuota(client.now)
	client.metrics = newClientMetrics(client.registerer)
	client.creds = newTokenSource(
		client.apiKey,
		client.url,
		client.httpClient,
		client.logger,
		client.now,
		client.metrics,
	)

	return &client, nil
}
