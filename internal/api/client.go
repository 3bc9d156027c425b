package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fangwater/inventory-watch/internal/request"
	"github.com/fangwater/inventory-watch/internal/sign"
)

// Client issues signed inventory queries. One client serves every configured
// host; the host is chosen per call.
type Client struct {
	apiKey     string
	signer     sign.Signer
	httpClient *http.Client
	logger     *slog.Logger

	recvWindow   int
	maxRetries   int
	retryBackoff time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new inventory API client.
func NewClient(apiKey string, signer sign.Signer, opts ...ClientOption) *Client {
	c := &Client{
		apiKey: apiKey,
		signer: signer,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger:       slog.Default(),
		recvWindow:   request.DefaultRecvWindow,
		maxRetries:   2,
		retryBackoff: 500 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRecvWindow sets the recvWindow parameter, in milliseconds.
func WithRecvWindow(ms int) ClientOption {
	return func(c *Client) {
		c.recvWindow = ms
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
