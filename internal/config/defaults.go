package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultSignatureAlgo = "ed25519"
	DefaultAPITimeout    = 5 * time.Second
	DefaultRecvWindow    = 5000
	DefaultMaxRetries    = 2
	DefaultPollInterval  = 20 * time.Second
	DefaultConcurrency   = 4
)

// DefaultEndpoints are the redundant production API hosts, swept in this order.
var DefaultEndpoints = []string{
	"https://api.binance.com",
	"https://api-gcp.binance.com",
	"https://api1.binance.com",
	"https://api2.binance.com",
	"https://api3.binance.com",
	"https://api4.binance.com",
}

// DefaultTypes and DefaultAssets drive the two-variant comparison.
var (
	DefaultTypes  = []string{"MARGIN", "ISOLATED"}
	DefaultAssets = []string{"BTC", "ETH", "SOL"}
)

func (c *WatcherConfig) applyDefaults() {
	// API defaults
	if c.API.SignatureAlgo == "" {
		c.API.SignatureAlgo = DefaultSignatureAlgo
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.RecvWindow == 0 {
		c.API.RecvWindow = DefaultRecvWindow
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}

	if len(c.Endpoints) == 0 {
		c.Endpoints = append([]string(nil), DefaultEndpoints...)
	}

	// Query defaults
	if len(c.Query.Types) == 0 {
		c.Query.Types = append([]string(nil), DefaultTypes...)
	}
	if len(c.Query.Assets) == 0 {
		c.Query.Assets = append([]string(nil), DefaultAssets...)
	}

	// Poller defaults
	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}
	if c.Poller.Concurrency == 0 {
		c.Poller.Concurrency = DefaultConcurrency
	}
}
