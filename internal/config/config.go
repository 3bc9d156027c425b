// Package config loads and validates the watcher configuration. The config is
// built once at startup and treated as immutable afterwards; no component
// mutates it.
package config

import "time"

// WatcherConfig is the root configuration for a watcher instance.
type WatcherConfig struct {
	Instance  InstanceConfig `yaml:"instance"`
	API       APIConfig      `yaml:"api"`
	Endpoints []string       `yaml:"endpoints"`
	Query     QueryConfig    `yaml:"query"`
	Poller    PollerConfig   `yaml:"poller"`
}

// InstanceConfig identifies this watcher in logs.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Binance credentials and request settings.
type APIConfig struct {
	Key                  string        `yaml:"key"`                    // X-MBX-APIKEY header value
	SignatureAlgo        string        `yaml:"signature_algo"`         // ed25519, rsa, or hmac
	Secret               string        `yaml:"secret"`                 // shared secret (hmac only)
	PrivateKeyPath       string        `yaml:"private_key_path"`       // PEM file (ed25519/rsa)
	PrivateKeyPassphrase string        `yaml:"private_key_passphrase"` // optional
	Timeout              time.Duration `yaml:"timeout"`                // per-call timeout
	RecvWindow           int           `yaml:"recv_window"`            // server staleness tolerance, ms
	MaxRetries           int           `yaml:"max_retries"`
}

// QueryConfig selects what gets polled and reconciled.
type QueryConfig struct {
	Types  []string `yaml:"types"`  // margin-type variants, in query order
	Assets []string `yaml:"assets"` // tracked symbols for reconciliation
}

// PollerConfig holds sweep cadence settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
}
