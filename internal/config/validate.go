package config

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks that all required fields are set and values are valid.
// A failure here is fatal at startup, before any polling begins.
func (c *WatcherConfig) Validate() error {
	if c.API.Key == "" {
		return errors.New("api.key is required")
	}

	switch c.API.SignatureAlgo {
	case "hmac":
		if c.API.Secret == "" {
			return errors.New("api.secret is required for hmac signing")
		}
	case "ed25519", "rsa":
		if c.API.PrivateKeyPath == "" {
			return fmt.Errorf("api.private_key_path is required for %s signing", c.API.SignatureAlgo)
		}
	default:
		return fmt.Errorf("api.signature_algo must be ed25519, rsa or hmac, got %q", c.API.SignatureAlgo)
	}

	if c.API.RecvWindow < 1 {
		return errors.New("api.recv_window must be >= 1")
	}

	if len(c.Endpoints) == 0 {
		return errors.New("endpoints must list at least one host")
	}

	if n := len(c.Query.Types); n < 1 || n > 2 {
		return fmt.Errorf("query.types must have 1 or 2 entries, got %d", n)
	}
	if len(c.Query.Types) == 2 && len(c.Query.Assets) == 0 {
		return errors.New("query.assets is required when comparing two margin types")
	}

	if c.Poller.Interval < time.Second {
		return fmt.Errorf("poller.interval must be at least 1s, got %s", c.Poller.Interval)
	}
	if c.Poller.Concurrency < 1 {
		return errors.New("poller.concurrency must be >= 1")
	}

	return nil
}
