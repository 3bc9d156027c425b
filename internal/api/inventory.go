package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/fangwater/inventory-watch/internal/model"
	"github.com/fangwater/inventory-watch/internal/request"
)

// InventoryPath is the margin available-inventory endpoint path.
const InventoryPath = "/sapi/v1/margin/available-inventory"

// APIError represents a non-2xx response from the exchange.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// Fault is a failed call for one (host, margin type) pair. One fault never
// aborts the sweep over the remaining pairs; the poller logs it and moves on.
type Fault struct {
	Host       string
	MarginType string
	Err        error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fetch %s type=%s: %v", f.Host, f.MarginType, f.Err)
}

func (f *Fault) Unwrap() error { return f.Err }

// AvailableInventory performs one authenticated query against one host for one
// margin type. Every failure — transport error, non-2xx status, unparsable
// body — is returned as a *Fault; nothing escapes this boundary otherwise.
func (c *Client) AvailableInventory(ctx context.Context, host, marginType string) (*model.InventoryResult, error) {
	body, err := c.fetchWithRetry(ctx, host, marginType)
	if err != nil {
		return nil, &Fault{Host: host, MarginType: marginType, Err: err}
	}

	var result model.InventoryResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &Fault{Host: host, MarginType: marginType, Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	result.Host = host
	result.MarginType = marginType

	return &result, nil
}

// fetch performs a single signed GET. The query string is the canonical signed
// payload with the signature appended, transmitted verbatim; rebuilding it per
// attempt keeps the timestamp inside recvWindow.
func (c *Client) fetch(ctx context.Context, host, marginType string) ([]byte, error) {
	params, err := request.Build(c.signer, marginType, time.Now(), c.recvWindow)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, host+InventoryPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// fetchWithRetry retries retryable statuses with exponential backoff.
func (c *Client) fetchWithRetry(ctx context.Context, host, marginType string) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			c.logger.Debug("retrying request",
				"attempt", attempt,
				"backoff", jitter,
				"host", host,
				"type", marginType,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		body, err := c.fetch(ctx, host, marginType)
		if err == nil {
			return body, nil
		}

		lastErr = err

		apiErr, ok := err.(*APIError)
		if !ok || !apiErr.IsRetryable() {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
