package api

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestAvailableInventory(t *testing.T) {
	t.Run("successful fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != InventoryPath {
				t.Errorf("path = %q, want %q", r.URL.Path, InventoryPath)
			}
			if r.Header.Get("X-MBX-APIKEY") != "test-key" {
				t.Errorf("X-MBX-APIKEY = %q, want %q", r.Header.Get("X-MBX-APIKEY"), "test-key")
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"updateTime": 1700000000000, "assets": {"BTC": "1.5"}}`))
		}))
		defer server.Close()

		c := NewClient("test-key", testSigner(t))
		result, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Host != server.URL {
			t.Errorf("Host = %q, want %q", result.Host, server.URL)
		}
		if result.MarginType != "MARGIN" {
			t.Errorf("MarginType = %q, want %q", result.MarginType, "MARGIN")
		}
		if result.UpdateTime == nil || *result.UpdateTime != 1700000000000 {
			t.Errorf("UpdateTime = %v, want 1700000000000", result.UpdateTime)
		}
		if result.Amount("BTC") != "1.5" {
			t.Errorf("BTC = %q, want %q", result.Amount("BTC"), "1.5")
		}
	})

	t.Run("query field order and signature", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.URL.RawQuery

			// Declaration order must survive transmission untouched.
			if !strings.HasPrefix(raw, "type=ISOLATED&timestamp=") {
				t.Errorf("query must start with type then timestamp, got %q", raw)
			}
			idx := strings.Index(raw, "&signature=")
			if idx < 0 || strings.Contains(raw[idx+1:], "&") {
				t.Errorf("signature must be the final field, got %q", raw)
			}

			// The signature verifies over the query minus the signature field.
			payload := raw[:idx]
			mac := hmac.New(sha256.New, []byte("test-secret"))
			mac.Write([]byte(payload))
			want := hex.EncodeToString(mac.Sum(nil))
			got := strings.TrimPrefix(raw[idx:], "&signature=")
			if got != want {
				t.Errorf("signature = %q, want %q over payload %q", got, want, payload)
			}

			if !strings.Contains(payload, "&recvWindow=5000") {
				t.Errorf("payload missing recvWindow, got %q", payload)
			}

			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient("test-key", testSigner(t))
		if _, err := c.AvailableInventory(context.Background(), server.URL, "ISOLATED"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("empty body tolerated", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t))
		result, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.UpdateTime != nil {
			t.Errorf("UpdateTime = %v, want nil", result.UpdateTime)
		}
	})

	t.Run("non-2xx returns fault", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"code":-1022,"msg":"Signature for this request is not valid."}`))
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t))
		_, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN")
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		var fault *Fault
		if !errors.As(err, &fault) {
			t.Fatalf("expected *Fault, got %T", err)
		}
		if fault.Host != server.URL || fault.MarginType != "MARGIN" {
			t.Errorf("fault = %+v, want host %q type MARGIN", fault, server.URL)
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected wrapped *APIError, got %v", err)
		}
		if apiErr.StatusCode != 400 {
			t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
		}
	})

	t.Run("unparsable body returns fault", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t))
		_, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		var fault *Fault
		if !errors.As(err, &fault) {
			t.Fatalf("expected *Fault, got %T", err)
		}
		if !strings.Contains(fault.Err.Error(), "unmarshal") {
			t.Errorf("fault cause should mention unmarshal, got %v", fault.Err)
		}
	})

	t.Run("timeout returns fault", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t), WithTimeout(50*time.Millisecond), WithRetries(0, time.Millisecond))
		_, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN")
		if err == nil {
			t.Fatal("expected timeout error, got nil")
		}
		var fault *Fault
		if !errors.As(err, &fault) {
			t.Fatalf("expected *Fault, got %T", err)
		}
	})
}

func TestFetchWithRetry(t *testing.T) {
	t.Run("retries on 5xx and succeeds", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&attempts, 1) < 3 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t), WithRetries(3, 5*time.Millisecond))
		if _, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("does not retry on 4xx", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t), WithRetries(3, 5*time.Millisecond))
		if _, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN"); err == nil {
			t.Fatal("expected error, got nil")
		}
		if attempts != 1 {
			t.Errorf("attempts = %d, want 1", attempts)
		}
	})

	t.Run("max retries exceeded", func(t *testing.T) {
		var attempts int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&attempts, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t), WithRetries(2, 5*time.Millisecond))
		_, err := c.AvailableInventory(context.Background(), server.URL, "MARGIN")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "max retries exceeded") {
			t.Errorf("error should contain 'max retries exceeded', got %v", err)
		}
		// 1 initial + 2 retries
		if attempts != 3 {
			t.Errorf("attempts = %d, want 3", attempts)
		}
	})

	t.Run("context cancellation during retry", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		c := NewClient("key", testSigner(t), WithRetries(5, 50*time.Millisecond))
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
		defer cancel()

		_, err := c.AvailableInventory(ctx, server.URL, "MARGIN")
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "context") {
			t.Errorf("error should be context-related, got %v", err)
		}
	})
}
