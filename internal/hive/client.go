// Package hive is a thin typed client for TheHive 5 REST API.
//
// Every method issues one upstream call and returns either decoded JSON
// (plain maps and slices, no wrapper types) or an error. Non-2xx responses
// become *APIError; 429/5xx responses are retried with exponential backoff
// up to the configured budget before surfacing.
package hive

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds the connection settings for a Client. Built once from
// environment configuration at process start and never mutated afterwards.
type Config struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	VerifyTLS     bool
	RetryAttempts int           // additional attempts after the first call
	RetryBackoff  time.Duration // base backoff, doubled per attempt
	Logger        *zap.Logger
}

// Client performs authenticated calls against one TheHive instance.
// Safe for concurrent use.
type Client struct {
	baseURL       string
	apiKey        string
	http          *http.Client
	retryAttempts int
	retryBackoff  time.Duration
	logger        *zap.Logger
}

// NewClient creates a Client from the given config.
func NewClient(cfg Config) *Client {
	transport := http.DefaultTransport
	if !cfg.VerifyTLS {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		transport = t
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		http:          &http.Client{Timeout: timeout, Transport: transport},
		retryAttempts: cfg.RetryAttempts,
		retryBackoff:  cfg.RetryBackoff,
		logger:        logger,
	}
}

// do issues one API call, retrying transient failures, and decodes the
// response body into out when out is non-nil and the body is non-empty.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("hive: encode request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retryAttempts; attempt++ {
		if attempt > 0 {
			backoff := c.retryBackoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			c.logger.Debug("retrying upstream call",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt),
			)
		}

		err := c.doOnce(ctx, method, path, payload, out)
		if err == nil {
			return nil
		}
		lastErr = err

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		// network errors and retryable API errors fall through to retry
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("hive: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("hive: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("hive: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiErrorFromResponse(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("hive: decode response: %w", err)
	}
	return nil
}

// apiErrorFromResponse builds an APIError from an error response body.
// TheHive reports errors as {"type": "...", "message": "..."}.
func apiErrorFromResponse(status int, body []byte) *APIError {
	var parsed struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return &APIError{Status: status, Kind: parsed.Type, Message: parsed.Message}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body any) error {
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
