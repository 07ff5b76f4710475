// Package codevf is a client for the CodeVF human review/verification API.
// It covers the task lifecycle (create, retrieve) plus the expertise tag
// listing, and maps API failures onto sentinel errors so callers can
// distinguish retryable from non-retryable conditions.
package codevf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// maxResponseSize is the maximum response body size (10 MB).
// Protects against OOM from malformed or huge responses.
const maxResponseSize = 10 * 1024 * 1024

// Client talks to the CodeVF API. It is safe for concurrent use and holds
// no mutable state after construction.
type Client struct {
	config Config
	client *http.Client
}

// New creates a Client. The API key is taken from cfg, falling back to the
// CODEVF_API_KEY environment variable. Returns ErrMissingAPIKey when
// neither is set.
func New(cfg Config) (*Client, error) {
	cfg.defaults()

	if cfg.APIKey == "" {
		if envKey, ok := os.LookupEnv(EnvAPIKey); ok {
			cfg.APIKey = envKey
		}
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := cfg.validateTimeout(); err != nil {
		return nil, err
	}

	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.parsedTimeout()},
	}, nil
}

// BaseURL returns the resolved API endpoint.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// newRequest creates an authenticated HTTP request for the CodeVF API.
// payload may be nil for body-less methods.
func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("codevf: marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	url := c.config.BaseURL + path
	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("codevf: create request: %w", err)
	}

	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	return httpReq, nil
}

// do sends the request and returns the response body and status code.
// The body is limited to maxResponseSize bytes.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, int, error) {
	httpReq, err := c.newRequest(ctx, method, path, payload)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, 0, mapConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("codevf: read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// doJSON performs a request and unmarshals a 2xx response into out.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out any) error {
	body, statusCode, err := c.do(ctx, method, path, payload)
	if err != nil {
		return err
	}

	if httpErr := mapHTTPError(statusCode, body); httpErr != nil {
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("codevf: unmarshal response: %w", err)
	}
	return nil
}

// Ping checks API reachability via GET /health. It does not consume credits.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil)
}
