package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/safar/go-storefront-client/internal/config"
)

// Client talks to the storefront backend over REST. The session credential
// is a cookie held in the client's jar; a missing or rejected credential is
// reported as ErrUnauthenticated, which callers treat as "no user" rather
// than a hard error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

func NewClient(cfg *config.APIConfig) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Jar:       jar,
			Timeout:   cfg.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryBaseDelay,
	}, nil
}

// do performs one request and decodes the response into out when out is
// non-nil. Responses that do not match the expected shape are converted to
// RemoteError instead of propagating undefined-shaped data.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, header http.Header) error {
	op := method + " " + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		return ErrUnauthenticated
	}

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RemoteError{Op: op, Status: resp.StatusCode, Err: errors.New(strings.TrimSpace(string(msg)))}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out, nil)
}

// getWithRetry retries transient failures of an idempotent GET with
// exponential backoff and jitter. Mutating calls are never auto-retried;
// the backend has no dedup for them.
func (c *Client) getWithRetry(ctx context.Context, path string, out interface{}) error {
	var lastErr error
	backoff := c.retryDelay

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := c.get(ctx, path, out)
		if err == nil {
			return nil
		}

		if !IsRetryable(err) {
			return err
		}

		if attempt == c.maxRetries {
			return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, err)
		}

		lastErr = err

		jitter := time.Duration(rand.Int63n(int64(backoff/4) + 1))
		sleepDuration := backoff + jitter

		select {
		case <-time.After(sleepDuration):
		case <-ctx.Done():
			return ctx.Err()
		}

		backoff *= 2
	}

	return lastErr
}
