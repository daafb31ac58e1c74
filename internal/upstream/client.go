package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"retail-nso/admin-portal/admin-portal-backend/internal/session"
)

// Client talks to the external outlet-management API. Every call carries the
// reviewer's bearer token from the explicit session argument, runs under a
// bounded context, and converts error bodies into *APIError so callers get a
// consistent message chain.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates an upstream API client
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		timeout: timeout,
		logger:  logger,
	}
}

// Get issues an authenticated GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, sess *session.Session, path string, out any) (int, error) {
	return c.do(ctx, sess, http.MethodGet, path, nil, out)
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, sess *session.Session, path string, body, out any) (int, error) {
	return c.do(ctx, sess, http.MethodPost, path, body, out)
}

// Patch issues an authenticated PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, sess *session.Session, path string, body, out any) (int, error) {
	return c.do(ctx, sess, http.MethodPatch, path, body, out)
}

func (c *Client) do(ctx context.Context, sess *session.Session, method, path string, body, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if sess.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Upstream request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, c.decodeError(resp, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) decodeError(resp *http.Response, method, path string) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil && len(data) > 0 {
		// Best effort; an unparseable body still keeps the status code.
		_ = json.Unmarshal(data, apiErr)
		if apiErr.StatusCode == 0 {
			apiErr.StatusCode = resp.StatusCode
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		apiErr.wrapped = ErrUnauthorized
	case http.StatusNotFound:
		apiErr.wrapped = ErrNotFound
	}

	c.logger.Warn("Upstream returned error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", Message(apiErr)))

	return apiErr
}
