// Package api is the typed HTTP client for the remote catalog backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"flicker/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Flicker/1.0"
)

// TokenSource supplies the current bearer token. An empty string means
// anonymous; that is not an error, some endpoints are anonymous-accessible.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed TokenSource, mainly for tests.
type StaticToken string

func (s StaticToken) Token() string { return string(s) }

// Client talks to the catalog backend. Every request attaches the current
// token as a bearer credential when one exists.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new backend API client.
func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// doRequest performs an authenticated HTTP request and maps failures onto
// the domain error taxonomy.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, payload any) ([]byte, error) {
	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("api request", "method", method, "url", reqURL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "error", err)
		return nil, domain.ErrNetwork
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, domain.ErrAuthFailed
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, errorMessage(respBody))
	case resp.StatusCode >= 500:
		c.logger.Error("api server error", "status", resp.StatusCode, "body", string(respBody))
		return nil, domain.ErrServer
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		c.logger.Error("api unexpected status", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return respBody, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, dest any) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(body, dest)
}

func (c *Client) post(ctx context.Context, path string, payload, dest any) error {
	body, err := c.doRequest(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return decode(body, dest)
}

func (c *Client) put(ctx context.Context, path string, payload, dest any) error {
	body, err := c.doRequest(ctx, http.MethodPut, path, nil, payload)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	return decode(body, dest)
}

func decode(body []byte, dest any) error {
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("%w: malformed response: %v", domain.ErrValidation, err)
	}
	return nil
}

// errorMessage extracts the backend's message field, falling back to the
// raw body.
func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return string(body)
}
