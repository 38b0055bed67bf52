// Package api is the typed HTTP client for the sygpress backend. All
// business logic lives server-side; this package only shapes requests,
// attaches the bearer token and classifies failures.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the current bearer token, or "" when logged out.
// The session store satisfies this.
type TokenSource interface {
	Token() string
}

// Client is the backend API client. One instance is shared by the whole
// console; each user action issues a single request chain through it with
// no retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource

	// onAuthFailure runs when an authenticated call comes back 401:
	// the stored token is no longer valid and the session must go.
	onAuthFailure func()
}

// Config holds client construction parameters.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenSource
	HTTPClient *http.Client
}

// New creates a backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: httpClient,
		tokens:     cfg.Tokens,
	}, nil
}

// OnAuthFailure registers the hook invoked when the backend rejects the
// session token. Wired to the session store's Invalidate.
func (c *Client) OnAuthFailure(fn func()) {
	c.onAuthFailure = fn
}

// Page is the backend's list envelope.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
}

// PageQuery carries common list parameters.
type PageQuery struct {
	Page   int
	Size   int
	Search string
}

// Values renders the query as URL parameters.
func (q PageQuery) Values() url.Values {
	v := url.Values{}
	v.Set("page", fmt.Sprintf("%d", q.Page))
	size := q.Size
	if size <= 0 {
		size = 10
	}
	v.Set("size", fmt.Sprintf("%d", size))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

type requestOptions struct {
	// loginCall marks the one endpoint where a 401 means bad
	// credentials, not a dead session.
	loginCall bool
}

// do issues a single request and returns the raw response body for 2xx, or
// a classified apierr value otherwise. Failures are terminal: no retry, no
// recovery.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, opts requestOptions) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return data, nil
	}
	return nil, c.classifyStatus(resp.StatusCode, data, opts)
}

// getJSON issues a GET and decodes the JSON body into T.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	data, err := c.do(ctx, http.MethodGet, path, query, nil, requestOptions{})
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// sendJSON issues method with a JSON body and decodes the response into T.
func sendJSON[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var out T
	data, err := c.do(ctx, method, path, nil, body, requestOptions{})
	if err != nil {
		return out, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			return out, fmt.Errorf("decode response: %w", err)
		}
	}
	return out, nil
}

// send issues method with an optional JSON body and discards any response.
func (c *Client) send(ctx context.Context, method, path string, body any) error {
	_, err := c.do(ctx, method, path, nil, body, requestOptions{})
	return err
}
