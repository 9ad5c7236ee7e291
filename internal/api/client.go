// Package api is the HTTP client for the remote todo collection.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/model"
)

// CollectionPath is the REST collection endpoint relative to the base URL.
const CollectionPath = "/api/v1/todo"

// envelope is the response shape of every collection call.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

type statusRequest struct {
	ID     string `json:"id"`
	Status bool   `json:"status"`
}

type deleteRequest struct {
	ID string `json:"id"`
}

// Client talks to a todo collection over HTTP.
type Client struct {
	endpoint  string
	http      *http.Client
	userAgent string
	logger    zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.http
		hc.Timeout = d
		c.http = &hc
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the collection served under baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		endpoint:  strings.TrimRight(baseURL, "/") + CollectionPath,
		http:      &http.Client{Timeout: 10 * time.Second},
		userAgent: "tada",
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the absolute collection URL.
func (c *Client) Endpoint() string { return c.endpoint }

// List fetches the whole collection in server order.
func (c *Client) List(ctx context.Context) ([]model.Todo, error) {
	var items []model.Todo
	if err := c.do(ctx, "list", http.MethodGet, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create submits a draft and returns the stored record with its assigned id.
func (c *Client) Create(ctx context.Context, d model.Draft) (model.Todo, error) {
	var td model.Todo
	if err := c.do(ctx, "create", http.MethodPost, d, &td); err != nil {
		return model.Todo{}, err
	}
	return td, nil
}

// SetStatus sets the status of record id to status.
func (c *Client) SetStatus(ctx context.Context, id string, status bool) (model.Todo, error) {
	var td model.Todo
	if err := c.do(ctx, "update", http.MethodPut, statusRequest{ID: id, Status: status}, &td); err != nil {
		return model.Todo{}, err
	}
	return td, nil
}

// Delete removes record id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, deleteRequest{ID: id}, nil)
}

func (c *Client) do(ctx context.Context, op, method string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, rdr)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().
		Str("op", op).
		Str("method", method).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("todo api request")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return &RejectionError{Op: op, StatusCode: resp.StatusCode}
		}
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 || !env.Success {
		return &RejectionError{Op: op, StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return &NetworkError{Op: op, Err: errors.New("response has no data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &NetworkError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
