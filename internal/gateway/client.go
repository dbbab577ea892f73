// Package gateway is the single point of outbound communication with the
// RoadGuard backend. Every request carries the current access token as a
// bearer credential; a rejected-credential response triggers a process-wide
// session-ended broadcast instead of an in-band retry or refresh.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/roadguard/roadguard-go/internal/token"
	"go.uber.org/zap"
)

// Client issues authenticated JSON requests against the backend API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *token.Store
	logger  *zap.SugaredLogger

	mu           sync.Mutex
	sessionEnded []func()
}

// NewClient creates a gateway client. The token store is read on every
// request and never mutated here.
func NewClient(baseURL string, tokens *token.Store, timeout time.Duration, logger *zap.SugaredLogger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// OnSessionEnded registers a listener invoked when the backend rejects the
// current credential. The session context subscribes here to clear identity.
func (c *Client) OnSessionEnded(fn func()) {
	c.mu.Lock()
	c.sessionEnded = append(c.sessionEnded, fn)
	c.mu.Unlock()
}

// Get issues a GET request. Query parameters may be nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPatch, path, body, out)
}

// Upload issues a multipart POST with a single file field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if access := c.tokens.Access(); access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.logger.Warnw("credential rejected, broadcasting session end",
			"method", req.Method,
			"path", req.URL.Path,
		)
		c.broadcastSessionEnded()
		return &StatusError{Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return &StatusError{Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) broadcastSessionEnded() {
	c.mu.Lock()
	listeners := make([]func(), len(c.sessionEnded))
	copy(listeners, c.sessionEnded)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

// readErrorMessage extracts a human-readable message from an error body.
// The backend uses {"error": ...}; upstream FastAPI deployments use
// {"detail": ...}.
func readErrorMessage(r io.Reader) string {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Detail
}
