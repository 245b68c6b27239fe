package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"vodforge/internal/services"
)

// Client talks to a running daemon over its HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the daemon bound at addr (host:port or URL).
func NewClient(addr string) *Client {
	addr = strings.TrimSpace(addr)
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit enqueues a transcode for a file reachable by the daemon.
func (c *Client) Submit(ctx context.Context, path, name string) (SubmitResponse, error) {
	var out SubmitResponse
	err := c.do(ctx, http.MethodPost, "/api/transcode", SubmitRequest{Path: path, Name: name}, &out)
	return out, err
}

// Progress fetches the tracker record for a task.
func (c *Client) Progress(ctx context.Context, taskID string) (ProgressResponse, error) {
	var out ProgressResponse
	err := c.do(ctx, http.MethodGet, "/api/progress/"+taskID, nil, &out)
	return out, err
}

// Tasks lists every tracked task.
func (c *Client) Tasks(ctx context.Context) (TasksResponse, error) {
	var out TasksResponse
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &out)
	return out, err
}

// Videos lists the catalog contents.
func (c *Client) Videos(ctx context.Context) (VideosResponse, error) {
	var out VideosResponse
	err := c.do(ctx, http.MethodGet, "/api/videos", nil, &out)
	return out, err
}

// Status fetches the daemon's runtime state.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	err := c.do(ctx, http.MethodGet, "/api/status", nil, &out)
	return out, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("daemon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", services.ErrNotFound, decodeError(resp.Body))
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, decodeError(resp.Body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(r io.Reader) string {
	var payload ErrorResponse
	if err := json.NewDecoder(r).Decode(&payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return "request failed"
}
