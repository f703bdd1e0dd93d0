package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Streamer opens an event stream for a user query. The returned body yields
// `data: <json>` frames and must be closed by the caller.
type Streamer interface {
	OpenStream(ctx context.Context, query string) (io.ReadCloser, error)
}

// APIClient talks to the assistant backend. Authentication is a bearer
// token obtained elsewhere; this client only attaches it.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient creates a client for the backend at baseURL. token may be
// empty for unauthenticated deployments.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		// No client-level timeout: streams are long-lived and bounded by
		// the request context instead
		httpClient: &http.Client{},
	}
}

type chatRequest struct {
	Query string `json:"query"`
}

// OpenStream starts a streaming chat turn and returns the response body
func (c *APIClient) OpenStream(ctx context.Context, query string) (io.ReadCloser, error) {
	url := c.baseURL + "/api/chat/stream"

	jsonData, err := json.Marshal(chatRequest{Query: query})
	if err != nil {
		return nil, &StreamError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, &StreamError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &StreamError{URL: url, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StreamError{
			URL:    url,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", strings.TrimSpace(string(body))),
		}
	}

	return resp.Body, nil
}

// Health verifies that the backend is reachable
func (c *APIClient) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	url := c.baseURL + "/api/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &StreamError{URL: url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &StreamError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StreamError{URL: url, Status: resp.StatusCode, Err: fmt.Errorf("health check failed")}
	}
	return nil
}
