package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BaseClient wraps an http.Client with a base URL, default headers, and
// JSON helpers. Non-2xx responses come back as *APIError so callers can
// inspect the status code, headers, and body.
type BaseClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
}

func NewBaseClient(baseURL string) *BaseClient {
	return &BaseClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		headers: make(map[string]string),
	}
}

func (c *BaseClient) SetHeader(key, value string) {
	c.headers[key] = value
}

func (c *BaseClient) SetTimeout(timeout time.Duration) {
	c.client.Timeout = timeout
}

// MakeRequest performs an HTTP request against baseURL+endpoint. bearer may be
// empty for unauthenticated calls. The request is cancelled when ctx is.
func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint, bearer string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Header:     resp.Header.Clone(),
			Body:       responseBody,
		}
	}

	return responseBody, nil
}

// GetJSON performs a GET and unmarshals the response into out.
func (c *BaseClient) GetJSON(ctx context.Context, endpoint, bearer string, out any) error {
	body, err := c.MakeRequest(ctx, http.MethodGet, endpoint, bearer, nil)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// PostJSON performs a POST with an optional JSON payload and unmarshals the
// response into out. Either in or out may be nil.
func (c *BaseClient) PostJSON(ctx context.Context, endpoint, bearer string, in, out any) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	body, err := c.MakeRequest(ctx, http.MethodPost, endpoint, bearer, reader)
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// PutJSON performs a PUT with a JSON payload.
func (c *BaseClient) PutJSON(ctx context.Context, endpoint, bearer string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	body, err := c.MakeRequest(ctx, http.MethodPut, endpoint, bearer, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// Delete performs a DELETE and discards the response body.
func (c *BaseClient) Delete(ctx context.Context, endpoint, bearer string) error {
	_, err := c.MakeRequest(ctx, http.MethodDelete, endpoint, bearer, nil)
	return err
}

func decodeInto(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w, raw response: %s", err, string(body))
	}
	return nil
}
