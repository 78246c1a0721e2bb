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

func (c *BaseClient) MakeRequest(ctx context.Context, method, endpoint string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned status code: %d, response: %s", resp.StatusCode, string(responseBody))
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return responseBody, nil
}

func (c *BaseClient) Get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.MakeRequest(ctx, "GET", endpoint, nil)
}

func (c *BaseClient) Post(ctx context.Context, endpoint string, body io.Reader) ([]byte, error) {
	return c.MakeRequest(ctx, "POST", endpoint, body)
}

// PostJSON marshals payload and posts it with a JSON content type.
func (c *BaseClient) PostJSON(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	c.SetHeader("Content-Type", "application/json")
	return c.MakeRequest(ctx, "POST", endpoint, bytes.NewReader(raw))
}

func (c *BaseClient) Put(ctx context.Context, endpoint string, body io.Reader) ([]byte, error) {
	return c.MakeRequest(ctx, "PUT", endpoint, body)
}

func (c *BaseClient) Delete(ctx context.Context, endpoint string) ([]byte, error) {
	return c.MakeRequest(ctx, "DELETE", endpoint, nil)
}
