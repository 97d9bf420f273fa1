// Package portal provides the client for the portal content API that backs
// the get_page_context tool.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client fetches page-context documents from the portal content API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new portal content client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetPageContext fetches the page-context document for a route. Routes are
// normalized to a leading slash before the request is built.
func (c *Client) GetPageContext(ctx context.Context, route string) (map[string]interface{}, error) {
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}

	reqURL := c.baseURL + "/api/content/page-context?route=" + url.QueryEscape(route)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page context: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch page context: HTTP %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page context: %w", err)
	}
	return data, nil
}
