// Package mailer provides the SendGrid client backing the send_email tool.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.sendgrid.com"

// Client sends mail through the SendGrid v3 API.
type Client struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
}

// NewClient creates a new mail client sending from the given address.
func NewClient(apiKey, sender string, timeout time.Duration) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		sender:  sender,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewClientWithBaseURL is like NewClient with an overridden endpoint, used in tests.
func NewClientWithBaseURL(baseURL, apiKey, sender string, timeout time.Duration) *Client {
	c := NewClient(apiKey, sender, timeout)
	c.baseURL = baseURL
	return c
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers a plain-text email and returns the provider message id.
func (c *Client) Send(ctx context.Context, to, subject, text string) (string, error) {
	body, err := json.Marshal(sendRequest{
		Personalizations: []personalization{{To: []address{{Email: to}}}},
		From:             address{Email: c.sender},
		Subject:          subject,
		Content:          []content{{Type: "text/plain", Value: text}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to send email: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	return resp.Header.Get("X-Message-Id"), nil
}
