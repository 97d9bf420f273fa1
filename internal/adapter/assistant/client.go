// Package assistant provides the HTTP client for the hosted-conversation
// (threads/runs) API consumed by the orchestrator.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

// Client talks to the remote assistants API.
type Client struct {
	baseURL      string
	apiKey       string
	organization string
	httpClient   *http.Client
}

// NewClient creates a new assistants API client.
func NewClient(baseURL, apiKey, organization string, timeout time.Duration) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		apiKey:       apiKey,
		organization: organization,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Thread is a server-side dialogue handle.
type Thread struct {
	ID string `json:"id"`
}

// Run represents one assistant turn against a thread.
type Run struct {
	ID             string           `json:"id"`
	ThreadID       string           `json:"thread_id"`
	Status         domain.RunStatus `json:"status"`
	RequiredAction *RequiredAction  `json:"required_action,omitempty"`
	LastError      *RunError        `json:"last_error,omitempty"`
}

// RunError carries the failure detail of a terminal run.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RequiredAction holds the tool calls a paused run is waiting on.
type RequiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *SubmitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

// SubmitToolOutputs lists the pending tool calls of a paused run.
type SubmitToolOutputs struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// ToolCall is a remote-model-issued request to execute a local function.
type ToolCall struct {
	ID       string           `json:"id"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

// ToolCallFunction names the function and carries its JSON arguments.
type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolOutput is the result a tool call must receive before its run resumes.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// Tool is a function declaration included in run-creation requests.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction is the declared contract of a callable function.
type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// RunRequest is the body of a run-creation call.
type RunRequest struct {
	AssistantID            string `json:"assistant_id"`
	Tools                  []Tool `json:"tools,omitempty"`
	AdditionalInstructions string `json:"additional_instructions,omitempty"`
}

// ThreadMessage is one message as the remote service stores it.
type ThreadMessage struct {
	ID      string           `json:"id"`
	Role    string           `json:"role"`
	Content []MessageContent `json:"content"`
}

// MessageContent is one content block of a thread message.
type MessageContent struct {
	Type string       `json:"type"`
	Text *MessageText `json:"text,omitempty"`
}

// MessageText carries the text value of a content block.
type MessageText struct {
	Value string `json:"value"`
}

// MessageList is the response of the list-messages call, newest first.
type MessageList struct {
	Data []ThreadMessage `json:"data"`
}

// APIError is a non-2xx response from the assistants API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("assistant API error [%d]: %s", e.StatusCode, e.Message)
}

type errorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreateThread creates a new conversation thread.
func (c *Client) CreateThread(ctx context.Context) (*Thread, error) {
	var thread Thread
	if err := c.do(ctx, http.MethodPost, "/v1/threads", map[string]interface{}{}, &thread); err != nil {
		return nil, err
	}
	return &thread, nil
}

// CreateMessage appends a message to a thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, role, content string) error {
	body := map[string]string{"role": role, "content": content}
	return c.do(ctx, http.MethodPost, "/v1/threads/"+threadID+"/messages", body, nil)
}

// CreateRun starts a run against a thread.
func (c *Client) CreateRun(ctx context.Context, threadID string, req *RunRequest) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodPost, "/v1/threads/"+threadID+"/runs", req, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun retrieves the current status of a run.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (*Run, error) {
	var run Run
	if err := c.do(ctx, http.MethodGet, "/v1/threads/"+threadID+"/runs/"+runID, nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// SubmitToolOutputs resumes a paused run with the outputs of its tool calls.
func (c *Client) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []ToolOutput) error {
	body := map[string]interface{}{"tool_outputs": outputs}
	return c.do(ctx, http.MethodPost, "/v1/threads/"+threadID+"/runs/"+runID+"/submit_tool_outputs", body, nil)
}

// ListMessages retrieves the messages of a thread, newest first.
func (c *Client) ListMessages(ctx context.Context, threadID string) (*MessageList, error) {
	var list MessageList
	if err := c.do(ctx, http.MethodGet, "/v1/threads/"+threadID+"/messages", nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error.Message}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// setHeaders sets the fixed authentication header set.
func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if c.organization != "" {
		req.Header.Set("OpenAI-Organization", c.organization)
	}
}
