package domain

// ChatRequest is the inbound payload of POST /api/chat.
type ChatRequest struct {
	Message            string `json:"message"`
	ThreadID           string `json:"threadId,omitempty"`
	SourceURL          string `json:"sourceUrl,omitempty"`
	ContextDescription string `json:"contextDescription,omitempty"`
}

// ChatResponse is the success payload of POST /api/chat.
type ChatResponse struct {
	Reply    string `json:"reply"`
	ThreadID string `json:"threadId"`
	Status   string `json:"status"`
}

// ToolHandlerRequest drives the tool-execution side of an already-created run.
type ToolHandlerRequest struct {
	ThreadID string `json:"thread_id"`
	RunID    string `json:"run_id"`
}

// ToolHandlerResponse reports whether any tool outputs were submitted.
type ToolHandlerResponse struct {
	Status string      `json:"status"` // "no_action_needed" or "tools_executed"
	Result interface{} `json:"result,omitempty"`
}

// LoginRequest carries portal admin credentials for validation.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
