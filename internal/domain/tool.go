package domain

// FunctionResult is the uniform envelope every tool execution settles into.
// Handler failures are carried as data, never as a Go error, so a bad tool
// call can be reported back to the model without aborting the run.
type FunctionResult struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
