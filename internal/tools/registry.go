// Package tools declares the callable functions the remote model may invoke
// and executes its tool calls.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/assistant"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

// HandlerFunc executes one tool call. Returned errors are normalized into a
// failure result by the registry; handlers never abort a run.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Declaration is one static catalog entry: the contract the remote model
// sees and the executor honors. Immutable at runtime.
type Declaration struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Registry maps function names to declarations and handlers.
type Registry struct {
	mu           sync.RWMutex
	declarations []Declaration
	handlers     map[string]HandlerFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
	}
}

// Register adds a declaration with its handler.
func (r *Registry) Register(decl Declaration, handler HandlerFunc) error {
	if decl.Name == "" {
		return fmt.Errorf("tool name is required")
	}
	if handler == nil {
		return fmt.Errorf("handler is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[decl.Name]; exists {
		return fmt.Errorf("handler already registered for %s", decl.Name)
	}
	r.declarations = append(r.declarations, decl)
	r.handlers[decl.Name] = handler
	return nil
}

// MustRegister adds a declaration or panics. For wiring at startup.
func (r *Registry) MustRegister(decl Declaration, handler HandlerFunc) {
	if err := r.Register(decl, handler); err != nil {
		panic(err)
	}
}

// Declarations returns the catalog in the wire format run-creation expects.
func (r *Registry) Declarations() []assistant.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]assistant.Tool, 0, len(r.declarations))
	for _, decl := range r.declarations {
		out = append(out, assistant.Tool{
			Type: "function",
			Function: assistant.ToolFunction{
				Name:        decl.Name,
				Description: decl.Description,
				Parameters:  decl.Parameters,
			},
		})
	}
	return out
}

// Execute dispatches a tool call to its handler. An unknown name or a
// handler failure yields a failure result, never a Go error: callers treat
// both as normal, reportable outcomes.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) domain.FunctionResult {
	r.mu.RLock()
	handler := r.handlers[name]
	r.mu.RUnlock()

	if handler == nil {
		return domain.FunctionResult{
			Success: false,
			Error:   "Unknown function: " + name,
		}
	}

	data, err := handler(ctx, args)
	if err != nil {
		return domain.FunctionResult{Success: false, Error: err.Error()}
	}
	return domain.FunctionResult{Success: true, Data: data}
}
