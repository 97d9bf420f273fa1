package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/assistant"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/tools"
	"github.com/abhirupbanerjee/gea-ai-assistant/policy"
)

// pendingToolCalls extracts the tool calls a paused run is waiting on.
func pendingToolCalls(run *assistant.Run) []assistant.ToolCall {
	if run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil {
		return nil
	}
	return run.RequiredAction.SubmitToolOutputs.ToolCalls
}

// executeToolCalls runs every pending call concurrently and collects the
// formatted outputs. Sibling calls have no ordering dependency; the batch is
// awaited jointly so all outputs can be submitted together.
func (s *Service) executeToolCalls(ctx context.Context, calls []assistant.ToolCall) []assistant.ToolOutput {
	outputs := make([]assistant.ToolOutput, len(calls))
	var wg sync.WaitGroup
	for i, call := range calls {
		wg.Add(1)
		go func(i int, call assistant.ToolCall) {
			defer wg.Done()
			result := s.executeToolCall(ctx, call)
			if !result.Success {
				log.Printf("WARN: tool %s failed: %s", call.Function.Name, result.Error)
			}
			outputs[i] = assistant.ToolOutput{
				ToolCallID: call.ID,
				Output:     tools.FormatResult(result),
			}
		}(i, call)
	}
	wg.Wait()
	return outputs
}

// executeToolCall gates one call through the policy engine and dispatches it
// to the registry. Every failure mode settles into a result envelope.
func (s *Service) executeToolCall(ctx context.Context, call assistant.ToolCall) domain.FunctionResult {
	name := call.Function.Name
	args := json.RawMessage(call.Function.Arguments)
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	log.Printf("Executing function: %s", name)

	if s.policyEngine != nil {
		var argsMap map[string]interface{}
		if err := json.Unmarshal(args, &argsMap); err != nil {
			argsMap = map[string]interface{}{}
		}
		decision, err := s.policyEngine.Evaluate(ctx, policy.Input{
			ToolName:     name,
			Args:         argsMap,
			BlockedTools: s.cfg.BlockedTools,
		})
		if err != nil {
			return domain.FunctionResult{Success: false, Error: "policy evaluation failed: " + err.Error()}
		}
		if decision == "block" {
			return domain.FunctionResult{Success: false, Error: "Tool blocked by policy: " + name}
		}
	}

	if s.cfg.ToolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ToolTimeout)
		defer cancel()
	}
	return s.registry.Execute(ctx, name, args)
}
