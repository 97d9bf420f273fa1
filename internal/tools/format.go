package tools

import (
	"encoding/json"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

// FormatResult renders a result envelope as the literal tool-output string
// the remote run expects: pretty-printed data on success, an error object on
// failure. This string is the only channel back to the model.
func FormatResult(result domain.FunctionResult) string {
	if result.Success && result.Data != nil {
		if data, err := json.MarshalIndent(result.Data, "", "  "); err == nil {
			return string(data)
		}
	}

	msg := result.Error
	if msg == "" {
		msg = "Function call failed"
	}
	out, _ := json.Marshal(map[string]interface{}{
		"error":   msg,
		"success": false,
	})
	return string(out)
}
