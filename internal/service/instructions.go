package service

import (
	"fmt"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/domain"
)

const contextInstructions = `## CURRENT USER CONTEXT

%s

---

Use this context to provide relevant, specific assistance.
If a modal is open, focus on that item.
If user is editing, help with the editable fields.
If on a specific tab, focus on that tab's content.
If in a form, guide through remaining steps.

You can also use the get_page_context function to get detailed page information if needed.`

const sourceInstructions = `The user is currently viewing this page: %s

If the user asks about the current page, what they can do, or needs help with a task, use the get_page_context function with this route to provide accurate, page-specific guidance.`

// buildInstructions picks the instruction mode for a run. A full context
// description wins over the source-URL fallback; at most one mode is active.
func (s *Service) buildInstructions(req domain.ChatRequest) string {
	description := req.ContextDescription
	if description == "" && s.channel != nil && s.channel.HasContext() {
		description = s.channel.Describe()
	}
	if description != "" {
		return fmt.Sprintf(contextInstructions, description)
	}
	if req.SourceURL != "" {
		return fmt.Sprintf(sourceInstructions, req.SourceURL)
	}
	return ""
}
