package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/mailer"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/portal"
)

const getPageContextDescription = `Get detailed information about a specific page in the GEA Portal.

Use this function when:
- User asks what they can do on the current page
- User needs help with a form or process on the page
- User asks how to complete a task
- User seems confused about where they are or what to do
- You need to provide step-by-step guidance for the current page
- User asks about features available on the page

The function returns:
- Page title and purpose
- Target audience (public, staff, admin)
- Step-by-step instructions (if applicable)
- Helpful tips and warnings
- Available features

Always use this function to provide accurate, page-specific guidance rather than generic responses.`

const sendEmailDescription = `Send a plain-text email on behalf of the user, for example to forward a conversation summary or escalate an issue to the support team. Requires an explicit recipient address, a subject, and the message body.`

// Builtin builds the registry with the portal and email tools wired in.
func Builtin(portalClient *portal.Client, mailClient *mailer.Client) *Registry {
	r := NewRegistry()

	r.MustRegister(Declaration{
		Name:        "get_page_context",
		Description: getPageContextDescription,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"route": {
					"type": "string",
					"description": "The page route/path from the GEA Portal, e.g., \"/feedback\", \"/admin/analytics\", \"/grievance\", \"/ticket-status\""
				}
			},
			"required": ["route"]
		}`),
	}, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		var params struct {
			Route string `json:"route"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if params.Route == "" {
			return nil, fmt.Errorf("Route parameter is required")
		}
		return portalClient.GetPageContext(ctx, params.Route)
	})

	r.MustRegister(Declaration{
		Name:        "send_email",
		Description: sendEmailDescription,
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"to": {"type": "string", "description": "Recipient email address"},
				"subject": {"type": "string", "description": "Email subject line"},
				"text": {"type": "string", "description": "Plain-text email body"}
			},
			"required": ["to", "subject", "text"]
		}`),
	}, func(ctx context.Context, args json.RawMessage) (interface{}, error) {
		var params struct {
			To      string `json:"to"`
			Subject string `json:"subject"`
			Text    string `json:"text"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		if params.To == "" || params.Subject == "" || params.Text == "" {
			return nil, fmt.Errorf("to, subject and text are required")
		}
		messageID, err := mailClient.Send(ctx, params.To, params.Subject, params.Text)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"status":    "sent",
			"messageId": messageID,
		}, nil
	})

	return r
}
