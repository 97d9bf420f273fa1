package contextchannel

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Describe renders the held snapshot into the structured natural-language
// block used as run instructions. Returns a fixed line when no snapshot is
// held.
func (c *Channel) Describe() string {
	ctx := c.Current()
	if ctx == nil {
		return "User context not available."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Current page: %s", ctx.Route)

	if modal := ctx.Modal; modal != nil {
		fmt.Fprintf(&b, "\nModal open: %s", modal.Type)
		if modal.Title != "" {
			fmt.Fprintf(&b, " - %q", modal.Title)
		}
		if modal.EntityType != "" && modal.EntityID != "" {
			name := modal.EntityName
			if name == "" {
				name = modal.EntityID
			}
			fmt.Fprintf(&b, "\nViewing %s: %s", modal.EntityType, name)
		}
		if len(modal.Data) > 0 {
			b.WriteString("\nModal data:")
			writeKeyValues(&b, modal.Data)
		}
	}

	if edit := ctx.Edit; edit != nil && edit.IsEditing {
		fmt.Fprintf(&b, "\nEdit mode active: Editing %s", edit.EntityType)
		if edit.EntityName != "" {
			fmt.Fprintf(&b, " %q", edit.EntityName)
		} else {
			fmt.Fprintf(&b, " (ID: %s)", edit.EntityID)
		}
		if len(edit.Fields) > 0 {
			fmt.Fprintf(&b, "\nEditable fields: %s", strings.Join(edit.Fields, ", "))
		}
		if len(edit.OriginalData) > 0 {
			b.WriteString("\nOriginal values:")
			writeKeyValues(&b, edit.OriginalData)
		}
	}

	if tab := ctx.Tab; tab != nil {
		fmt.Fprintf(&b, "\nActive tab: %q in %s", tab.ActiveTab, tab.TabGroup)
		if len(tab.AvailableTabs) > 0 {
			fmt.Fprintf(&b, "\nAvailable tabs: %s", strings.Join(tab.AvailableTabs, ", "))
		}
	}

	if form := ctx.Form; form != nil {
		fmt.Fprintf(&b, "\nForm: %s", form.FormName)
		if form.CurrentStep > 0 && form.TotalSteps > 0 {
			fmt.Fprintf(&b, " (Step %d of %d)", form.CurrentStep, form.TotalSteps)
		}
		if len(form.CompletedFields) > 0 {
			fmt.Fprintf(&b, "\nCompleted: %s", strings.Join(form.CompletedFields, ", "))
		}
		if len(form.PendingFields) > 0 {
			fmt.Fprintf(&b, "\nPending: %s", strings.Join(form.PendingFields, ", "))
		}
		if len(form.ValidationErrors) > 0 {
			fmt.Fprintf(&b, "\nErrors: %s", strings.Join(form.ValidationErrors, "; "))
		}
	}

	if len(ctx.Custom) > 0 {
		b.WriteString("\nAdditional context:")
		for key, value := range ctx.Custom {
			if value == nil {
				continue
			}
			encoded, _ := json.Marshal(value)
			fmt.Fprintf(&b, "\n  - %s: %s", key, encoded)
		}
	}

	return b.String()
}

// Summary returns a short one-line summary for UI display.
func (c *Channel) Summary() string {
	ctx := c.Current()
	if ctx == nil {
		return "Not connected"
	}

	if ctx.Modal != nil {
		if ctx.Modal.Title != "" {
			return ctx.Modal.Title
		}
		return ctx.Modal.Type
	}
	if ctx.Edit != nil && ctx.Edit.IsEditing {
		if ctx.Edit.EntityName != "" {
			return "Editing " + ctx.Edit.EntityName
		}
		return "Editing " + ctx.Edit.EntityType
	}
	if ctx.Form != nil {
		if ctx.Form.CurrentStep > 0 && ctx.Form.TotalSteps > 0 {
			return fmt.Sprintf("%s (%d/%d)", ctx.Form.FormName, ctx.Form.CurrentStep, ctx.Form.TotalSteps)
		}
		return ctx.Form.FormName
	}
	if ctx.Tab != nil {
		return ctx.Tab.ActiveTab
	}
	return ctx.Route
}

func writeKeyValues(b *strings.Builder, data map[string]interface{}) {
	for key, value := range data {
		if value == nil {
			continue
		}
		fmt.Fprintf(b, "\n  - %s: %v", key, value)
	}
}
