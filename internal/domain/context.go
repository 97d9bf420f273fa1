package domain

// PageContext is a snapshot of what the embedding host page is showing.
// A new snapshot replaces the previous one wholesale; there is no merging.
type PageContext struct {
	Route      string                 `json:"route"`
	Timestamp  int64                  `json:"timestamp,omitempty"`
	ChangeType string                 `json:"changeType,omitempty"`
	Modal      *ModalContext          `json:"modal,omitempty"`
	Edit       *EditContext           `json:"edit,omitempty"`
	Tab        *TabContext            `json:"tab,omitempty"`
	Form       *FormContext           `json:"form,omitempty"`
	Custom     map[string]interface{} `json:"custom,omitempty"`
}

// ModalContext describes an open modal dialog on the host page.
type ModalContext struct {
	Type       string                 `json:"type"`
	Title      string                 `json:"title,omitempty"`
	EntityType string                 `json:"entityType,omitempty"`
	EntityID   string                 `json:"entityId,omitempty"`
	EntityName string                 `json:"entityName,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// EditContext describes an active edit session on the host page.
type EditContext struct {
	IsEditing    bool                   `json:"isEditing"`
	EntityType   string                 `json:"entityType,omitempty"`
	EntityID     string                 `json:"entityId,omitempty"`
	EntityName   string                 `json:"entityName,omitempty"`
	Fields       []string               `json:"fields,omitempty"`
	OriginalData map[string]interface{} `json:"originalData,omitempty"`
}

// TabContext describes the active tab group on the host page.
type TabContext struct {
	ActiveTab     string   `json:"activeTab"`
	TabGroup      string   `json:"tabGroup,omitempty"`
	AvailableTabs []string `json:"availableTabs,omitempty"`
}

// FormContext describes an in-progress form on the host page.
type FormContext struct {
	FormName         string   `json:"formName"`
	CurrentStep      int      `json:"currentStep,omitempty"`
	TotalSteps       int      `json:"totalSteps,omitempty"`
	CompletedFields  []string `json:"completedFields,omitempty"`
	PendingFields    []string `json:"pendingFields,omitempty"`
	ValidationErrors []string `json:"validationErrors,omitempty"`
}

// ContextUpdateType is the envelope type the host page sends for snapshots.
const ContextUpdateType = "CONTEXT_UPDATE"

// ContextUpdateMessage is the cross-origin envelope pushed by the host page.
type ContextUpdateMessage struct {
	Type    string       `json:"type"`
	Context *PageContext `json:"context"`
}
