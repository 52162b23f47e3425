package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Record is one immutable entry in the compliance audit trail. Records are
// append-only: no code path updates or deletes them once written.
type Record struct {
	ID           uuid.UUID        `json:"id"`
	ActorID      string           `json:"actor_id"`
	Action       string           `json:"action"`
	ResourceType string           `json:"resource_type"`
	ResourceID   *uuid.UUID       `json:"resource_id,omitempty"`
	BeforeData   json.RawMessage  `json:"before_data,omitempty"`
	AfterData    json.RawMessage  `json:"after_data,omitempty"`
	FieldChanges *ChangeSet       `json:"field_changes,omitempty"`
	Details      map[string]any   `json:"details,omitempty"`
	IPAddress    string           `json:"ip_address,omitempty"`
	UserAgent    string           `json:"user_agent,omitempty"`
	RecordedAt   time.Time        `json:"recorded_at"`
}

// Entry is the input to Logger.Append. FieldChanges are never supplied by
// callers; they are derived from Before and After.
type Entry struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	Before       map[string]interface{}
	After        map[string]interface{}
	Details      map[string]any
	IPAddress    string
	UserAgent    string
}

// Common actions emitted by the prior-authorization domain.
const (
	ActionWorkflowInitialized = "WORKFLOW_INITIALIZED"
	ActionStepCompleted       = "STEP_COMPLETED"
	ActionStepSkipped         = "STEP_SKIPPED"
	ActionFormsGenerated      = "FORMS_GENERATED"
	ActionAuthorizationCreate = "AUTHORIZATION_CREATE"
	ActionAuthorizationUpdate = "AUTHORIZATION_UPDATE"
	ActionStatusChange        = "AUTHORIZATION_STATUS_CHANGE"
)
