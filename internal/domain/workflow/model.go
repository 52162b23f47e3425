package workflow

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Step statuses. pending -> in_progress -> completed is the normal path;
// skipped is reachable only through the administrative override.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusSkipped    = "skipped"
)

// FormPayload tags the open per-step form data with the step's category so
// downstream consumers (form-package generation, reporting) can switch on
// the category instead of probing for keys.
type FormPayload struct {
	Category string                 `json:"category"`
	Fields   map[string]interface{} `json:"fields"`
}

// NewFormPayload builds a payload for a step, tolerating a nil field map.
func NewFormPayload(category string, fields map[string]interface{}) *FormPayload {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	return &FormPayload{Category: category, Fields: fields}
}

// Scan implements sql.Scanner so the payload maps to a jsonb column.
func (p *FormPayload) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("cannot scan %T into FormPayload", src)
}

// Value implements driver.Valuer.
func (p FormPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// AuthorizationStep maps to the authorization_step table: one row per
// (authorization, step number), created in bulk at initialization and
// mutated only by step completion or an administrative skip.
type AuthorizationStep struct {
	ID              uuid.UUID    `db:"id" json:"id"`
	AuthorizationID uuid.UUID    `db:"authorization_id" json:"authorization_id"`
	StepNumber      int          `db:"step_number" json:"step_number"`
	StepName        string       `db:"step_name" json:"step_name"`
	Description     string       `db:"description" json:"description"`
	Status          string       `db:"status" json:"status"`
	AssignedTo      *string      `db:"assigned_to" json:"assigned_to,omitempty"`
	CompletedBy     *string      `db:"completed_by" json:"completed_by,omitempty"`
	CompletedAt     *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
	FormData        *FormPayload `db:"form_data" json:"form_data,omitempty"`
	Notes           *string      `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}
