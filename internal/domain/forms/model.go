package forms

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DefaultFormType is the form type used when a caller does not specify one.
const DefaultFormType = "prior_auth"

// StateFormTemplate maps to the state_form_template table. One row per
// (state, form_type); the Fields list names the fields the rendered form
// expects, in display order.
type StateFormTemplate struct {
	ID        uuid.UUID `db:"id" json:"id"`
	State     string    `db:"state" json:"state"`
	FormType  string    `db:"form_type" json:"form_type"`
	Name      string    `db:"name" json:"name"`
	Payer     *string   `db:"payer" json:"payer,omitempty"`
	Version   int       `db:"version" json:"version"`
	Fields    []string  `db:"fields" json:"fields"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// FormPackage maps to the form_package table: the persisted result of
// aggregating an authorization's step form data against a state template.
type FormPackage struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	AuthorizationID uuid.UUID       `db:"authorization_id" json:"authorization_id"`
	State           string          `db:"state" json:"state"`
	TemplateID      uuid.UUID       `db:"template_id" json:"template_id"`
	Data            json.RawMessage `db:"data" json:"data"`
	GeneratedBy     string          `db:"generated_by" json:"generated_by"`
	GeneratedAt     time.Time       `db:"generated_at" json:"generated_at"`
}
