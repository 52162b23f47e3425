package authorization

import (
	"time"

	"github.com/google/uuid"
)

// Authorization statuses. The workflow engine drives the step-level state;
// this status tracks the request's overall disposition with the payer.
const (
	StatusDraft       = "draft"
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusDenied      = "denied"
	StatusExpired     = "expired"
)

// WorkflowCompleteStep is the current-step value after step 10 completes.
// No step row carries this number; it marks the workflow as finished.
const WorkflowCompleteStep = 11

// Authorization maps to the prior_authorization table. Patient and payer
// details live in external systems; only the identifiers needed to route
// the request are carried here.
type Authorization struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientRef    string     `db:"patient_ref" json:"patient_ref"`
	MemberID      string     `db:"member_id" json:"member_id"`
	PayerName     string     `db:"payer_name" json:"payer_name"`
	TreatmentType string     `db:"treatment_type" json:"treatment_type"`
	DiagnosisCode *string    `db:"diagnosis_code" json:"diagnosis_code,omitempty"`
	State         string     `db:"state" json:"state"`
	Status        string     `db:"status" json:"status"`
	CurrentStep   int        `db:"current_step" json:"current_step"`
	FormPackageID *uuid.UUID `db:"form_package_id" json:"form_package_id,omitempty"`
	CreatedBy     string     `db:"created_by" json:"created_by"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

var validStatuses = map[string]bool{
	StatusDraft:       true,
	StatusSubmitted:   true,
	StatusUnderReview: true,
	StatusApproved:    true,
	StatusDenied:      true,
	StatusExpired:     true,
}

// ValidStatus reports whether s is a recognized authorization status.
func ValidStatus(s string) bool { return validStatuses[s] }
