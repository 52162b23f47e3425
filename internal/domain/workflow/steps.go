package workflow

import "fmt"

// TotalSteps is the fixed number of stages every authorization moves through.
const TotalSteps = 10

// StepDefinition is one entry in the static workflow catalog. FormFields
// names the fields the step's form is expected to capture; step form data
// is an open map, so the list is advisory for form rendering, not a schema.
type StepDefinition struct {
	Number      int      `json:"number"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	FormFields  []string `json:"form_fields"`
}

var stepCatalog = [TotalSteps]StepDefinition{
	{
		Number:      1,
		Name:        "clinical_decision",
		Description: "Document the clinical decision and medical necessity for the requested service.",
		FormFields:  []string{"treatment_type", "diagnosis_code", "clinical_rationale", "ordering_provider"},
	},
	{
		Number:      2,
		Name:        "insurance_verification",
		Description: "Verify the patient's coverage, plan benefits, and prior-authorization requirements.",
		FormFields:  []string{"member_id", "group_number", "plan_type", "coverage_verified", "pa_required"},
	},
	{
		Number:      3,
		Name:        "evidence_gathering",
		Description: "Collect supporting clinical evidence: notes, imaging, labs, and prior treatment history.",
		FormFields:  []string{"clinical_notes_ref", "imaging_refs", "lab_refs", "prior_treatments"},
	},
	{
		Number:      4,
		Name:        "documentation",
		Description: "Assemble and review the documentation packet required by the payer.",
		FormFields:  []string{"documents", "reviewed_by", "documentation_complete"},
	},
	{
		Number:      5,
		Name:        "form_selection",
		Description: "Select the payer- and state-specific authorization forms to file.",
		FormFields:  []string{"state", "form_type", "payer_form_id"},
	},
	{
		Number:      6,
		Name:        "submission",
		Description: "Submit the authorization request to the payer.",
		FormFields:  []string{"submission_method", "submitted_at", "confirmation_number"},
	},
	{
		Number:      7,
		Name:        "tracking",
		Description: "Track the pending request and record payer correspondence.",
		FormFields:  []string{"reference_number", "follow_up_date", "payer_contact"},
	},
	{
		Number:      8,
		Name:        "decision",
		Description: "Record the payer's determination and any conditions attached to it.",
		FormFields:  []string{"outcome", "decision_date", "denial_reason", "appeal_deadline"},
	},
	{
		Number:      9,
		Name:        "service_authorization",
		Description: "Record the authorization number, approved units, and validity period.",
		FormFields:  []string{"authorization_number", "approved_units", "valid_from", "valid_to"},
	},
	{
		Number:      10,
		Name:        "renewal",
		Description: "Plan renewal or re-authorization before the current approval lapses.",
		FormFields:  []string{"renewal_needed", "renewal_date", "notes"},
	},
}

// Definitions returns the ordered step catalog. The returned entries and
// their field lists are copies; callers cannot mutate the catalog.
func Definitions() []StepDefinition {
	defs := make([]StepDefinition, TotalSteps)
	for i, d := range stepCatalog {
		d.FormFields = append([]string(nil), d.FormFields...)
		defs[i] = d
	}
	return defs
}

// DefinitionFor returns the catalog entry for step n, or an error when n is
// outside 1..TotalSteps.
func DefinitionFor(n int) (StepDefinition, error) {
	if n < 1 || n > TotalSteps {
		return StepDefinition{}, fmt.Errorf("%w: %d (valid range 1..%d)", ErrInvalidStepNumber, n, TotalSteps)
	}
	d := stepCatalog[n-1]
	d.FormFields = append([]string(nil), d.FormFields...)
	return d, nil
}
