package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/priorauth/priorauth/internal/domain/forms"
	"github.com/priorauth/priorauth/internal/platform/audit"
	"github.com/priorauth/priorauth/internal/platform/db"
)

// AuthorizationStore is the narrow slice of the authorization repository the
// engine touches: the current-step pointer and the form-package reference,
// nothing else.
type AuthorizationStore interface {
	CurrentStepNumber(ctx context.Context, id uuid.UUID) (int, error)
	SetCurrentStepNumber(ctx context.Context, id uuid.UUID, n int) error
	SetFormPackage(ctx context.Context, id uuid.UUID, packageID uuid.UUID) error
}

// TemplateStore resolves the state-keyed form template used by
// GenerateFormPackage.
type TemplateStore interface {
	GetByStateAndType(ctx context.Context, state, formType string) (*forms.StateFormTemplate, error)
}

// PackageStore persists generated form packages.
type PackageStore interface {
	Create(ctx context.Context, p *forms.FormPackage) error
}

// Engine drives an authorization through the ten fixed workflow stages.
//
// All mutations on one authorization are serialized by a per-authorization
// lock and applied inside a single transaction; the matching audit record is
// appended synchronously inside the critical section, after the transaction
// commits, so the before/after snapshots always describe the transition that
// was actually applied. Reads take no lock.
type Engine struct {
	steps     StepRepository
	auths     AuthorizationStore
	templates TemplateStore
	packages  PackageStore
	auditor   *audit.Logger
	tx        db.TxRunner
	locks     *keyedMutex
	nowFn     func() time.Time
}

func NewEngine(steps StepRepository, auths AuthorizationStore, templates TemplateStore,
	packages PackageStore, auditor *audit.Logger, tx db.TxRunner) *Engine {
	return &Engine{
		steps:     steps,
		auths:     auths,
		templates: templates,
		packages:  packages,
		auditor:   auditor,
		tx:        tx,
		locks:     newKeyedMutex(),
		nowFn:     func() time.Time { return time.Now().UTC() },
	}
}

// SetNowFunc overrides the clock, for tests.
func (e *Engine) SetNowFunc(fn func() time.Time) { e.nowFn = fn }

// InitializeWorkflow seeds the ten step rows for an authorization. Step 1
// starts in progress, assigned to the caller; steps 2..10 start pending and
// unassigned. Calling twice fails with ErrAlreadyInitialized and changes
// nothing.
func (e *Engine) InitializeWorkflow(ctx context.Context, authorizationID uuid.UUID, actorID string) error {
	e.locks.Lock(authorizationID)
	defer e.locks.Unlock(authorizationID)

	err := e.tx.InTx(ctx, func(ctx context.Context) error {
		if _, err := e.auths.CurrentStepNumber(ctx, authorizationID); err != nil {
			return err
		}
		count, err := e.steps.CountByAuthorization(ctx, authorizationID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: authorization %s", ErrAlreadyInitialized, authorizationID)
		}

		steps := make([]*AuthorizationStep, 0, TotalSteps)
		for _, def := range Definitions() {
			s := &AuthorizationStep{
				ID:              uuid.New(),
				AuthorizationID: authorizationID,
				StepNumber:      def.Number,
				StepName:        def.Name,
				Description:     def.Description,
				Status:          StatusPending,
			}
			if def.Number == 1 {
				s.Status = StatusInProgress
				assignee := actorID
				s.AssignedTo = &assignee
			}
			steps = append(steps, s)
		}
		if err := e.steps.CreateBatch(ctx, steps); err != nil {
			return err
		}
		return e.auths.SetCurrentStepNumber(ctx, authorizationID, 1)
	})
	if err != nil {
		return err
	}

	e.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionWorkflowInitialized,
		ResourceType: "prior_authorization",
		ResourceID:   &authorizationID,
		After:        map[string]interface{}{"step_count": TotalSteps},
	})
	return nil
}

// CompleteStep marks the currently active step completed, records the
// step's form data, activates the next step, and advances the parent
// authorization's current-step pointer. Completing step 10 moves the
// pointer to 11 and activates nothing.
func (e *Engine) CompleteStep(ctx context.Context, authorizationID uuid.UUID, stepNumber int,
	formData map[string]interface{}, actorID string, notes *string) error {

	def, err := DefinitionFor(stepNumber)
	if err != nil {
		return err
	}

	e.locks.Lock(authorizationID)
	defer e.locks.Unlock(authorizationID)

	var before, after map[string]interface{}
	err = e.tx.InTx(ctx, func(ctx context.Context) error {
		current, err := e.auths.CurrentStepNumber(ctx, authorizationID)
		if err != nil {
			return err
		}
		step, err := e.steps.GetByNumber(ctx, authorizationID, stepNumber)
		if err != nil {
			return err
		}
		if stepNumber != current {
			return fmt.Errorf("%w: step %d requested, step %d active", ErrOutOfSequence, stepNumber, current)
		}
		if step.Status == StatusCompleted {
			return fmt.Errorf("%w: step %d of authorization %s", ErrAlreadyCompleted, stepNumber, authorizationID)
		}

		before = audit.Snapshot(step)
		now := e.nowFn()
		step.Status = StatusCompleted
		step.CompletedBy = &actorID
		step.CompletedAt = &now
		step.FormData = NewFormPayload(def.Name, formData)
		if notes != nil {
			step.Notes = notes
		}
		if err := e.steps.Update(ctx, step); err != nil {
			return err
		}
		after = audit.Snapshot(step)

		if stepNumber < TotalSteps {
			next, err := e.steps.GetByNumber(ctx, authorizationID, stepNumber+1)
			if err != nil {
				return err
			}
			next.Status = StatusInProgress
			assignee := actorID
			next.AssignedTo = &assignee
			if err := e.steps.Update(ctx, next); err != nil {
				return err
			}
			return e.auths.SetCurrentStepNumber(ctx, authorizationID, stepNumber+1)
		}
		return e.auths.SetCurrentStepNumber(ctx, authorizationID, TotalSteps+1)
	})
	if err != nil {
		return err
	}

	e.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionStepCompleted,
		ResourceType: "prior_authorization",
		ResourceID:   &authorizationID,
		Before:       before,
		After:        after,
		Details:      map[string]any{"step_number": stepNumber, "step_name": def.Name},
	})
	return nil
}

// SkipStep is the administrative override: it marks the currently active
// step skipped with a reason and advances the workflow exactly as a
// completion would. Only the active step may be skipped.
func (e *Engine) SkipStep(ctx context.Context, authorizationID uuid.UUID, stepNumber int,
	actorID, reason string) error {

	def, err := DefinitionFor(stepNumber)
	if err != nil {
		return err
	}
	if reason == "" {
		return fmt.Errorf("a reason is required to skip a step")
	}

	e.locks.Lock(authorizationID)
	defer e.locks.Unlock(authorizationID)

	var before, after map[string]interface{}
	err = e.tx.InTx(ctx, func(ctx context.Context) error {
		current, err := e.auths.CurrentStepNumber(ctx, authorizationID)
		if err != nil {
			return err
		}
		step, err := e.steps.GetByNumber(ctx, authorizationID, stepNumber)
		if err != nil {
			return err
		}
		if stepNumber != current {
			return fmt.Errorf("%w: step %d requested, step %d active", ErrOutOfSequence, stepNumber, current)
		}
		if step.Status == StatusCompleted {
			return fmt.Errorf("%w: step %d of authorization %s", ErrAlreadyCompleted, stepNumber, authorizationID)
		}

		before = audit.Snapshot(step)
		step.Status = StatusSkipped
		step.Notes = &reason
		if err := e.steps.Update(ctx, step); err != nil {
			return err
		}
		after = audit.Snapshot(step)

		if stepNumber < TotalSteps {
			next, err := e.steps.GetByNumber(ctx, authorizationID, stepNumber+1)
			if err != nil {
				return err
			}
			next.Status = StatusInProgress
			assignee := actorID
			next.AssignedTo = &assignee
			if err := e.steps.Update(ctx, next); err != nil {
				return err
			}
			return e.auths.SetCurrentStepNumber(ctx, authorizationID, stepNumber+1)
		}
		return e.auths.SetCurrentStepNumber(ctx, authorizationID, TotalSteps+1)
	})
	if err != nil {
		return err
	}

	e.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionStepSkipped,
		ResourceType: "prior_authorization",
		ResourceID:   &authorizationID,
		Before:       before,
		After:        after,
		Details:      map[string]any{"step_number": stepNumber, "step_name": def.Name, "reason": reason},
	})
	return nil
}

// GetCurrentStep returns the step the authorization's pointer names.
// ErrNotInitialized is returned before InitializeWorkflow has run;
// ErrStepNotFound once the workflow has finished (pointer past 10).
func (e *Engine) GetCurrentStep(ctx context.Context, authorizationID uuid.UUID) (*AuthorizationStep, error) {
	current, err := e.auths.CurrentStepNumber(ctx, authorizationID)
	if err != nil {
		return nil, err
	}
	if current == 0 {
		return nil, fmt.Errorf("%w: authorization %s", ErrNotInitialized, authorizationID)
	}
	if current > TotalSteps {
		return nil, fmt.Errorf("%w: workflow for authorization %s is complete", ErrStepNotFound, authorizationID)
	}
	return e.steps.GetByNumber(ctx, authorizationID, current)
}

// GetWorkflowSteps returns all step rows ordered by step number.
func (e *Engine) GetWorkflowSteps(ctx context.Context, authorizationID uuid.UUID) ([]*AuthorizationStep, error) {
	return e.steps.ListByAuthorization(ctx, authorizationID)
}

// GenerateFormPackage merges the form data captured across all steps, in
// ascending step order with later steps winning key collisions, against the
// template registered for the state, and persists the result as the
// authorization's form package.
func (e *Engine) GenerateFormPackage(ctx context.Context, authorizationID uuid.UUID,
	state, actorID string) (*forms.FormPackage, error) {

	if !forms.ValidStateCode(state) {
		return nil, fmt.Errorf("invalid state code: %q", state)
	}

	e.locks.Lock(authorizationID)
	defer e.locks.Unlock(authorizationID)

	var pkg *forms.FormPackage
	err := e.tx.InTx(ctx, func(ctx context.Context) error {
		steps, err := e.steps.ListByAuthorization(ctx, authorizationID)
		if err != nil {
			return err
		}
		if len(steps) == 0 {
			return fmt.Errorf("%w: authorization %s", ErrNotInitialized, authorizationID)
		}

		tmpl, err := e.templates.GetByStateAndType(ctx, state, forms.DefaultFormType)
		if err != nil {
			return fmt.Errorf("state %s: %w", state, err)
		}

		merged := make(map[string]interface{})
		for _, s := range steps {
			if s.FormData == nil {
				continue
			}
			for k, v := range s.FormData.Fields {
				merged[k] = v
			}
		}
		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}

		pkg = &forms.FormPackage{
			ID:              uuid.New(),
			AuthorizationID: authorizationID,
			State:           state,
			TemplateID:      tmpl.ID,
			Data:            data,
			GeneratedBy:     actorID,
			GeneratedAt:     e.nowFn(),
		}
		if err := e.packages.Create(ctx, pkg); err != nil {
			return err
		}
		return e.auths.SetFormPackage(ctx, authorizationID, pkg.ID)
	})
	if err != nil {
		return nil, err
	}

	e.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionFormsGenerated,
		ResourceType: "prior_authorization",
		ResourceID:   &authorizationID,
		Details:      map[string]any{"package_id": pkg.ID.String(), "state": state},
	})
	return pkg, nil
}
