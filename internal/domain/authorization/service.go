package authorization

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/priorauth/priorauth/internal/platform/audit"
)

type Service struct {
	repo    Repository
	auditor *audit.Logger
}

func NewService(repo Repository, auditor *audit.Logger) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, a *Authorization, actorID string) error {
	if a.PatientRef == "" {
		return fmt.Errorf("patient_ref is required")
	}
	if a.TreatmentType == "" {
		return fmt.Errorf("treatment_type is required")
	}
	if a.State != "" && len(a.State) != 2 {
		return fmt.Errorf("invalid state code: %q", a.State)
	}
	if a.Status == "" {
		a.Status = StatusDraft
	}
	if !ValidStatus(a.Status) {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	a.CurrentStep = 0
	a.CreatedBy = actorID

	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}

	s.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionAuthorizationCreate,
		ResourceType: "prior_authorization",
		ResourceID:   &a.ID,
		After:        audit.Snapshot(a),
	})
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Authorization, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filters Filters, limit, offset int) ([]*Authorization, int, error) {
	return s.repo.List(ctx, filters, limit, offset)
}

// Update applies caller-editable fields. Status transitions go through
// UpdateStatus so the dedicated audit action fires.
func (s *Service) Update(ctx context.Context, a *Authorization, actorID string) error {
	before, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}

	a.Status = before.Status
	a.CurrentStep = before.CurrentStep
	a.FormPackageID = before.FormPackageID
	a.CreatedBy = before.CreatedBy
	a.CreatedAt = before.CreatedAt
	if a.State != "" && len(a.State) != 2 {
		return fmt.Errorf("invalid state code: %q", a.State)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}

	s.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionAuthorizationUpdate,
		ResourceType: "prior_authorization",
		ResourceID:   &a.ID,
		Before:       audit.Snapshot(before),
		After:        audit.Snapshot(a),
	})
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status, actorID string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid status: %s", status)
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if before.Status == status {
		return nil
	}

	updated := *before
	updated.Status = status
	if err := s.repo.Update(ctx, &updated); err != nil {
		return err
	}

	s.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       audit.ActionStatusChange,
		ResourceType: "prior_authorization",
		ResourceID:   &id,
		Before:       audit.Snapshot(before),
		After:        audit.Snapshot(&updated),
		Details:      map[string]any{"from": before.Status, "to": status},
	})
	return nil
}
