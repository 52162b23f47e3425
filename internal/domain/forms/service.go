package forms

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"

	"github.com/priorauth/priorauth/internal/platform/audit"
)

var stateCodeRe = regexp.MustCompile(`^[A-Z]{2}$`)

// ValidStateCode reports whether s is a two-letter uppercase state code.
func ValidStateCode(s string) bool { return stateCodeRe.MatchString(s) }

type Service struct {
	templates TemplateRepository
	packages  PackageRepository
	auditor   *audit.Logger
}

func NewService(templates TemplateRepository, packages PackageRepository, auditor *audit.Logger) *Service {
	return &Service{templates: templates, packages: packages, auditor: auditor}
}

// GetTemplate resolves the template for a state. An empty formType defaults
// to DefaultFormType.
func (s *Service) GetTemplate(ctx context.Context, state, formType string) (*StateFormTemplate, error) {
	if !ValidStateCode(state) {
		return nil, fmt.Errorf("invalid state code: %q", state)
	}
	if formType == "" {
		formType = DefaultFormType
	}
	return s.templates.GetByStateAndType(ctx, state, formType)
}

func (s *Service) UpsertTemplate(ctx context.Context, t *StateFormTemplate, actorID string) error {
	if !ValidStateCode(t.State) {
		return fmt.Errorf("invalid state code: %q", t.State)
	}
	if t.FormType == "" {
		t.FormType = DefaultFormType
	}
	if t.Name == "" {
		return fmt.Errorf("name is required")
	}

	before, _ := s.templates.GetByStateAndType(ctx, t.State, t.FormType)

	if err := s.templates.Upsert(ctx, t); err != nil {
		return err
	}

	action := "FORM_TEMPLATE_CREATE"
	var beforeSnap map[string]interface{}
	if before != nil {
		action = "FORM_TEMPLATE_UPDATE"
		beforeSnap = audit.Snapshot(before)
	}
	s.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       action,
		ResourceType: "state_form_template",
		ResourceID:   &t.ID,
		Before:       beforeSnap,
		After:        audit.Snapshot(t),
	})
	return nil
}

func (s *Service) GetTemplateByID(ctx context.Context, id uuid.UUID) (*StateFormTemplate, error) {
	return s.templates.GetByID(ctx, id)
}

func (s *Service) ListTemplates(ctx context.Context, limit, offset int) ([]*StateFormTemplate, int, error) {
	return s.templates.List(ctx, limit, offset)
}

func (s *Service) DeleteTemplate(ctx context.Context, id uuid.UUID, actorID string) error {
	before, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return err
	}
	s.auditor.Append(ctx, audit.Entry{
		ActorID:      actorID,
		Action:       "FORM_TEMPLATE_DELETE",
		ResourceType: "state_form_template",
		ResourceID:   &id,
		Before:       audit.Snapshot(before),
	})
	return nil
}

func (s *Service) GetPackage(ctx context.Context, id uuid.UUID) (*FormPackage, error) {
	return s.packages.GetByID(ctx, id)
}

func (s *Service) ListPackagesByAuthorization(ctx context.Context, authorizationID uuid.UUID) ([]*FormPackage, error) {
	return s.packages.ListByAuthorization(ctx, authorizationID)
}
