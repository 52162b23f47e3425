package forms

import (
	"context"

	"github.com/google/uuid"
)

type TemplateRepository interface {
	Upsert(ctx context.Context, t *StateFormTemplate) error
	GetByID(ctx context.Context, id uuid.UUID) (*StateFormTemplate, error)
	GetByStateAndType(ctx context.Context, state, formType string) (*StateFormTemplate, error)
	List(ctx context.Context, limit, offset int) ([]*StateFormTemplate, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PackageRepository interface {
	Create(ctx context.Context, p *FormPackage) error
	GetByID(ctx context.Context, id uuid.UUID) (*FormPackage, error)
	ListByAuthorization(ctx context.Context, authorizationID uuid.UUID) ([]*FormPackage, error)
}
