package workflow

import (
	"context"

	"github.com/google/uuid"
)

type StepRepository interface {
	// CreateBatch inserts all step rows for one authorization in order.
	CreateBatch(ctx context.Context, steps []*AuthorizationStep) error
	GetByNumber(ctx context.Context, authorizationID uuid.UUID, stepNumber int) (*AuthorizationStep, error)
	ListByAuthorization(ctx context.Context, authorizationID uuid.UUID) ([]*AuthorizationStep, error)
	CountByAuthorization(ctx context.Context, authorizationID uuid.UUID) (int, error)
	Update(ctx context.Context, step *AuthorizationStep) error
}
