package authorization

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Authorization) error
	GetByID(ctx context.Context, id uuid.UUID) (*Authorization, error)
	Update(ctx context.Context, a *Authorization) error
	List(ctx context.Context, filters Filters, limit, offset int) ([]*Authorization, int, error)

	// Narrow surface used by the workflow engine. The engine never touches
	// any other authorization field.
	CurrentStepNumber(ctx context.Context, id uuid.UUID) (int, error)
	SetCurrentStepNumber(ctx context.Context, id uuid.UUID, n int) error
	SetFormPackage(ctx context.Context, id uuid.UUID, packageID uuid.UUID) error
}

// Filters narrows List results. Zero values mean "no filter".
type Filters struct {
	Status     string
	PatientRef string
	State      string
}
