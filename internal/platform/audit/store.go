package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// QueryParams filters the audit trail. Zero-value fields are ignored.
type QueryParams struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   *uuid.UUID
	From         *time.Time
	To           *time.Time
}

// Store persists audit records. Implementations expose no update or delete
// operations; the trail is append-only by construction.
type Store interface {
	Append(ctx context.Context, rec *Record) error
	Query(ctx context.Context, params QueryParams, limit, offset int) ([]*Record, int, error)
}
