package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Logger is the single write path into the audit trail. Every mutation in
// the system routes through Append; reporting surfaces read through Query.
//
// Append is best-effort from the caller's perspective: a storage failure is
// logged to the process log and swallowed so the triggering business
// operation still completes. Audit durability problems must never block
// clinical workflow progress.
type Logger struct {
	store Store
	log   zerolog.Logger
	nowFn func() time.Time
}

// NewLogger creates a Logger writing to the given store. Failures to
// persist are reported through log.
func NewLogger(store Store, log zerolog.Logger) *Logger {
	return &Logger{store: store, log: log, nowFn: func() time.Time { return time.Now().UTC() }}
}

// SetNowFunc overrides the clock, for tests.
func (l *Logger) SetNowFunc(fn func() time.Time) { l.nowFn = fn }

// Append derives the field-level diff from the entry's before/after
// snapshots and persists one immutable record. It must be called
// synchronously within the critical section of the mutation it documents,
// so the snapshots reflect the exact transition applied.
func (l *Logger) Append(ctx context.Context, e Entry) {
	if e.IPAddress == "" || e.UserAgent == "" {
		meta := RequestMetaFromContext(ctx)
		if e.IPAddress == "" {
			e.IPAddress = meta.IPAddress
		}
		if e.UserAgent == "" {
			e.UserAgent = meta.UserAgent
		}
	}
	rec := &Record{
		ID:           uuid.New(),
		ActorID:      e.ActorID,
		Action:       e.Action,
		ResourceType: e.ResourceType,
		ResourceID:   e.ResourceID,
		FieldChanges: Diff(e.Before, e.After),
		Details:      e.Details,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		RecordedAt:   l.nowFn(),
	}
	if e.Before != nil {
		rec.BeforeData, _ = json.Marshal(e.Before)
	}
	if e.After != nil {
		rec.AfterData, _ = json.Marshal(e.After)
	}

	if err := l.store.Append(ctx, rec); err != nil {
		l.log.Error().Err(err).
			Str("action", e.Action).
			Str("resource_type", e.ResourceType).
			Str("actor_id", e.ActorID).
			Msg("failed to persist audit record")
	}
}

// Query returns matching audit records, newest first, with ties broken by
// id so ordering is stable.
func (l *Logger) Query(ctx context.Context, params QueryParams, limit, offset int) ([]*Record, int, error) {
	return l.store.Query(ctx, params, limit, offset)
}
