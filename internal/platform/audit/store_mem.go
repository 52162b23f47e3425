package audit

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store for tests and development. Thread-safe.
type MemStore struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make([]*Record, 0)}
}

func (m *MemStore) Append(_ context.Context, rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *MemStore) Query(_ context.Context, params QueryParams, limit, offset int) ([]*Record, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*Record
	for _, rec := range m.records {
		if matches(rec, params) {
			matched = append(matched, rec)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].RecordedAt.Equal(matched[j].RecordedAt) {
			return matched[i].RecordedAt.After(matched[j].RecordedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

// Len returns the number of stored records.
func (m *MemStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func matches(rec *Record, params QueryParams) bool {
	if params.ActorID != "" && rec.ActorID != params.ActorID {
		return false
	}
	if params.Action != "" && rec.Action != params.Action {
		return false
	}
	if params.ResourceType != "" && rec.ResourceType != params.ResourceType {
		return false
	}
	if params.ResourceID != nil {
		if rec.ResourceID == nil || *rec.ResourceID != *params.ResourceID {
			return false
		}
	}
	if params.From != nil && rec.RecordedAt.Before(*params.From) {
		return false
	}
	if params.To != nil && rec.RecordedAt.After(*params.To) {
		return false
	}
	return true
}
