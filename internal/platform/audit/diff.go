package audit

import (
	"bytes"
	"encoding/json"
	"sort"
)

// ChangeType classifies a change-set as a whole.
type ChangeType string

const (
	ChangeCreate ChangeType = "CREATE"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// FieldChangeType classifies a single field within an UPDATE change-set.
type FieldChangeType string

const (
	FieldAdded    FieldChangeType = "ADDED"
	FieldRemoved  FieldChangeType = "REMOVED"
	FieldModified FieldChangeType = "MODIFIED"
)

// FieldChange records the old and new value of one field.
type FieldChange struct {
	OldValue   interface{}     `json:"old_value"`
	NewValue   interface{}     `json:"new_value"`
	ChangeType FieldChangeType `json:"change_type"`
}

// ChangeSet is the structural diff between two snapshots of a record.
type ChangeSet struct {
	Type           ChangeType             `json:"type"`
	NewFields      []string               `json:"new_fields,omitempty"`
	RemovedFields  []string               `json:"removed_fields,omitempty"`
	ModifiedFields map[string]FieldChange `json:"modified_fields,omitempty"`
}

// Diff compares two snapshots and returns the change-set between them.
// A nil result means there is nothing to report: both snapshots absent,
// or both present with equal content. Re-saving an unchanged record
// therefore produces no audit noise.
//
// Equality is structural: values are compared through their canonical JSON
// encoding, so freshly deserialized copies of the same data compare equal.
// Values that cannot be serialized are treated as unequal. Diff never
// returns an error and never panics.
func Diff(before, after map[string]interface{}) *ChangeSet {
	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		return &ChangeSet{Type: ChangeCreate, NewFields: sortedKeys(after)}
	case after == nil:
		return &ChangeSet{Type: ChangeDelete, RemovedFields: sortedKeys(before)}
	}

	modified := make(map[string]FieldChange)
	for key, oldVal := range before {
		newVal, ok := after[key]
		if !ok {
			modified[key] = FieldChange{OldValue: oldVal, ChangeType: FieldRemoved}
			continue
		}
		if !equalValues(oldVal, newVal) {
			modified[key] = FieldChange{OldValue: oldVal, NewValue: newVal, ChangeType: FieldModified}
		}
	}
	for key, newVal := range after {
		if _, ok := before[key]; !ok {
			modified[key] = FieldChange{NewValue: newVal, ChangeType: FieldAdded}
		}
	}

	if len(modified) == 0 {
		return nil
	}
	return &ChangeSet{Type: ChangeUpdate, ModifiedFields: modified}
}

// Snapshot converts an arbitrary record into the map form Diff operates on,
// via a JSON round trip. Returns nil for nil input or values that do not
// serialize to a JSON object.
func Snapshot(v interface{}) map[string]interface{} {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}

func equalValues(a, b interface{}) bool {
	aj, errA := json.Marshal(a)
	bj, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(aj, bj)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
