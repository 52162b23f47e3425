package audit

import (
	"testing"
)

func TestDiff_BothNil(t *testing.T) {
	if cs := Diff(nil, nil); cs != nil {
		t.Errorf("expected nil change-set, got %+v", cs)
	}
}

func TestDiff_Create(t *testing.T) {
	after := map[string]interface{}{
		"status":     "draft",
		"patient_id": "pat-1",
	}
	cs := Diff(nil, after)
	if cs == nil {
		t.Fatal("expected change-set for create")
	}
	if cs.Type != ChangeCreate {
		t.Errorf("expected CREATE, got %s", cs.Type)
	}
	if len(cs.NewFields) != 2 || cs.NewFields[0] != "patient_id" || cs.NewFields[1] != "status" {
		t.Errorf("expected sorted new fields [patient_id status], got %v", cs.NewFields)
	}
	if len(cs.RemovedFields) != 0 || len(cs.ModifiedFields) != 0 {
		t.Error("create must not report removed or modified fields")
	}
}

func TestDiff_Delete(t *testing.T) {
	before := map[string]interface{}{"status": "approved"}
	cs := Diff(before, nil)
	if cs == nil {
		t.Fatal("expected change-set for delete")
	}
	if cs.Type != ChangeDelete {
		t.Errorf("expected DELETE, got %s", cs.Type)
	}
	if len(cs.RemovedFields) != 1 || cs.RemovedFields[0] != "status" {
		t.Errorf("expected removed fields [status], got %v", cs.RemovedFields)
	}
}

func TestDiff_NoChanges(t *testing.T) {
	before := map[string]interface{}{
		"status": "draft",
		"notes":  []interface{}{"a", "b"},
		"meta":   map[string]interface{}{"state": "CA"},
	}
	after := map[string]interface{}{
		"status": "draft",
		"notes":  []interface{}{"a", "b"},
		"meta":   map[string]interface{}{"state": "CA"},
	}
	if cs := Diff(before, after); cs != nil {
		t.Errorf("expected nil change-set for identical snapshots, got %+v", cs)
	}
}

func TestDiff_Update(t *testing.T) {
	before := map[string]interface{}{
		"status":   "draft",
		"obsolete": true,
		"keep":     "same",
	}
	after := map[string]interface{}{
		"status": "submitted",
		"added":  42,
		"keep":   "same",
	}
	cs := Diff(before, after)
	if cs == nil {
		t.Fatal("expected change-set")
	}
	if cs.Type != ChangeUpdate {
		t.Errorf("expected UPDATE, got %s", cs.Type)
	}
	if len(cs.ModifiedFields) != 3 {
		t.Fatalf("expected 3 field changes, got %d: %+v", len(cs.ModifiedFields), cs.ModifiedFields)
	}

	fc, ok := cs.ModifiedFields["status"]
	if !ok || fc.ChangeType != FieldModified {
		t.Errorf("expected status MODIFIED, got %+v", fc)
	}
	if fc.OldValue != "draft" || fc.NewValue != "submitted" {
		t.Errorf("expected draft->submitted, got %v->%v", fc.OldValue, fc.NewValue)
	}

	fc, ok = cs.ModifiedFields["added"]
	if !ok || fc.ChangeType != FieldAdded {
		t.Errorf("expected added ADDED, got %+v", fc)
	}
	if fc.OldValue != nil {
		t.Errorf("added field must have nil old value, got %v", fc.OldValue)
	}

	fc, ok = cs.ModifiedFields["obsolete"]
	if !ok || fc.ChangeType != FieldRemoved {
		t.Errorf("expected obsolete REMOVED, got %+v", fc)
	}
	if fc.NewValue != nil {
		t.Errorf("removed field must have nil new value, got %v", fc.NewValue)
	}

	if _, ok := cs.ModifiedFields["keep"]; ok {
		t.Error("unchanged field must not appear in the change-set")
	}
}

func TestDiff_NestedValues(t *testing.T) {
	before := map[string]interface{}{
		"payload": map[string]interface{}{"cpt": "97110", "units": float64(12)},
	}
	after := map[string]interface{}{
		"payload": map[string]interface{}{"cpt": "97110", "units": float64(16)},
	}
	cs := Diff(before, after)
	if cs == nil {
		t.Fatal("expected change-set for nested modification")
	}
	fc, ok := cs.ModifiedFields["payload"]
	if !ok || fc.ChangeType != FieldModified {
		t.Errorf("expected payload MODIFIED, got %+v", cs.ModifiedFields)
	}
}

func TestDiff_SelfComparisonAlwaysNil(t *testing.T) {
	snapshots := []map[string]interface{}{
		nil,
		{},
		{"a": float64(1)},
		{"a": nil, "b": []interface{}{map[string]interface{}{"x": "y"}}},
	}
	for i, s := range snapshots {
		if cs := Diff(s, s); cs != nil {
			t.Errorf("snapshot %d: Diff(s, s) = %+v, want nil", i, cs)
		}
	}
}

func TestDiff_EmptyMaps(t *testing.T) {
	// Empty maps are present-but-empty snapshots, not absent ones.
	cs := Diff(map[string]interface{}{}, map[string]interface{}{})
	if cs != nil {
		t.Errorf("expected nil for two empty snapshots, got %+v", cs)
	}

	cs = Diff(nil, map[string]interface{}{})
	if cs == nil || cs.Type != ChangeCreate {
		t.Errorf("expected CREATE for nil->empty, got %+v", cs)
	}
}

func TestSnapshot(t *testing.T) {
	type rec struct {
		Status string `json:"status"`
		Units  int    `json:"units"`
	}

	m := Snapshot(rec{Status: "draft", Units: 3})
	if m == nil {
		t.Fatal("expected snapshot map")
	}
	if m["status"] != "draft" {
		t.Errorf("expected status=draft, got %v", m["status"])
	}
	// JSON round trip turns numbers into float64.
	if m["units"] != float64(3) {
		t.Errorf("expected units=3, got %v (%T)", m["units"], m["units"])
	}

	if Snapshot(nil) != nil {
		t.Error("expected nil snapshot for nil input")
	}
	if Snapshot("not an object") != nil {
		t.Error("expected nil snapshot for non-object input")
	}
}

func TestSnapshot_RoundTripEqualsDiffNil(t *testing.T) {
	type rec struct {
		Status string   `json:"status"`
		Codes  []string `json:"codes"`
	}
	r := rec{Status: "approved", Codes: []string{"97110", "97112"}}
	if cs := Diff(Snapshot(r), Snapshot(r)); cs != nil {
		t.Errorf("two snapshots of the same value must diff to nil, got %+v", cs)
	}
}
