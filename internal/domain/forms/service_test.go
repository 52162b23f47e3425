package forms

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/priorauth/priorauth/internal/platform/audit"
)

// -- Mock Repositories --

type mockTemplateRepo struct {
	store map[uuid.UUID]*StateFormTemplate
}

func newMockTemplateRepo() *mockTemplateRepo {
	return &mockTemplateRepo{store: make(map[uuid.UUID]*StateFormTemplate)}
}

func (m *mockTemplateRepo) Upsert(_ context.Context, t *StateFormTemplate) error {
	for _, existing := range m.store {
		if existing.State == t.State && existing.FormType == t.FormType {
			t.ID = existing.ID
			t.Version = existing.Version + 1
			m.store[t.ID] = t
			return nil
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Version == 0 {
		t.Version = 1
	}
	m.store[t.ID] = t
	return nil
}

func (m *mockTemplateRepo) GetByID(_ context.Context, id uuid.UUID) (*StateFormTemplate, error) {
	t, ok := m.store[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return t, nil
}

func (m *mockTemplateRepo) GetByStateAndType(_ context.Context, state, formType string) (*StateFormTemplate, error) {
	for _, t := range m.store {
		if t.State == state && t.FormType == formType {
			return t, nil
		}
	}
	return nil, ErrTemplateNotFound
}

func (m *mockTemplateRepo) List(_ context.Context, limit, offset int) ([]*StateFormTemplate, int, error) {
	var items []*StateFormTemplate
	for _, t := range m.store {
		items = append(items, t)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].State < items[j].State })
	return items, len(items), nil
}

func (m *mockTemplateRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

type mockPackageRepo struct {
	store map[uuid.UUID]*FormPackage
}

func newMockPackageRepo() *mockPackageRepo {
	return &mockPackageRepo{store: make(map[uuid.UUID]*FormPackage)}
}

func (m *mockPackageRepo) Create(_ context.Context, p *FormPackage) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.store[p.ID] = p
	return nil
}

func (m *mockPackageRepo) GetByID(_ context.Context, id uuid.UUID) (*FormPackage, error) {
	p, ok := m.store[id]
	if !ok {
		return nil, ErrPackageNotFound
	}
	return p, nil
}

func (m *mockPackageRepo) ListByAuthorization(_ context.Context, authorizationID uuid.UUID) ([]*FormPackage, error) {
	var items []*FormPackage
	for _, p := range m.store {
		if p.AuthorizationID == authorizationID {
			items = append(items, p)
		}
	}
	return items, nil
}

func newTestService() (*Service, *audit.MemStore) {
	store := audit.NewMemStore()
	auditor := audit.NewLogger(store, zerolog.Nop())
	return NewService(newMockTemplateRepo(), newMockPackageRepo(), auditor), store
}

// -- Tests --

func TestValidStateCode(t *testing.T) {
	valid := []string{"CA", "NY", "TX"}
	invalid := []string{"", "C", "cal", "ca", "C1", "CAL"}

	for _, s := range valid {
		if !ValidStateCode(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range invalid {
		if ValidStateCode(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestUpsertTemplate(t *testing.T) {
	svc, auditStore := newTestService()
	ctx := context.Background()

	tmpl := &StateFormTemplate{
		State:  "CA",
		Name:   "California Prior Authorization Request",
		Fields: []string{"patient_name", "member_id", "treatment_type"},
	}
	if err := svc.UpsertTemplate(ctx, tmpl, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tmpl.FormType != DefaultFormType {
		t.Errorf("expected default form type, got %q", tmpl.FormType)
	}
	if tmpl.ID == uuid.Nil {
		t.Error("expected template id to be assigned")
	}
	if auditStore.Len() != 1 {
		t.Errorf("expected 1 audit record, got %d", auditStore.Len())
	}

	got, err := svc.GetTemplate(ctx, "CA", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != tmpl.Name {
		t.Errorf("expected %q, got %q", tmpl.Name, got.Name)
	}
}

func TestUpsertTemplate_Validation(t *testing.T) {
	svc, auditStore := newTestService()
	ctx := context.Background()

	if err := svc.UpsertTemplate(ctx, &StateFormTemplate{State: "california", Name: "x"}, "admin-1"); err == nil {
		t.Error("expected error for invalid state code")
	}
	if err := svc.UpsertTemplate(ctx, &StateFormTemplate{State: "CA"}, "admin-1"); err == nil {
		t.Error("expected error for missing name")
	}
	if auditStore.Len() != 0 {
		t.Errorf("rejected upserts must not produce audit records, got %d", auditStore.Len())
	}
}

func TestGetTemplate_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetTemplate(context.Background(), "WY", "")
	if err != ErrTemplateNotFound {
		t.Errorf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestGetTemplate_InvalidState(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.GetTemplate(context.Background(), "bad", ""); err == nil {
		t.Error("expected error for invalid state code")
	}
}

func TestDeleteTemplate_Audited(t *testing.T) {
	svc, auditStore := newTestService()
	ctx := context.Background()

	tmpl := &StateFormTemplate{State: "NY", Name: "New York PA Form"}
	if err := svc.UpsertTemplate(ctx, tmpl, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteTemplate(ctx, tmpl.ID, "admin-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auditStore.Len() != 2 {
		t.Errorf("expected 2 audit records (create+delete), got %d", auditStore.Len())
	}

	if _, err := svc.GetTemplateByID(ctx, tmpl.ID); err != ErrTemplateNotFound {
		t.Errorf("expected ErrTemplateNotFound after delete, got %v", err)
	}
}
