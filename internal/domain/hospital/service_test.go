package hospital

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	hospitals map[uuid.UUID]*Hospital
}

func newMockRepo() *mockRepo {
	return &mockRepo{hospitals: make(map[uuid.UUID]*Hospital)}
}

func (m *mockRepo) Create(_ context.Context, h *Hospital) error {
	h.ID = uuid.New()
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Hospital, error) {
	h, ok := m.hospitals[id]
	if !ok {
		return nil, ErrNotFound
	}
	return h, nil
}

func (m *mockRepo) Update(_ context.Context, h *Hospital) error {
	m.hospitals[h.ID] = h
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.hospitals, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Hospital, int, error) {
	var items []*Hospital
	for _, h := range m.hospitals {
		items = append(items, h)
	}
	return items, len(items), nil
}

func strPtr(s string) *string { return &s }

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo())
	if err := svc.Create(context.Background(), &Hospital{}); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestCreate_AssignsID(t *testing.T) {
	svc := NewService(newMockRepo())
	h := &Hospital{Name: "City General"}
	if err := svc.Create(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
}

func TestUpdate_UnknownHospital(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Update(context.Background(), &Hospital{ID: uuid.New(), Name: "X"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveFields(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	h := &Hospital{
		Name:    "City General",
		Address: strPtr("12 Harbor Rd"),
		Phone:   strPtr("+1-555-0100"),
		TaxID:   strPtr("TX-99"),
	}
	if err := svc.Create(context.Background(), h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields, err := svc.ResolveFields(context.Background(), h.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]string{
		"hospital_name":    "City General",
		"hospital_address": "12 Harbor Rd",
		"hospital_phone":   "+1-555-0100",
		"hospital_tax_id":  "TX-99",
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("field %s: expected %q, got %q", k, v, fields[k])
		}
	}
	if _, ok := fields["hospital_email"]; ok {
		t.Error("did not expect hospital_email for a hospital without one")
	}
}

func TestResolveFields_UnknownHospital(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.ResolveFields(context.Background(), uuid.New()); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
