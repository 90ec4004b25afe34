package template

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

type mockRepo struct {
	templates map[uuid.UUID]*Template
}

func newMockRepo() *mockRepo {
	return &mockRepo{templates: make(map[uuid.UUID]*Template)}
}

func (m *mockRepo) Create(_ context.Context, t *Template) error {
	t.ID = uuid.New()
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, t *Template) error {
	if _, ok := m.templates[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	m.templates[t.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.templates, id)
	return nil
}

func (m *mockRepo) ListByHospital(_ context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Template, int, error) {
	var out []*Template
	for _, t := range m.templates {
		if t.HospitalID == hospitalID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func validTemplate() *Template {
	return &Template{
		HospitalID: uuid.New(),
		Name:       "default letterhead",
		Elements: []Element{
			{ID: "title", Type: ElementField, FieldKey: "hospital_name",
				Position: Position{X: 40, Y: 30}},
			{ID: "rule", Type: ElementLine, Position: Position{X: 40, Y: 95}, Thickness: 1.5},
		},
	}
}

func TestServiceCreate(t *testing.T) {
	svc := NewService(newMockRepo())
	tpl := validTemplate()
	if err := svc.Create(context.Background(), tpl); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tpl.ID == uuid.Nil {
		t.Error("id not assigned")
	}
}

func TestServiceCreate_RequiresHospital(t *testing.T) {
	svc := NewService(newMockRepo())
	tpl := validTemplate()
	tpl.HospitalID = uuid.Nil
	if err := svc.Create(context.Background(), tpl); err == nil {
		t.Fatal("expected error for missing hospital id")
	}
}

func TestServiceCreate_RejectsInvalidElement(t *testing.T) {
	svc := NewService(newMockRepo())
	tpl := validTemplate()
	tpl.Elements = append(tpl.Elements, Element{ID: "bad", Type: "video"})
	if err := svc.Create(context.Background(), tpl); err == nil {
		t.Fatal("expected error for unknown element type")
	}
}

func TestServiceUpdate_PreservesHospital(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	tpl := validTemplate()
	if err := svc.Create(context.Background(), tpl); err != nil {
		t.Fatal(err)
	}

	upd := *tpl
	upd.HospitalID = uuid.New()
	upd.Name = "renamed"
	if err := svc.Update(context.Background(), &upd); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if upd.HospitalID != tpl.HospitalID {
		t.Error("hospital id must be immutable")
	}
	stored, _ := repo.GetByID(context.Background(), tpl.ID)
	if stored.Name != "renamed" {
		t.Errorf("update not persisted: %+v", stored)
	}
}

func TestServiceUpdate_Missing(t *testing.T) {
	svc := NewService(newMockRepo())
	tpl := validTemplate()
	tpl.ID = uuid.New()
	if err := svc.Update(context.Background(), tpl); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
