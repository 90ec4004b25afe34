package template

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, t *Template) error {
	if t.HospitalID == uuid.Nil {
		return fmt.Errorf("hospital_id is required")
	}
	if err := t.Validate(); err != nil {
		return err
	}
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, t *Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	t.HospitalID = existing.HospitalID
	return s.repo.Update(ctx, t)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Template, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}
