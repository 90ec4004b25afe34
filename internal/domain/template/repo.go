package template

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no template exists for the given id.
var ErrNotFound = errors.New("template not found")

type Repository interface {
	Create(ctx context.Context, t *Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	Update(ctx context.Context, t *Template) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Template, int, error)
}
