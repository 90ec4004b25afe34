package hospital

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no hospital exists for the given id.
var ErrNotFound = errors.New("hospital not found")

type Repository interface {
	Create(ctx context.Context, h *Hospital) error
	GetByID(ctx context.Context, id uuid.UUID) (*Hospital, error)
	Update(ctx context.Context, h *Hospital) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
}
