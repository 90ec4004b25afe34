package report

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("report not found")

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	GetByReportID(ctx context.Context, reportID string) (*Record, error)
	GetByQRID(ctx context.Context, qrID string) (*Record, error)
	Update(ctx context.Context, r *Record) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Record, int, error)

	// EnsureVerification sets the report's token and qr id to the supplied
	// candidates only where still NULL, atomically, and returns the values
	// that won. Concurrent callers all observe the same pair.
	EnsureVerification(ctx context.Context, id uuid.UUID, token, qrID string) (string, string, error)
}
