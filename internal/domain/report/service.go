package report

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "report").Logger()}
}

// Create validates the snapshot, assigns the public report id and stores the
// record. Token and qr id stay unset until a share link is requested.
func (s *Service) Create(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = StatusDraft
	}
	if !rec.Status.Valid() {
		return fmt.Errorf("unknown status %q", rec.Status)
	}
	id, err := NewReportID()
	if err != nil {
		return err
	}
	rec.ReportID = id
	return s.repo.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByReportID(ctx context.Context, reportID string) (*Record, error) {
	return s.repo.GetByReportID(ctx, reportID)
}

func (s *Service) GetByQRID(ctx context.Context, qrID string) (*Record, error) {
	return s.repo.GetByQRID(ctx, qrID)
}

func (s *Service) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}

// Update replaces the mutable fields of a report. Hospital and report id are
// fixed at creation.
func (s *Service) Update(ctx context.Context, rec *Record) error {
	existing, err := s.repo.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	rec.HospitalID = existing.HospitalID
	rec.ReportID = existing.ReportID
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.Status == "" {
		rec.Status = existing.Status
	}
	if !existing.Status.CanAdvanceTo(rec.Status) {
		return fmt.Errorf("status cannot move back from %s to %s", existing.Status, rec.Status)
	}
	return s.repo.Update(ctx, rec)
}

// AdvanceStatus moves the report forward in its lifecycle. Repeating the
// current status is a no-op; moving backwards is rejected.
func (s *Service) AdvanceStatus(ctx context.Context, id uuid.UUID, next Status) error {
	if !next.Valid() {
		return fmt.Errorf("unknown status %q", next)
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !existing.Status.CanAdvanceTo(next) {
		return fmt.Errorf("status cannot move back from %s to %s", existing.Status, next)
	}
	if existing.Status == next {
		return nil
	}
	return s.repo.UpdateStatus(ctx, id, next)
}

// EnsureVerification returns the report's token and qr id, provisioning them
// on first use. Generation happens before the atomic conditional update, so
// a lost race simply discards the local candidates and adopts the stored
// pair.
func (s *Service) EnsureVerification(ctx context.Context, rec *Record) (token, qrID string, err error) {
	if rec.Token != nil && rec.QRID != nil {
		return *rec.Token, *rec.QRID, nil
	}
	candToken, err := NewToken()
	if err != nil {
		return "", "", err
	}
	candQR, err := NewQRID()
	if err != nil {
		return "", "", err
	}
	token, qrID, err = s.repo.EnsureVerification(ctx, rec.ID, candToken, candQR)
	if err != nil {
		return "", "", err
	}
	rec.Token, rec.QRID = &token, &qrID
	return token, qrID, nil
}
