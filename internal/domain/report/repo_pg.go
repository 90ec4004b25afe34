package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const reportCols = `id, hospital_id, template_id, report_id, patient_id, patient_name,
	patient_age, patient_gender, test_id, test_name, referred_by, parameters,
	status, token, qr_id, collected_at, reported_at, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Record, error) {
	var rec Record
	var params []byte
	err := row.Scan(&rec.ID, &rec.HospitalID, &rec.TemplateID, &rec.ReportID, &rec.PatientID,
		&rec.PatientName, &rec.PatientAge, &rec.PatientGender, &rec.TestID, &rec.TestName,
		&rec.ReferredBy, &params, &rec.Status, &rec.Token, &rec.QRID,
		&rec.CollectedAt, &rec.ReportedAt, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &rec.Parameters); err != nil {
			return nil, fmt.Errorf("decode parameters: %w", err)
		}
	}
	return &rec, nil
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	params, err := json.Marshal(rec.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO lab_report (id, hospital_id, template_id, report_id, patient_id, patient_name,
			patient_age, patient_gender, test_id, test_name, referred_by, parameters, status,
			collected_at, reported_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		rec.ID, rec.HospitalID, rec.TemplateID, rec.ReportID, rec.PatientID, rec.PatientName,
		rec.PatientAge, rec.PatientGender, rec.TestID, rec.TestName, rec.ReferredBy, params,
		rec.Status, rec.CollectedAt, rec.ReportedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+reportCols+` FROM lab_report WHERE id = $1`, id))
}

func (r *repoPG) GetByReportID(ctx context.Context, reportID string) (*Record, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+reportCols+` FROM lab_report WHERE report_id = $1`, reportID))
}

func (r *repoPG) GetByQRID(ctx context.Context, qrID string) (*Record, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+reportCols+` FROM lab_report WHERE qr_id = $1`, qrID))
}

func (r *repoPG) Update(ctx context.Context, rec *Record) error {
	params, err := json.Marshal(rec.Parameters)
	if err != nil {
		return fmt.Errorf("encode parameters: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE lab_report SET template_id=$2, patient_id=$3, patient_name=$4, patient_age=$5,
			patient_gender=$6, test_id=$7, test_name=$8, referred_by=$9, parameters=$10,
			status=$11, collected_at=$12, reported_at=$13, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.TemplateID, rec.PatientID, rec.PatientName, rec.PatientAge, rec.PatientGender,
		rec.TestID, rec.TestName, rec.ReferredBy, params, rec.Status, rec.CollectedAt, rec.ReportedAt)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE lab_report SET status=$2, updated_at=NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Record, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lab_report WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportCols+` FROM lab_report WHERE hospital_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Record
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, nil
}

// EnsureVerification relies on COALESCE to make first write win: the update
// only fills NULL columns, so two concurrent provisioning calls both read
// back whichever pair landed first.
func (r *repoPG) EnsureVerification(ctx context.Context, id uuid.UUID, token, qrID string) (string, string, error) {
	var gotToken, gotQR string
	err := r.pool.QueryRow(ctx, `
		UPDATE lab_report
		SET token = COALESCE(token, $2), qr_id = COALESCE(qr_id, $3), updated_at = NOW()
		WHERE id = $1
		RETURNING token, qr_id`, id, token, qrID).Scan(&gotToken, &gotQR)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", "", ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	return gotToken, gotQR, nil
}
