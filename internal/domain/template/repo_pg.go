package template

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

const templateCols = `id, hospital_id, name, description, elements, settings, created_at, updated_at`

// Elements and settings are stored as JSONB; element order in the array is
// the paint order.
func (r *repoPG) scan(row pgx.Row) (*Template, error) {
	var t Template
	var elements, settings []byte
	err := row.Scan(&t.ID, &t.HospitalID, &t.Name, &t.Description, &elements, &settings, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(elements, &t.Elements); err != nil {
		return nil, fmt.Errorf("decode template elements: %w", err)
	}
	if err := json.Unmarshal(settings, &t.Settings); err != nil {
		return nil, fmt.Errorf("decode template settings: %w", err)
	}
	return &t, nil
}

func (r *repoPG) Create(ctx context.Context, t *Template) error {
	t.ID = uuid.New()
	elements, err := json.Marshal(t.Elements)
	if err != nil {
		return fmt.Errorf("encode template elements: %w", err)
	}
	settings, err := json.Marshal(t.Settings)
	if err != nil {
		return fmt.Errorf("encode template settings: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO report_template (id, hospital_id, name, description, elements, settings)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		t.ID, t.HospitalID, t.Name, t.Description, elements, settings)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+templateCols+` FROM report_template WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, t *Template) error {
	elements, err := json.Marshal(t.Elements)
	if err != nil {
		return fmt.Errorf("encode template elements: %w", err)
	}
	settings, err := json.Marshal(t.Settings)
	if err != nil {
		return fmt.Errorf("encode template settings: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE report_template SET name=$2, description=$3, elements=$4, settings=$5, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Description, elements, settings)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM report_template WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByHospital(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*Template, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM report_template WHERE hospital_id = $1`, hospitalID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+templateCols+` FROM report_template WHERE hospital_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, hospitalID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Template
	for rows.Next() {
		t, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, nil
}
