package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	domain "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

// Save inserts a case or renames an existing one
func (r *CaseRepository) Save(ctx context.Context, c *domain.Case) error {
	const q = `
INSERT INTO legal_cases
  (id, owner, name, created_at)
VALUES ($1,$2,$3,$4)
ON CONFLICT (id) DO UPDATE SET
  name=EXCLUDED.name;
`
	createdAt := c.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, c.ID, stringOrDash(c.Owner), c.Name, createdAt)
	return err
}

// Get returns a case with its stage records in insertion order
func (r *CaseRepository) Get(ctx context.Context, owner string, id domain.CaseID) (*domain.Case, error) {
	const q = `
SELECT id, owner, name, created_at
FROM legal_cases
WHERE id=$1 AND owner=$2;
`
	var c domain.Case
	if err := r.db.QueryRowContext(ctx, q, id, owner).Scan(&c.ID, &c.Owner, &c.Name, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const qs = `
SELECT id, case_id, stage_index, stage, input_text, output_text, status, created_at
FROM legal_case_stages
WHERE case_id=$1
ORDER BY created_at ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, qs, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	c.Stages = []domain.StageRecord{}
	for rows.Next() {
		var s domain.StageRecord
		if err := rows.Scan(&s.ID, &s.CaseID, &s.StageIndex, &s.Stage, &s.Input, &s.Output, &s.Status, &s.CreatedAt); err != nil {
			return nil, err
		}
		c.Stages = append(c.Stages, s)
	}
	return &c, rows.Err()
}

// Paginate returns a page of the owner's cases ordered by created_at desc
func (r *CaseRepository) Paginate(ctx context.Context, owner string, page, pageSize int) ([]*domain.Case, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, owner, name, created_at
FROM legal_cases
WHERE owner=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, owner, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Case{}
	for rows.Next() {
		var c domain.Case
		if err := rows.Scan(&c.ID, &c.Owner, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		c.Stages = []domain.StageRecord{}
		out = append(out, &c)
	}
	return out, rows.Err()
}

// Delete removes the case; stage rows go with it via ON DELETE CASCADE
func (r *CaseRepository) Delete(ctx context.Context, owner string, id domain.CaseID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM legal_cases WHERE id=$1 AND owner=$2;`, id, owner)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddStage inserts a stage record only when the case belongs to owner
func (r *CaseRepository) AddStage(ctx context.Context, owner string, s *domain.StageRecord) error {
	const q = `
INSERT INTO legal_case_stages
  (id, case_id, stage_index, stage, input_text, output_text, status, created_at)
SELECT $1, $2, $3::int, $4, $5, $6, $7, $8::timestamptz
FROM legal_cases
WHERE id=$9 AND owner=$10;
`
	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx, q,
		s.ID, s.CaseID, s.StageIndex, s.Stage, s.Input, s.Output, s.Status, createdAt,
		s.CaseID, owner)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
