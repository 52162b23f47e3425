package workflow

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/priorauth/priorauth/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type stepRepoPG struct{ pool *pgxpool.Pool }

func NewStepRepoPG(pool *pgxpool.Pool) StepRepository {
	return &stepRepoPG{pool: pool}
}

func (r *stepRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const stepCols = `id, authorization_id, step_number, step_name, description, status,
	assigned_to, completed_by, completed_at, form_data, notes, created_at, updated_at`

func scanStep(row pgx.Row) (*AuthorizationStep, error) {
	var s AuthorizationStep
	err := row.Scan(&s.ID, &s.AuthorizationID, &s.StepNumber, &s.StepName, &s.Description, &s.Status,
		&s.AssignedTo, &s.CompletedBy, &s.CompletedAt, &s.FormData, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *stepRepoPG) CreateBatch(ctx context.Context, steps []*AuthorizationStep) error {
	for _, s := range steps {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO authorization_step (id, authorization_id, step_number, step_name,
				description, status, assigned_to, form_data, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			s.ID, s.AuthorizationID, s.StepNumber, s.StepName,
			s.Description, s.Status, s.AssignedTo, s.FormData, s.Notes)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *stepRepoPG) GetByNumber(ctx context.Context, authorizationID uuid.UUID, stepNumber int) (*AuthorizationStep, error) {
	s, err := scanStep(r.conn(ctx).QueryRow(ctx,
		`SELECT `+stepCols+` FROM authorization_step WHERE authorization_id = $1 AND step_number = $2`,
		authorizationID, stepNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStepNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *stepRepoPG) ListByAuthorization(ctx context.Context, authorizationID uuid.UUID) ([]*AuthorizationStep, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+stepCols+` FROM authorization_step WHERE authorization_id = $1 ORDER BY step_number ASC`,
		authorizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*AuthorizationStep
	for rows.Next() {
		s, err := scanStep(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return items, rows.Err()
}

func (r *stepRepoPG) CountByAuthorization(ctx context.Context, authorizationID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM authorization_step WHERE authorization_id = $1`, authorizationID).Scan(&n)
	return n, err
}

func (r *stepRepoPG) Update(ctx context.Context, step *AuthorizationStep) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE authorization_step SET status=$2, assigned_to=$3, completed_by=$4,
			completed_at=$5, form_data=$6, notes=$7, updated_at=NOW()
		WHERE id = $1`,
		step.ID, step.Status, step.AssignedTo, step.CompletedBy,
		step.CompletedAt, step.FormData, step.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrStepNotFound
	}
	return nil
}
