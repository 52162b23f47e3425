package authorization

import (
	"context"
	"errors"
	"fmt"

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const authCols = `id, patient_ref, member_id, payer_name, treatment_type, diagnosis_code,
	state, status, current_step, form_package_id, created_by, created_at, updated_at`

func scanAuthorization(row pgx.Row) (*Authorization, error) {
	var a Authorization
	err := row.Scan(&a.ID, &a.PatientRef, &a.MemberID, &a.PayerName, &a.TreatmentType, &a.DiagnosisCode,
		&a.State, &a.Status, &a.CurrentStep, &a.FormPackageID, &a.CreatedBy, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Authorization) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prior_authorization (id, patient_ref, member_id, payer_name, treatment_type,
			diagnosis_code, state, status, current_step, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		a.ID, a.PatientRef, a.MemberID, a.PayerName, a.TreatmentType,
		a.DiagnosisCode, a.State, a.Status, a.CurrentStep, a.CreatedBy)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Authorization, error) {
	a, err := scanAuthorization(r.conn(ctx).QueryRow(ctx,
		`SELECT `+authCols+` FROM prior_authorization WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Authorization) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE prior_authorization SET member_id=$2, payer_name=$3, treatment_type=$4,
			diagnosis_code=$5, state=$6, status=$7, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.MemberID, a.PayerName, a.TreatmentType,
		a.DiagnosisCode, a.State, a.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, filters Filters, limit, offset int) ([]*Authorization, int, error) {
	where := ""
	args := []interface{}{}
	add := func(clause string, val interface{}) {
		args = append(args, val)
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, len(args))
	}
	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	if filters.PatientRef != "" {
		add("patient_ref = $%d", filters.PatientRef)
	}
	if filters.State != "" {
		add("state = $%d", filters.State)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM prior_authorization`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT `+authCols+` FROM prior_authorization`+where+` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
			len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Authorization
	for rows.Next() {
		a, err := scanAuthorization(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) CurrentStepNumber(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT current_step FROM prior_authorization WHERE id = $1`, id).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return n, err
}

func (r *repoPG) SetCurrentStepNumber(ctx context.Context, id uuid.UUID, n int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE prior_authorization SET current_step = $2, updated_at = NOW() WHERE id = $1`, id, n)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) SetFormPackage(ctx context.Context, id uuid.UUID, packageID uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE prior_authorization SET form_package_id = $2, updated_at = NOW() WHERE id = $1`, id, packageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
