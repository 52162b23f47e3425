package forms

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

type templateRepoPG struct{ pool *pgxpool.Pool }

func NewTemplateRepoPG(pool *pgxpool.Pool) TemplateRepository {
	return &templateRepoPG{pool: pool}
}

func (r *templateRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const templateCols = `id, state, form_type, name, payer, version, fields, created_at, updated_at`

func scanTemplate(row pgx.Row) (*StateFormTemplate, error) {
	var t StateFormTemplate
	err := row.Scan(&t.ID, &t.State, &t.FormType, &t.Name, &t.Payer, &t.Version,
		&t.Fields, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *templateRepoPG) Upsert(ctx context.Context, t *StateFormTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO state_form_template (id, state, form_type, name, payer, version, fields)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (state, form_type) DO UPDATE SET
			name = EXCLUDED.name,
			payer = EXCLUDED.payer,
			version = state_form_template.version + 1,
			fields = EXCLUDED.fields,
			updated_at = NOW()
		RETURNING id, version`,
		t.ID, t.State, t.FormType, t.Name, t.Payer, t.Version, t.Fields).
		Scan(&t.ID, &t.Version)
}

func (r *templateRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*StateFormTemplate, error) {
	t, err := scanTemplate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+templateCols+` FROM state_form_template WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *templateRepoPG) GetByStateAndType(ctx context.Context, state, formType string) (*StateFormTemplate, error) {
	t, err := scanTemplate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+templateCols+` FROM state_form_template WHERE state = $1 AND form_type = $2`,
		state, formType))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *templateRepoPG) List(ctx context.Context, limit, offset int) ([]*StateFormTemplate, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM state_form_template`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+templateCols+` FROM state_form_template ORDER BY state, form_type LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*StateFormTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *templateRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM state_form_template WHERE id = $1`, id)
	return err
}

type packageRepoPG struct{ pool *pgxpool.Pool }

func NewPackageRepoPG(pool *pgxpool.Pool) PackageRepository {
	return &packageRepoPG{pool: pool}
}

func (r *packageRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const packageCols = `id, authorization_id, state, template_id, data, generated_by, generated_at`

func scanPackage(row pgx.Row) (*FormPackage, error) {
	var p FormPackage
	err := row.Scan(&p.ID, &p.AuthorizationID, &p.State, &p.TemplateID,
		&p.Data, &p.GeneratedBy, &p.GeneratedAt)
	return &p, err
}

func (r *packageRepoPG) Create(ctx context.Context, p *FormPackage) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO form_package (id, authorization_id, state, template_id, data, generated_by, generated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.AuthorizationID, p.State, p.TemplateID, p.Data, p.GeneratedBy, p.GeneratedAt)
	return err
}

func (r *packageRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*FormPackage, error) {
	p, err := scanPackage(r.conn(ctx).QueryRow(ctx,
		`SELECT `+packageCols+` FROM form_package WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *packageRepoPG) ListByAuthorization(ctx context.Context, authorizationID uuid.UUID) ([]*FormPackage, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+packageCols+` FROM form_package WHERE authorization_id = $1 ORDER BY generated_at DESC`,
		authorizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*FormPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
