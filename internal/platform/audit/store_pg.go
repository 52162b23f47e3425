package audit

import (
	"context"
	"encoding/json"
	"fmt"

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

type storePG struct{ pool *pgxpool.Pool }

// NewStorePG creates a Store backed by the audit_log table.
func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

func (s *storePG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.pool
}

func (s *storePG) Append(ctx context.Context, rec *Record) error {
	var changes, details []byte
	var err error
	if rec.FieldChanges != nil {
		if changes, err = json.Marshal(rec.FieldChanges); err != nil {
			return fmt.Errorf("audit: marshal field changes: %w", err)
		}
	}
	if rec.Details != nil {
		if details, err = json.Marshal(rec.Details); err != nil {
			return fmt.Errorf("audit: marshal details: %w", err)
		}
	}

	_, err = s.conn(ctx).Exec(ctx, `
		INSERT INTO audit_log (id, actor_id, action, resource_type, resource_id,
			before_data, after_data, field_changes, details,
			ip_address, user_agent, recorded_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		rec.ID, rec.ActorID, rec.Action, rec.ResourceType, rec.ResourceID,
		rec.BeforeData, rec.AfterData, changes, details,
		rec.IPAddress, rec.UserAgent, rec.RecordedAt)
	if err != nil {
		return fmt.Errorf("audit: insert record: %w", err)
	}
	return nil
}

const auditCols = `id, actor_id, action, resource_type, resource_id,
	before_data, after_data, field_changes, details,
	ip_address, user_agent, recorded_at`

func (s *storePG) Query(ctx context.Context, params QueryParams, limit, offset int) ([]*Record, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	n := 0
	add := func(clause string, v interface{}) {
		n++
		where += fmt.Sprintf(clause, n)
		args = append(args, v)
	}
	if params.ActorID != "" {
		add(" AND actor_id = $%d", params.ActorID)
	}
	if params.Action != "" {
		add(" AND action = $%d", params.Action)
	}
	if params.ResourceType != "" {
		add(" AND resource_type = $%d", params.ResourceType)
	}
	if params.ResourceID != nil {
		add(" AND resource_id = $%d", *params.ResourceID)
	}
	if params.From != nil {
		add(" AND recorded_at >= $%d", *params.From)
	}
	if params.To != nil {
		add(" AND recorded_at <= $%d", *params.To)
	}

	var total int
	if err := s.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("audit: count records: %w", err)
	}

	query := `SELECT ` + auditCols + ` FROM audit_log` + where +
		fmt.Sprintf(" ORDER BY recorded_at DESC, id DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("audit: query records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var changes, details []byte
	err := row.Scan(&rec.ID, &rec.ActorID, &rec.Action, &rec.ResourceType, &rec.ResourceID,
		&rec.BeforeData, &rec.AfterData, &changes, &details,
		&rec.IPAddress, &rec.UserAgent, &rec.RecordedAt)
	if err != nil {
		return nil, fmt.Errorf("audit: scan record: %w", err)
	}
	if len(changes) > 0 {
		if err := json.Unmarshal(changes, &rec.FieldChanges); err != nil {
			return nil, fmt.Errorf("audit: unmarshal field changes: %w", err)
		}
	}
	if len(details) > 0 {
		if err := json.Unmarshal(details, &rec.Details); err != nil {
			return nil, fmt.Errorf("audit: unmarshal details: %w", err)
		}
	}
	return &rec, nil
}
