package reanimation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"callcenter-dashboard/internal/analytics"
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/pkg/utils"
)

type PostgresStore struct {
	db       *sql.DB
	projects *projects.Repository
	calls    *calls.Repository
}

func NewPostgresStore(db *sql.DB, pageSize int) *PostgresStore {
	return &PostgresStore{db: db, projects: projects.NewRepository(db), calls: calls.NewRepository(db, pageSize)}
}

func (s *PostgresStore) GetProject(ctx context.Context, projectID string) (projects.Project, error) {
	return s.projects.Get(ctx, projectID)
}

func (s *PostgresStore) ListCalls(ctx context.Context, projectID string) ([]calls.Call, error) {
	return s.calls.ListByProject(ctx, projectID)
}

func (s *PostgresStore) ExportedPhones(ctx context.Context, projectID string) (map[string]struct{}, error) {
	const q = `
SELECT DISTINCT p.phone_normalized
FROM reanimation_export_phones p
JOIN reanimation_exports e ON e.id = p.export_id
WHERE e.project_id = $1
`
	rows, err := s.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("list exported phones: %w", err)
	}
	defer rows.Close()

	out := make(map[string]struct{})
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, fmt.Errorf("list exported phones: %w", err)
		}
		out[phone] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list exported phones: %w", err)
	}
	return out, nil
}

// SaveExport writes the export header and its phones in one transaction.
func (s *PostgresStore) SaveExport(ctx context.Context, e Export) error {
	const insertExport = `
INSERT INTO reanimation_exports (id, project_id, created_by, created_at, busy_count, early_hangup_count)
VALUES ($1,$2,NULLIF($3,''),$4,$5,$6)
`
	const insertPhone = `
INSERT INTO reanimation_export_phones (export_id, phone_normalized, phone_raw, reason, attempts, last_call_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	return utils.WithTx(ctx, s.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, insertExport,
			e.ID, e.ProjectID, e.CreatedBy, e.CreatedAt, e.BusyCount, e.EarlyHangupCount,
		); err != nil {
			return fmt.Errorf("insert reanimation export: %w", err)
		}
		for _, p := range e.Phones {
			if _, err := tx.ExecContext(ctx, insertPhone,
				e.ID, p.Phone, p.PhoneRaw, string(p.Reason), p.Attempts, calls.WallClock(p.LastCallAt),
			); err != nil {
				return fmt.Errorf("insert reanimation phone: %w", err)
			}
		}
		return nil
	})
}

const selectExport = `
SELECT id, project_id, COALESCE(created_by,''), created_at, busy_count, early_hangup_count
FROM reanimation_exports
`

func (s *PostgresStore) ListExports(ctx context.Context, projectID string, limit int) ([]Export, error) {
	rows, err := s.db.QueryContext(ctx, selectExport+`WHERE project_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list reanimation exports: %w", err)
	}
	defer rows.Close()

	out := make([]Export, 0)
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.CreatedBy, &e.CreatedAt, &e.BusyCount, &e.EarlyHangupCount); err != nil {
			return nil, fmt.Errorf("list reanimation exports: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reanimation exports: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetExport(ctx context.Context, projectID, exportID string) (Export, error) {
	var e Export
	err := s.db.QueryRowContext(ctx, selectExport+`WHERE project_id = $1 AND id = $2`, projectID, exportID).
		Scan(&e.ID, &e.ProjectID, &e.CreatedBy, &e.CreatedAt, &e.BusyCount, &e.EarlyHangupCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Export{}, ErrNotFound
		}
		return Export{}, fmt.Errorf("get reanimation export: %w", err)
	}

	const q = `
SELECT phone_normalized, phone_raw, reason, attempts, last_call_at
FROM reanimation_export_phones
WHERE export_id = $1
ORDER BY phone_normalized
`
	rows, err := s.db.QueryContext(ctx, q, exportID)
	if err != nil {
		return Export{}, fmt.Errorf("get reanimation phones: %w", err)
	}
	defer rows.Close()

	e.Phones = make([]analytics.ReanimationCandidate, 0)
	for rows.Next() {
		var p analytics.ReanimationCandidate
		var reason string
		if err := rows.Scan(&p.Phone, &p.PhoneRaw, &reason, &p.Attempts, &p.LastCallAt); err != nil {
			return Export{}, fmt.Errorf("get reanimation phones: %w", err)
		}
		p.LastCallAt = calls.WallClock(p.LastCallAt)
		p.Reason = analytics.ReanimationReason(reason)
		e.Phones = append(e.Phones, p)
	}
	if err := rows.Err(); err != nil {
		return Export{}, fmt.Errorf("get reanimation phones: %w", err)
	}
	return e, nil
}
