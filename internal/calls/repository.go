package calls

import (
	"context"
	"database/sql"
	"fmt"

	"callcenter-dashboard/pkg/utils"
)

// Repository reads and appends call records.
//
// Reads page through the table with keyset pagination, one page at a time,
// and return the fully materialized slice.
type Repository struct {
	db       *sql.DB
	pageSize int
}

func NewRepository(db *sql.DB, pageSize int) *Repository {
	return &Repository{db: db, pageSize: utils.PageSize(pageSize)}
}

// ListByProject returns every call of a project ordered by id.
func (r *Repository) ListByProject(ctx context.Context, projectID string) ([]Call, error) {
	const q = `
SELECT id, project_id, phone_normalized, phone_raw, status, is_lead, call_at,
       duration_seconds, call_list, end_reason, call_attempt_number,
       external_call_id, supplier_number_id, created_at
FROM calls
WHERE project_id = $1 AND id > $2
ORDER BY id
LIMIT $3
`
	out := make([]Call, 0)
	var last int64
	for {
		page, err := r.page(ctx, q, projectID, last)
		if err != nil {
			return nil, fmt.Errorf("list calls: %w", err)
		}
		out = append(out, page...)
		if len(page) < r.pageSize {
			return out, nil
		}
		last = page[len(page)-1].ID
	}
}

func (r *Repository) page(ctx context.Context, q, projectID string, after int64) ([]Call, error) {
	rows, err := r.db.QueryContext(ctx, q, projectID, after, r.pageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Call, 0, r.pageSize)
	for rows.Next() {
		var (
			c         Call
			status    sql.NullString
			callList  sql.NullString
			endReason sql.NullString
			numberID  sql.NullInt64
		)
		if err := rows.Scan(
			&c.ID,
			&c.ProjectID,
			&c.PhoneNormalized,
			&c.PhoneRaw,
			&status,
			&c.IsLead,
			&c.CallAt,
			&c.DurationSeconds,
			&callList,
			&endReason,
			&c.CallAttemptNumber,
			&c.ExternalCallID,
			&numberID,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.CallAt = WallClock(c.CallAt)
		c.Status = status.String
		c.CallList = callList.String
		c.EndReason = endReason.String
		if numberID.Valid {
			id := numberID.Int64
			c.SupplierNumberID = &id
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// InsertBatch appends calls inside one transaction. Rows whose
// (project_id, external_call_id) already exists are ignored.
// It returns the number of rows actually inserted.
func (r *Repository) InsertBatch(ctx context.Context, rows []Call) (int, error) {
	const q = `
INSERT INTO calls (
  project_id, phone_normalized, phone_raw, status, is_lead, call_at,
  duration_seconds, call_list, end_reason, call_attempt_number, external_call_id
) VALUES (
  $1,$2,$3,NULLIF($4,''),$5,$6,$7,NULLIF($8,''),NULLIF($9,''),$10,$11
)
ON CONFLICT (project_id, external_call_id) DO NOTHING
`
	inserted := 0
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		for _, c := range rows {
			res, err := tx.ExecContext(ctx, q,
				c.ProjectID,
				c.PhoneNormalized,
				c.PhoneRaw,
				c.Status,
				c.IsLead,
				WallClock(c.CallAt),
				c.DurationSeconds,
				c.CallList,
				c.EndReason,
				c.CallAttemptNumber,
				c.ExternalCallID,
			)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert calls: %w", err)
	}
	return inserted, nil
}
