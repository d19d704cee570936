package suppliers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"callcenter-dashboard/pkg/utils"
)

var ErrNotFound = errors.New("supplier not found")

// Repository reads suppliers and their delivered numbers.
type Repository struct {
	db       *sql.DB
	pageSize int
}

func NewRepository(db *sql.DB, pageSize int) *Repository {
	return &Repository{db: db, pageSize: utils.PageSize(pageSize)}
}

func (r *Repository) Get(ctx context.Context, projectID, supplierID string) (Supplier, error) {
	const q = `
SELECT id, project_id, name, COALESCE(tag, ''), price_per_contact, is_gck, created_at
FROM suppliers
WHERE project_id = $1 AND id = $2
`
	var s Supplier
	if err := r.db.QueryRowContext(ctx, q, projectID, supplierID).Scan(
		&s.ID,
		&s.ProjectID,
		&s.Name,
		&s.Tag,
		&s.PricePerContact,
		&s.IsGck,
		&s.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Supplier{}, ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

// ListByProject returns the suppliers of a project in creation order.
func (r *Repository) ListByProject(ctx context.Context, projectID string) ([]Supplier, error) {
	const q = `
SELECT id, project_id, name, COALESCE(tag, ''), price_per_contact, is_gck, created_at
FROM suppliers
WHERE project_id = $1
ORDER BY created_at, id
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	out := make([]Supplier, 0)
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Name, &s.Tag, &s.PricePerContact, &s.IsGck, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("list suppliers: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListNumbers returns every supplier number of a project ordered by id.
// Id order is insertion order, which makes phone attribution deterministic.
func (r *Repository) ListNumbers(ctx context.Context, projectID string) ([]Number, error) {
	const q = `
SELECT id, project_id, supplier_id, phone_normalized, phone_raw, is_duplicate_in_project, received_at
FROM supplier_numbers
WHERE project_id = $1 AND id > $2
ORDER BY id
LIMIT $3
`
	out := make([]Number, 0)
	var last int64
	for {
		rows, err := r.db.QueryContext(ctx, q, projectID, last, r.pageSize)
		if err != nil {
			return nil, fmt.Errorf("list supplier numbers: %w", err)
		}
		n := 0
		for rows.Next() {
			var num Number
			if err := rows.Scan(
				&num.ID,
				&num.ProjectID,
				&num.SupplierID,
				&num.PhoneNormalized,
				&num.PhoneRaw,
				&num.IsDuplicateInProject,
				&num.ReceivedAt,
			); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("list supplier numbers: %w", err)
			}
			out = append(out, num)
			last = num.ID
			n++
		}
		err = rows.Err()
		_ = rows.Close()
		if err != nil {
			return nil, fmt.Errorf("list supplier numbers: %w", err)
		}
		if n < r.pageSize {
			return out, nil
		}
	}
}

// InsertNumbers appends supplier numbers in one transaction, ignoring rows
// that already exist for (project, supplier, phone). Returns inserted count.
func (r *Repository) InsertNumbers(ctx context.Context, rows []Number) (int, error) {
	const q = `
INSERT INTO supplier_numbers (
  project_id, supplier_id, phone_normalized, phone_raw, is_duplicate_in_project, received_at
) VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (project_id, supplier_id, phone_normalized) DO NOTHING
`
	inserted := 0
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		for _, n := range rows {
			res, err := tx.ExecContext(ctx, q,
				n.ProjectID,
				n.SupplierID,
				n.PhoneNormalized,
				n.PhoneRaw,
				n.IsDuplicateInProject,
				n.ReceivedAt,
			)
			if err != nil {
				return err
			}
			affected, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(affected)
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("insert supplier numbers: %w", err)
	}
	return inserted, nil
}
