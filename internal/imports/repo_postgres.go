package imports

import (
	"context"
	"database/sql"
	"fmt"

	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/suppliers"
)

// PostgresStore writes imported rows through the table repositories and
// keeps jobs in import_jobs.
type PostgresStore struct {
	db        *sql.DB
	projects  *projects.Repository
	suppliers *suppliers.Repository
	calls     *calls.Repository
}

func NewPostgresStore(db *sql.DB, pageSize int) *PostgresStore {
	return &PostgresStore{
		db:        db,
		projects:  projects.NewRepository(db),
		suppliers: suppliers.NewRepository(db, pageSize),
		calls:     calls.NewRepository(db, pageSize),
	}
}

func (s *PostgresStore) GetProject(ctx context.Context, projectID string) (projects.Project, error) {
	return s.projects.Get(ctx, projectID)
}

func (s *PostgresStore) GetSupplier(ctx context.Context, projectID, supplierID string) (suppliers.Supplier, error) {
	return s.suppliers.Get(ctx, projectID, supplierID)
}

func (s *PostgresStore) InsertNumbers(ctx context.Context, rows []suppliers.Number) (int, error) {
	return s.suppliers.InsertNumbers(ctx, rows)
}

func (s *PostgresStore) InsertCalls(ctx context.Context, rows []calls.Call) (int, error) {
	return s.calls.InsertBatch(ctx, rows)
}

func (s *PostgresStore) AppendJob(ctx context.Context, j Job) error {
	const q = `
INSERT INTO import_jobs (
  id, project_id, supplier_id, kind, file_name,
  total_rows, inserted_rows, skipped_rows, duplicate_rows,
  actor_user_id, created_at
) VALUES ($1,$2,NULLIF($3,''),$4,NULLIF($5,''),$6,$7,$8,$9,NULLIF($10,''),$11)
`
	_, err := s.db.ExecContext(ctx, q,
		j.ID,
		j.ProjectID,
		j.SupplierID,
		string(j.Kind),
		j.FileName,
		j.TotalRows,
		j.InsertedRows,
		j.SkippedRows,
		j.DuplicateRows,
		j.ActorUserID,
		j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert import job: %w", err)
	}
	return nil
}

// ListJobs returns the latest jobs of a project, newest first.
func (s *PostgresStore) ListJobs(ctx context.Context, projectID string, limit int) ([]Job, error) {
	const q = `
SELECT id, project_id, COALESCE(supplier_id,''), kind, COALESCE(file_name,''),
       total_rows, inserted_rows, skipped_rows, duplicate_rows,
       COALESCE(actor_user_id,''), created_at
FROM import_jobs
WHERE project_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2
`
	rows, err := s.db.QueryContext(ctx, q, projectID, limit)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	out := make([]Job, 0)
	for rows.Next() {
		var j Job
		var kind string
		if err := rows.Scan(
			&j.ID,
			&j.ProjectID,
			&j.SupplierID,
			&kind,
			&j.FileName,
			&j.TotalRows,
			&j.InsertedRows,
			&j.SkippedRows,
			&j.DuplicateRows,
			&j.ActorUserID,
			&j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list import jobs: %w", err)
		}
		j.Kind = Kind(kind)
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	return out, nil
}
