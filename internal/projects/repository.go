package projects

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var ErrNotFound = errors.New("project not found")

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

func (r *Repository) Get(ctx context.Context, projectID string) (Project, error) {
	const q = `
SELECT id, name, has_gck, created_at
FROM projects
WHERE id = $1
`
	var p Project
	if err := r.db.QueryRowContext(ctx, q, projectID).Scan(&p.ID, &p.Name, &p.HasGck, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}
	return p, nil
}

// List returns projects ordered by name. A nil ids slice lists every project;
// an empty non-nil slice lists nothing.
func (r *Repository) List(ctx context.Context, ids []string) ([]Project, error) {
	if ids != nil && len(ids) == 0 {
		return []Project{}, nil
	}

	var (
		rows *sql.Rows
		err  error
	)
	if ids == nil {
		rows, err = r.db.QueryContext(ctx, `
SELECT id, name, has_gck, created_at
FROM projects
ORDER BY name, id
`)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT id, name, has_gck, created_at
FROM projects
WHERE id = ANY($1)
ORDER BY name, id
`, pq.Array(ids))
	}
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]Project, 0)
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.HasGck, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
