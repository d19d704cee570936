package pricing

import (
	"context"
	"database/sql"
	"errors"
)

// Repository reads project pricing from Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

// Get returns the pricing row of a project. ok is false when the project has
// no pricing configured; callers treat every price as zero in that case.
func (r *Repository) Get(ctx context.Context, projectID string) (ProjectPricing, bool, error) {
	const q = `
SELECT project_id, price_per_number, price_per_call, price_per_minute, updated_at
FROM project_pricing
WHERE project_id = $1
`
	var p ProjectPricing
	err := r.db.QueryRowContext(ctx, q, projectID).Scan(
		&p.ProjectID,
		&p.PricePerNumber,
		&p.PricePerCall,
		&p.PricePerMinute,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ProjectPricing{ProjectID: projectID}, false, nil
		}
		return ProjectPricing{}, false, err
	}
	return p, true, nil
}
