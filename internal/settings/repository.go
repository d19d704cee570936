package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

// Repository reads the app_settings key-value table.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

// Values returns the stored raw values for keys. Absent keys are absent from the map.
func (r *Repository) Values(ctx context.Context, keys ...string) (map[string]string, error) {
	const q = `
SELECT key, value
FROM app_settings
WHERE key = ANY($1)
`
	rows, err := r.db.QueryContext(ctx, q, pq.Array(keys))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string, len(keys))
	for rows.Next() {
		var k string
		var v sql.NullString
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("read settings: %w", err)
		}
		out[k] = v.String
	}
	return out, rows.Err()
}

// CPLThresholds loads and resolves the CPL bands.
func (r *Repository) CPLThresholds(ctx context.Context) (CPLThresholds, error) {
	values, err := r.Values(ctx, KeyCPLTargetA, KeyCPLTargetB, KeyCPLTargetC)
	if err != nil {
		return CPLThresholds{}, err
	}
	return ResolveCPLThresholds(values), nil
}
