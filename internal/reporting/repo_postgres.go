package reporting

import (
	"context"
	"database/sql"

	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/pricing"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/settings"
	"callcenter-dashboard/internal/suppliers"
)

// PostgresRepo reads reporting inputs through the per-table repositories.
type PostgresRepo struct {
	projects  *projects.Repository
	pricing   *pricing.Repository
	suppliers *suppliers.Repository
	calls     *calls.Repository
	settings  *settings.Repository
}

func NewPostgresRepo(db *sql.DB, pageSize int) *PostgresRepo {
	return &PostgresRepo{
		projects:  projects.NewRepository(db),
		pricing:   pricing.NewRepository(db),
		suppliers: suppliers.NewRepository(db, pageSize),
		calls:     calls.NewRepository(db, pageSize),
		settings:  settings.NewRepository(db),
	}
}

func (r *PostgresRepo) GetProject(ctx context.Context, projectID string) (projects.Project, error) {
	return r.projects.Get(ctx, projectID)
}

func (r *PostgresRepo) ListProjects(ctx context.Context, ids []string) ([]projects.Project, error) {
	return r.projects.List(ctx, ids)
}

// GetPricing treats a project without a pricing row as free.
func (r *PostgresRepo) GetPricing(ctx context.Context, projectID string) (pricing.ProjectPricing, error) {
	p, _, err := r.pricing.Get(ctx, projectID)
	return p, err
}

func (r *PostgresRepo) ListSuppliers(ctx context.Context, projectID string) ([]suppliers.Supplier, error) {
	return r.suppliers.ListByProject(ctx, projectID)
}

func (r *PostgresRepo) ListSupplierNumbers(ctx context.Context, projectID string) ([]suppliers.Number, error) {
	return r.suppliers.ListNumbers(ctx, projectID)
}

func (r *PostgresRepo) ListCalls(ctx context.Context, projectID string) ([]calls.Call, error) {
	return r.calls.ListByProject(ctx, projectID)
}

func (r *PostgresRepo) CPLThresholds(ctx context.Context) (settings.CPLThresholds, error) {
	return r.settings.CPLThresholds(ctx)
}
