package reporting

import (
	"context"
	"sync"

	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/pricing"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/settings"
	"callcenter-dashboard/internal/suppliers"
)

// MemoryRepo is a simple in-memory reporting repository for tests and early development.
// It enforces project isolation on reads.

type MemoryRepo struct {
	mu sync.Mutex

	Projects  []projects.Project
	Pricing   map[string]pricing.ProjectPricing // key: project_id
	Suppliers []suppliers.Supplier
	Numbers   []suppliers.Number
	Calls     []calls.Call
	Settings  map[string]string

	// CallLoads counts ListCalls invocations.
	CallLoads int
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{Pricing: map[string]pricing.ProjectPricing{}, Settings: map[string]string{}}
}

func (r *MemoryRepo) GetProject(ctx context.Context, projectID string) (projects.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.Projects {
		if p.ID == projectID {
			return p, nil
		}
	}
	return projects.Project{}, projects.ErrNotFound
}

func (r *MemoryRepo) ListProjects(ctx context.Context, ids []string) ([]projects.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var want map[string]struct{}
	if ids != nil {
		want = make(map[string]struct{}, len(ids))
		for _, id := range ids {
			want[id] = struct{}{}
		}
	}
	out := make([]projects.Project, 0)
	for _, p := range r.Projects {
		if want != nil {
			if _, ok := want[p.ID]; !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *MemoryRepo) GetPricing(ctx context.Context, projectID string) (pricing.ProjectPricing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Pricing[projectID]
	if !ok {
		return pricing.ProjectPricing{ProjectID: projectID}, nil
	}
	return p, nil
}

func (r *MemoryRepo) ListSuppliers(ctx context.Context, projectID string) ([]suppliers.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]suppliers.Supplier, 0)
	for _, s := range r.Suppliers {
		if s.ProjectID == projectID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListSupplierNumbers(ctx context.Context, projectID string) ([]suppliers.Number, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]suppliers.Number, 0)
	for _, n := range r.Numbers {
		if n.ProjectID == projectID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ListCalls(ctx context.Context, projectID string) ([]calls.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CallLoads++
	out := make([]calls.Call, 0)
	for _, c := range r.Calls {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryRepo) CPLThresholds(ctx context.Context) (settings.CPLThresholds, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return settings.ResolveCPLThresholds(r.Settings), nil
}
