package imports

import (
	"context"
	"sort"
	"sync"

	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/suppliers"
)

// MemoryStore is a simple in-memory store useful for tests.
// It is not intended for production use.
type MemoryStore struct {
	mu sync.Mutex

	Projects  []projects.Project
	Suppliers []suppliers.Supplier
	Numbers   []suppliers.Number
	Calls     []calls.Call

	jobs []Job
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) GetProject(ctx context.Context, projectID string) (projects.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.Projects {
		if p.ID == projectID {
			return p, nil
		}
	}
	return projects.Project{}, projects.ErrNotFound
}

func (s *MemoryStore) GetSupplier(ctx context.Context, projectID, supplierID string) (suppliers.Supplier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sup := range s.Suppliers {
		if sup.ProjectID == projectID && sup.ID == supplierID {
			return sup, nil
		}
	}
	return suppliers.Supplier{}, suppliers.ErrNotFound
}

func (s *MemoryStore) InsertNumbers(ctx context.Context, rows []suppliers.Number) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, r := range rows {
		exists := false
		for _, n := range s.Numbers {
			if n.ProjectID == r.ProjectID && n.SupplierID == r.SupplierID && n.PhoneNormalized == r.PhoneNormalized {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		r.ID = int64(len(s.Numbers) + 1)
		s.Numbers = append(s.Numbers, r)
		inserted++
	}
	return inserted, nil
}

func (s *MemoryStore) InsertCalls(ctx context.Context, rows []calls.Call) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inserted := 0
	for _, r := range rows {
		exists := false
		for _, c := range s.Calls {
			if c.ProjectID == r.ProjectID && c.ExternalCallID == r.ExternalCallID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		r.ID = int64(len(s.Calls) + 1)
		s.Calls = append(s.Calls, r)
		inserted++
	}
	return inserted, nil
}

func (s *MemoryStore) AppendJob(ctx context.Context, j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, j)
	return nil
}

func (s *MemoryStore) ListJobs(ctx context.Context, projectID string, limit int) ([]Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, 0)
	for _, j := range s.jobs {
		if j.ProjectID == projectID {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) Jobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Job, len(s.jobs))
	copy(out, s.jobs)
	return out
}
