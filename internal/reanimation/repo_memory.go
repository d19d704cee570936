package reanimation

import (
	"context"
	"sort"
	"sync"

	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
)

// MemoryStore keeps exports in memory. Tests only.
type MemoryStore struct {
	mu sync.Mutex

	Projects []projects.Project
	Calls    []calls.Call

	exports []Export
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

func (s *MemoryStore) ListCalls(ctx context.Context, projectID string) ([]calls.Call, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]calls.Call, 0)
	for _, c := range s.Calls {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *MemoryStore) ExportedPhones(ctx context.Context, projectID string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{})
	for _, e := range s.exports {
		if e.ProjectID != projectID {
			continue
		}
		for _, p := range e.Phones {
			out[p.Phone] = struct{}{}
		}
	}
	return out, nil
}

func (s *MemoryStore) SaveExport(ctx context.Context, e Export) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exports = append(s.exports, e)
	return nil
}

func (s *MemoryStore) ListExports(ctx context.Context, projectID string, limit int) ([]Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Export, 0)
	for _, e := range s.exports {
		if e.ProjectID == projectID {
			e.Phones = nil
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) GetExport(ctx context.Context, projectID, exportID string) (Export, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.exports {
		if e.ProjectID == projectID && e.ID == exportID {
			return e, nil
		}
	}
	return Export{}, ErrNotFound
}
