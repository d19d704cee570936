package reanimation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callcenter-dashboard/internal/analytics"
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest  = errors.New("reanimation: invalid request")
	ErrNotFound        = errors.New("reanimation: not found")
	ErrNothingToExport = errors.New("reanimation: no new candidates")
)

type Store interface {
	GetProject(ctx context.Context, projectID string) (projects.Project, error)
	ListCalls(ctx context.Context, projectID string) ([]calls.Call, error)

	// ExportedPhones returns every phone of every earlier export of the project.
	ExportedPhones(ctx context.Context, projectID string) (map[string]struct{}, error)
	SaveExport(ctx context.Context, e Export) error
	ListExports(ctx context.Context, projectID string, limit int) ([]Export, error)
	GetExport(ctx context.Context, projectID, exportID string) (Export, error)
}

type Options struct {
	EarlyHangupSeconds int
}

type Service struct {
	store Store
	opts  analytics.ReanimationOptions
	clock func() time.Time
}

func NewService(store Store, opts Options) *Service {
	return &Service{
		store: store,
		opts:  analytics.ReanimationOptions{EarlyHangupSeconds: opts.EarlyHangupSeconds},
		clock: time.Now,
	}
}

// CreateExport picks the project's current candidates, minus phones already
// exported, and stores them as a new export.
func (s *Service) CreateExport(ctx context.Context, projectID, actorUserID string) (Export, error) {
	if projectID == "" {
		return Export{}, ErrInvalidRequest
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			return Export{}, ErrNotFound
		}
		return Export{}, fmt.Errorf("reanimation: load project: %w", err)
	}

	rows, err := s.store.ListCalls(ctx, projectID)
	if err != nil {
		return Export{}, fmt.Errorf("reanimation: load calls: %w", err)
	}
	exported, err := s.store.ExportedPhones(ctx, projectID)
	if err != nil {
		return Export{}, fmt.Errorf("reanimation: load exported phones: %w", err)
	}

	candidates := analytics.ReanimationCandidates(rows, exported, s.opts)
	if len(candidates) == 0 {
		return Export{}, ErrNothingToExport
	}

	e := Export{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		CreatedBy: actorUserID,
		CreatedAt: s.clock().UTC(),
		Phones:    candidates,
	}
	for _, c := range candidates {
		switch c.Reason {
		case analytics.ReasonBusy:
			e.BusyCount++
		case analytics.ReasonEarlyHangup:
			e.EarlyHangupCount++
		}
	}
	if err := s.store.SaveExport(ctx, e); err != nil {
		return Export{}, fmt.Errorf("reanimation: save export: %w", err)
	}

	logger.From(ctx).Info("reanimation export created",
		"export_id", e.ID,
		"project_id", projectID,
		"busy", e.BusyCount,
		"early_hangup", e.EarlyHangupCount,
	)
	return e, nil
}

// ListExports returns export headers, newest first.
func (s *Service) ListExports(ctx context.Context, projectID string, limit int) ([]Export, error) {
	if projectID == "" {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.store.ListExports(ctx, projectID, limit)
}

// GetExport returns one export with its phones.
func (s *Service) GetExport(ctx context.Context, projectID, exportID string) (Export, error) {
	if projectID == "" || exportID == "" {
		return Export{}, ErrInvalidRequest
	}
	return s.store.GetExport(ctx, projectID, exportID)
}
