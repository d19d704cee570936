package imports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"callcenter-dashboard/internal/analytics"
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/suppliers"
	"callcenter-dashboard/pkg/logger"
	"callcenter-dashboard/pkg/telemetry"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("imports: invalid request")
	ErrNotFound       = errors.New("imports: not found")
	// ErrGCKBoundary rejects GCK numbers sent through the regular path and
	// the other way around.
	ErrGCKBoundary = errors.New("imports: supplier is on the other side of the gck boundary")
)

// Store is the persistence contract of imports.
//
// Jobs MUST be append-only. No Update/Delete methods are provided.
type Store interface {
	GetProject(ctx context.Context, projectID string) (projects.Project, error)
	GetSupplier(ctx context.Context, projectID, supplierID string) (suppliers.Supplier, error)
	InsertNumbers(ctx context.Context, rows []suppliers.Number) (int, error)
	InsertCalls(ctx context.Context, rows []calls.Call) (int, error)

	AppendJob(ctx context.Context, j Job) error
	ListJobs(ctx context.Context, projectID string, limit int) ([]Job, error)
}

// Invalidator drops derived data of a project after new rows land.
type Invalidator interface {
	InvalidateProject(ctx context.Context, projectID string) error
}

type Options struct {
	Invalidator Invalidator
	Metrics     *telemetry.Metrics
}

type Service struct {
	store       Store
	invalidator Invalidator
	metrics     *telemetry.Metrics
	clock       func() time.Time
}

func NewService(store Store, opts Options) *Service {
	return &Service{store: store, invalidator: opts.Invalidator, metrics: opts.Metrics, clock: time.Now}
}

// Import normalizes and stores one batch and records it as a Job.
func (s *Service) Import(ctx context.Context, req Request) (Job, error) {
	if s.store == nil {
		return Job{}, errors.New("imports: store not configured")
	}
	if req.ProjectID == "" || !req.Kind.Valid() {
		return Job{}, ErrInvalidRequest
	}

	project, err := s.store.GetProject(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			return Job{}, ErrNotFound
		}
		return Job{}, fmt.Errorf("imports: load project: %w", err)
	}

	job := Job{
		ID:          uuid.NewString(),
		ProjectID:   req.ProjectID,
		Kind:        req.Kind,
		FileName:    req.FileName,
		ActorUserID: req.ActorUserID,
		CreatedAt:   s.clock().UTC(),
	}

	switch req.Kind {
	case KindCalls:
		if len(req.Calls) == 0 {
			return Job{}, ErrInvalidRequest
		}
		err = s.importCalls(ctx, req, &job)
	default:
		if req.SupplierID == "" || len(req.Numbers) == 0 {
			return Job{}, ErrInvalidRequest
		}
		job.SupplierID = req.SupplierID
		err = s.importNumbers(ctx, project, req, &job)
	}
	if err != nil {
		return Job{}, err
	}
	job.SkippedRows = job.TotalRows - job.InsertedRows
	s.metrics.ImportedRows(string(job.Kind), job.InsertedRows, job.SkippedRows)

	if err := s.store.AppendJob(ctx, job); err != nil {
		return Job{}, fmt.Errorf("imports: append job: %w", err)
	}

	log := logger.From(ctx)
	if s.invalidator != nil {
		if err := s.invalidator.InvalidateProject(ctx, job.ProjectID); err != nil {
			log.Warn("report cache invalidation failed", "project_id", job.ProjectID, "err", err)
		}
	}
	log.Info("import finished",
		"job_id", job.ID,
		"project_id", job.ProjectID,
		"kind", job.Kind,
		"total", job.TotalRows,
		"inserted", job.InsertedRows,
		"duplicates", job.DuplicateRows,
	)
	return job, nil
}

func (s *Service) ListJobs(ctx context.Context, projectID string, limit int) ([]Job, error) {
	if projectID == "" {
		return nil, ErrInvalidRequest
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.store.ListJobs(ctx, projectID, limit)
}

func (s *Service) importNumbers(ctx context.Context, project projects.Project, req Request, job *Job) error {
	sup, err := s.store.GetSupplier(ctx, req.ProjectID, req.SupplierID)
	if err != nil {
		if errors.Is(err, suppliers.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("imports: load supplier: %w", err)
	}
	gckPath := req.Kind == KindGCKNumbers
	if sup.IsGck != gckPath || (gckPath && !project.HasGck) {
		return ErrGCKBoundary
	}

	now := job.CreatedAt
	rows := make([]suppliers.Number, 0, len(req.Numbers))
	seen := make(map[string]int, len(req.Numbers))
	for _, r := range req.Numbers {
		job.TotalRows++
		phone := analytics.NormalizePhone(r.Phone)
		if phone == "" {
			continue
		}
		if i, dup := seen[phone]; dup {
			rows[i].IsDuplicateInProject = true
			job.DuplicateRows++
			continue
		}
		received := now
		if r.ReceivedAt != nil && !r.ReceivedAt.IsZero() {
			received = *r.ReceivedAt
		}
		seen[phone] = len(rows)
		rows = append(rows, suppliers.Number{
			ProjectID:       req.ProjectID,
			SupplierID:      sup.ID,
			PhoneNormalized: phone,
			PhoneRaw:        strings.TrimSpace(r.Phone),
			ReceivedAt:      received,
		})
	}

	n, err := s.store.InsertNumbers(ctx, rows)
	if err != nil {
		return fmt.Errorf("imports: %w", err)
	}
	job.InsertedRows = n
	return nil
}

func (s *Service) importCalls(ctx context.Context, req Request, job *Job) error {
	rows := make([]calls.Call, 0, len(req.Calls))
	seen := make(map[string]struct{}, len(req.Calls))
	for _, r := range req.Calls {
		job.TotalRows++
		phone := analytics.NormalizePhone(r.Phone)
		if phone == "" || r.CallAt.IsZero() {
			continue
		}
		ext := strings.TrimSpace(r.ExternalCallID)
		if ext == "" {
			// Re-importing the same CDR file must not double the calls.
			ext = phone + "|" + r.CallAt.UTC().Format(time.RFC3339)
		}
		if _, dup := seen[ext]; dup {
			job.DuplicateRows++
			continue
		}
		seen[ext] = struct{}{}

		duration := r.DurationSeconds
		if duration < 0 {
			duration = 0
		}
		attempt := r.CallAttemptNumber
		if attempt <= 0 {
			attempt = 1
		}
		rows = append(rows, calls.Call{
			ProjectID:         req.ProjectID,
			PhoneNormalized:   phone,
			PhoneRaw:          strings.TrimSpace(r.Phone),
			Status:            strings.TrimSpace(r.Status),
			IsLead:            r.IsLead,
			CallAt:            calls.WallClock(r.CallAt),
			DurationSeconds:   duration,
			CallList:          strings.TrimSpace(r.CallList),
			EndReason:         strings.TrimSpace(r.EndReason),
			CallAttemptNumber: attempt,
			ExternalCallID:    ext,
		})
	}

	n, err := s.store.InsertCalls(ctx, rows)
	if err != nil {
		return fmt.Errorf("imports: %w", err)
	}
	job.InsertedRows = n
	return nil
}
