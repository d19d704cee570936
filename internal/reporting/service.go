package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"callcenter-dashboard/internal/analytics"
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/pricing"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/settings"
	"callcenter-dashboard/internal/suppliers"
	"callcenter-dashboard/pkg/logger"
	"callcenter-dashboard/pkg/telemetry"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRequest = errors.New("reporting: invalid request")
	ErrNotFound       = errors.New("reporting: not found")
)

// Repository abstracts data access for reporting.
//
// Every list is already scoped to one project and fully materialized.
// Numbers and calls come back in insertion (id) order.
type Repository interface {
	GetProject(ctx context.Context, projectID string) (projects.Project, error)
	ListProjects(ctx context.Context, ids []string) ([]projects.Project, error)
	GetPricing(ctx context.Context, projectID string) (pricing.ProjectPricing, error)
	ListSuppliers(ctx context.Context, projectID string) ([]suppliers.Supplier, error)
	ListSupplierNumbers(ctx context.Context, projectID string) ([]suppliers.Number, error)
	ListCalls(ctx context.Context, projectID string) ([]calls.Call, error)
	CPLThresholds(ctx context.Context) (settings.CPLThresholds, error)
}

type Options struct {
	// Cache is optional. Without it every report is rebuilt.
	Cache   Cache
	Metrics *telemetry.Metrics
}

type Service struct {
	repo    Repository
	cache   Cache
	metrics *telemetry.Metrics
}

func NewService(repo Repository, opts Options) *Service {
	return &Service{repo: repo, cache: opts.Cache, metrics: opts.Metrics}
}

// projectData is everything a single-project report is built from.
type projectData struct {
	project   projects.Project
	pricing   pricing.ProjectPricing
	suppliers []suppliers.Supplier
	numbers   []suppliers.Number
	calls     []calls.Call
}

func (s *Service) ProjectSummary(ctx context.Context, req ProjectRequest) (ProjectSummary, error) {
	if err := validateProjectRequest(req); err != nil {
		return ProjectSummary{}, err
	}
	return cached(ctx, s, KindSummary, req.ProjectID, req, func(ctx context.Context) (ProjectSummary, error) {
		d, err := s.loadProject(ctx, req.ProjectID)
		if err != nil {
			return ProjectSummary{}, err
		}
		filtered := req.Filter.Apply(d.calls)
		return ProjectSummary{
			Project:     d.project,
			Stats:       analytics.Aggregate(filtered, analytics.DateFilter{}),
			Cost:        analytics.AllocateCost(d.suppliers, d.numbers, filtered, d.pricing),
			Attribution: analytics.AttributeSuppliers(d.project, d.suppliers, d.numbers, d.calls, req.Filter),
		}, nil
	})
}

// SupplierReport returns one supplier's funnel, spend and call-list breakdown.
// For the GCK pseudo-supplier the spend sums every GCK supplier at its own
// price and PricePerContact is the effective price per received number.
func (s *Service) SupplierReport(ctx context.Context, req SupplierReportRequest) (SupplierReport, error) {
	if err := validateProjectRequest(req.ProjectRequest); err != nil {
		return SupplierReport{}, err
	}
	if req.SupplierID == "" {
		return SupplierReport{}, ErrInvalidRequest
	}
	return cached(ctx, s, KindSupplier, req.ProjectID, req, func(ctx context.Context) (SupplierReport, error) {
		d, err := s.loadProject(ctx, req.ProjectID)
		if err != nil {
			return SupplierReport{}, err
		}
		attr := analytics.AttributeSuppliers(d.project, d.suppliers, d.numbers, d.calls, req.Filter)

		var funnel *analytics.SupplierFunnel
		members := make(map[string]suppliers.Supplier)
		if req.SupplierID == analytics.GCKSupplierID {
			funnel = attr.GCK
			for _, sup := range d.suppliers {
				if sup.IsGck {
					members[sup.ID] = sup
				}
			}
		} else {
			for i := range attr.Suppliers {
				if attr.Suppliers[i].SupplierID == req.SupplierID {
					funnel = &attr.Suppliers[i]
				}
			}
			for _, sup := range d.suppliers {
				if sup.ID == req.SupplierID {
					members[sup.ID] = sup
				}
			}
		}
		if funnel == nil {
			return SupplierReport{}, ErrNotFound
		}

		spent := decimal.Zero
		for _, f := range attr.Suppliers {
			if sup, ok := members[f.SupplierID]; ok {
				spent = spent.Add(analytics.Spend(f.Received, sup.PricePerContact))
			}
		}
		price := decimal.Zero
		if p := analytics.PerUnit(spent, funnel.Received); p != nil {
			price = *p
		}

		owners := analytics.PhoneOwners(d.numbers)
		mine := make([]calls.Call, 0)
		for _, c := range req.Filter.Apply(d.calls) {
			if _, ok := members[owners[c.PhoneNormalized]]; ok {
				mine = append(mine, c)
			}
		}

		return SupplierReport{
			Funnel:          *funnel,
			PricePerContact: price,
			Spent:           spent,
			CostPerLead:     analytics.PerUnit(spent, funnel.Leads),
			CallLists:       analytics.GroupAndAggregate(mine, analytics.ByCallList, analytics.FlatPrice(price)),
		}, nil
	})
}

// CallListReport groups the project's calls by call list, priced at the
// project's per-number price.
func (s *Service) CallListReport(ctx context.Context, req ProjectRequest) ([]analytics.GroupRow, error) {
	if err := validateProjectRequest(req); err != nil {
		return nil, err
	}
	return cached(ctx, s, KindCallLists, req.ProjectID, req, func(ctx context.Context) ([]analytics.GroupRow, error) {
		d, err := s.loadCalls(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		return analytics.GroupAndAggregate(
			req.Filter.Apply(d.calls),
			analytics.ByCallList,
			analytics.FlatPrice(d.pricing.PricePerNumber),
		), nil
	})
}

// CallListDays breaks one call list down by call date.
func (s *Service) CallListDays(ctx context.Context, req CallListDaysRequest) ([]analytics.GroupRow, error) {
	if err := validateProjectRequest(req.ProjectRequest); err != nil {
		return nil, err
	}
	if req.CallList == "" {
		return nil, ErrInvalidRequest
	}
	return cached(ctx, s, KindCallListDays, req.ProjectID, req, func(ctx context.Context) ([]analytics.GroupRow, error) {
		d, err := s.loadCalls(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		return analytics.GroupAndAggregate(
			req.Filter.Apply(d.calls),
			analytics.InCallList(req.CallList, analytics.ByDay),
			analytics.FlatPrice(d.pricing.PricePerNumber),
		), nil
	})
}

// SupplierComparison compares suppliers side by side, each at its own price.
// Rows follow supplier order; suppliers without attributed calls are left out.
func (s *Service) SupplierComparison(ctx context.Context, req ProjectRequest) ([]SupplierComparisonRow, error) {
	if err := validateProjectRequest(req); err != nil {
		return nil, err
	}
	return cached(ctx, s, KindSuppliers, req.ProjectID, req, func(ctx context.Context) ([]SupplierComparisonRow, error) {
		d, err := s.loadProject(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		prices := make(map[string]decimal.Decimal, len(d.suppliers))
		for _, sup := range d.suppliers {
			prices[sup.ID] = sup.PricePerContact
		}
		rows := analytics.GroupAndAggregate(
			req.Filter.Apply(d.calls),
			analytics.BySupplier(analytics.PhoneOwners(d.numbers)),
			func(id string) decimal.Decimal { return prices[id] },
		)
		byID := make(map[string]analytics.GroupRow, len(rows))
		for _, r := range rows {
			byID[r.Key] = r
		}

		out := make([]SupplierComparisonRow, 0, len(rows))
		for _, sup := range d.suppliers {
			r, ok := byID[sup.ID]
			if !ok {
				continue
			}
			out = append(out, SupplierComparisonRow{GroupRow: r, Name: sup.Name, IsGck: sup.IsGck})
		}
		return out, nil
	})
}

// PeriodReport rolls cost and funnel trends of the scoped projects up by
// day, week or month.
func (s *Service) PeriodReport(ctx context.Context, req PeriodReportRequest) (PeriodReport, error) {
	if req.Granularity == "" {
		req.Granularity = analytics.GranularityDay
	}
	g, ok := analytics.ParseGranularity(string(req.Granularity))
	if !ok {
		return PeriodReport{}, ErrInvalidRequest
	}
	req.Granularity = g
	if err := validateFilter(req.Filter); err != nil {
		return PeriodReport{}, err
	}
	return cached(ctx, s, KindPeriods, scopeKey, req, func(ctx context.Context) (PeriodReport, error) {
		inputs := make([]analytics.RollupInput, 0)
		err := s.eachProject(ctx, req.ProjectIDs, func(d projectData) {
			contacts, _ := analytics.ContactsCost(d.suppliers, d.numbers, d.pricing)
			inputs = append(inputs, analytics.RollupInput{
				ProjectID:      d.project.ID,
				Calls:          req.Filter.Apply(d.calls),
				PricePerMinute: d.pricing.PricePerMinute,
				ContactsCost:   contacts,
			})
		})
		if err != nil {
			return PeriodReport{}, err
		}
		return PeriodReport{Granularity: req.Granularity, Rows: analytics.Rollup(inputs, req.Granularity)}, nil
	})
}

// ABCReport segments the scoped projects by cost share and by absolute CPL.
func (s *Service) ABCReport(ctx context.Context, req ScopeRequest) (ABCReport, error) {
	if err := validateFilter(req.Filter); err != nil {
		return ABCReport{}, err
	}
	return cached(ctx, s, KindABC, scopeKey, req, func(ctx context.Context) (ABCReport, error) {
		thresholds, err := s.repo.CPLThresholds(ctx)
		if err != nil {
			return ABCReport{}, fmt.Errorf("reporting: load cpl thresholds: %w", err)
		}
		rows := make([]analytics.ProjectCostRow, 0)
		err = s.eachProject(ctx, req.ProjectIDs, func(d projectData) {
			cost := analytics.AllocateCost(d.suppliers, d.numbers, req.Filter.Apply(d.calls), d.pricing)
			rows = append(rows, analytics.ProjectCostRow{
				ProjectID: d.project.ID,
				Name:      d.project.Name,
				Minutes:   cost.BilledMinutes,
				Cost:      cost.TotalCost,
				Leads:     cost.Leads,
			})
		})
		if err != nil {
			return ABCReport{}, err
		}
		return ABCReport{Thresholds: thresholds, ABCResult: analytics.Categorize(rows, thresholds)}, nil
	})
}

// InvalidateProject drops cached reports that may include the project.
func (s *Service) InvalidateProject(ctx context.Context, projectID string) error {
	if s.cache == nil || projectID == "" {
		return nil
	}
	for _, pattern := range []string{projectPattern(projectID), projectPattern(scopeKey)} {
		n, err := s.cache.DeleteMatching(ctx, pattern)
		if err != nil {
			return fmt.Errorf("reporting: invalidate %s: %w", projectID, err)
		}
		logger.From(ctx).Debug("report cache invalidated", "pattern", pattern, "keys", n)
	}
	return nil
}

func (s *Service) loadCalls(ctx context.Context, projectID string) (projectData, error) {
	p, err := s.repo.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			return projectData{}, ErrNotFound
		}
		return projectData{}, fmt.Errorf("reporting: load project: %w", err)
	}
	d := projectData{project: p}
	if d.pricing, err = s.repo.GetPricing(ctx, projectID); err != nil {
		return projectData{}, fmt.Errorf("reporting: load pricing: %w", err)
	}
	if d.calls, err = s.repo.ListCalls(ctx, projectID); err != nil {
		return projectData{}, fmt.Errorf("reporting: load calls: %w", err)
	}
	return d, nil
}

func (s *Service) loadProject(ctx context.Context, projectID string) (projectData, error) {
	d, err := s.loadCalls(ctx, projectID)
	if err != nil {
		return projectData{}, err
	}
	return s.fill(ctx, d)
}

func (s *Service) fill(ctx context.Context, d projectData) (projectData, error) {
	var err error
	if d.suppliers, err = s.repo.ListSuppliers(ctx, d.project.ID); err != nil {
		return projectData{}, fmt.Errorf("reporting: load suppliers: %w", err)
	}
	if d.numbers, err = s.repo.ListSupplierNumbers(ctx, d.project.ID); err != nil {
		return projectData{}, fmt.Errorf("reporting: load supplier numbers: %w", err)
	}
	return d, nil
}

// eachProject loads the scoped projects one after another.
func (s *Service) eachProject(ctx context.Context, ids []string, fn func(projectData)) error {
	list, err := s.repo.ListProjects(ctx, ids)
	if err != nil {
		return fmt.Errorf("reporting: list projects: %w", err)
	}
	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		d, err := s.loadCalls(ctx, p.ID)
		if err != nil {
			return err
		}
		if d, err = s.fill(ctx, d); err != nil {
			return err
		}
		fn(d)
	}
	return nil
}

// cached serves a report from the cache or builds and stores it. Cache
// failures are logged and never fail the request.
func cached[T any](ctx context.Context, s *Service, kind, scope string, req any, build func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	var key string
	if s.cache != nil {
		k, err := cacheKey(scope, kind, req)
		if err != nil {
			var zero T
			return zero, err
		}
		key = k

		var hitValue T
		hit, err := s.cache.Get(ctx, key, &hitValue)
		if err != nil {
			logger.From(ctx).Warn("report cache read failed", "kind", kind, "err", err)
		}
		s.metrics.CacheLookup(kind, hit)
		if hit && err == nil {
			return hitValue, nil
		}
	}

	out, err := build(ctx)
	if err != nil {
		return out, err
	}
	s.metrics.ObserveReport(kind, time.Since(start))

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, out); err != nil {
			logger.From(ctx).Warn("report cache write failed", "kind", kind, "err", err)
		}
	}
	return out, nil
}

func validateProjectRequest(req ProjectRequest) error {
	if req.ProjectID == "" {
		return ErrInvalidRequest
	}
	return validateFilter(req.Filter)
}

func validateFilter(f analytics.DateFilter) error {
	for _, v := range []string{f.From, f.To} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return fmt.Errorf("%w: bad date %q", ErrInvalidRequest, v)
		}
	}
	if f.From != "" && f.To != "" && f.From > f.To {
		return fmt.Errorf("%w: from after to", ErrInvalidRequest)
	}
	return nil
}
