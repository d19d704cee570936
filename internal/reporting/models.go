package reporting

import (
	"callcenter-dashboard/internal/analytics"
	"callcenter-dashboard/internal/projects"
	"callcenter-dashboard/internal/settings"

	"github.com/shopspring/decimal"
)

// Report kinds. They label cache keys and metrics.
const (
	KindSummary      = "summary"
	KindSupplier     = "supplier"
	KindCallLists    = "call_lists"
	KindCallListDays = "call_list_days"
	KindSuppliers    = "supplier_comparison"
	KindPeriods      = "periods"
	KindABC          = "abc"
)

// ProjectRequest scopes a report to one project and an optional date range.
type ProjectRequest struct {
	ProjectID string               `json:"project_id"`
	Filter    analytics.DateFilter `json:"filter"`
}

type ProjectSummary struct {
	Project     projects.Project        `json:"project"`
	Stats       analytics.CallStats     `json:"stats"`
	Cost        analytics.CostBreakdown `json:"cost"`
	Attribution analytics.Attribution   `json:"attribution"`
}

// SupplierReportRequest asks for one supplier's funnel. SupplierID may be
// analytics.GCKSupplierID for the project's combined GCK pool.
type SupplierReportRequest struct {
	ProjectRequest
	SupplierID string `json:"supplier_id"`
}

type SupplierReport struct {
	Funnel analytics.SupplierFunnel `json:"funnel"`

	PricePerContact decimal.Decimal  `json:"price_per_contact"`
	Spent           decimal.Decimal  `json:"spent"`
	CostPerLead     *decimal.Decimal `json:"cost_per_lead"`

	// CallLists breaks the supplier's attributed calls down by call list.
	CallLists []analytics.GroupRow `json:"call_lists"`
}

type CallListDaysRequest struct {
	ProjectRequest
	CallList string `json:"call_list"`
}

// SupplierComparisonRow is a GroupRow keyed by supplier id.
type SupplierComparisonRow struct {
	analytics.GroupRow

	Name  string `json:"name"`
	IsGck bool   `json:"is_gck"`
}

// ScopeRequest covers several projects. A nil ProjectIDs means every project.
type ScopeRequest struct {
	ProjectIDs []string             `json:"project_ids"`
	Filter     analytics.DateFilter `json:"filter"`
}

type PeriodReportRequest struct {
	ScopeRequest
	Granularity analytics.Granularity `json:"granularity"`
}

type PeriodReport struct {
	Granularity analytics.Granularity `json:"granularity"`
	Rows        []analytics.PeriodRow `json:"rows"`
}

type ABCReport struct {
	Thresholds settings.CPLThresholds `json:"thresholds"`
	analytics.ABCResult
}
