package analytics

import (
	"sort"

	"callcenter-dashboard/internal/settings"

	"github.com/shopspring/decimal"
)

const (
	CategoryA = "A"
	CategoryB = "B"
	CategoryC = "C"
)

var (
	shareA = decimal.RequireFromString("0.80")
	shareB = decimal.RequireFromString("0.95")
)

// ProjectCostRow is the per-project input of ABC categorization.
type ProjectCostRow struct {
	ProjectID string          `json:"project_id"`
	Name      string          `json:"name"`
	Minutes   int             `json:"minutes"`
	Cost      decimal.Decimal `json:"cost"`
	Leads     int             `json:"leads"`
}

// ABCEntry carries both categorization dimensions of a project.
// CPLCategory is the absolute CPL band; Category is the cumulative-cost band.
type ABCEntry struct {
	ProjectCostRow

	CPL             *decimal.Decimal `json:"cpl"`
	CPLCategory     string           `json:"cpl_category"`
	CumulativeShare *float64         `json:"cumulative_share,omitempty"`
	Category        string           `json:"category"`
}

type Contribution struct {
	Projects int             `json:"projects"`
	Minutes  int             `json:"minutes"`
	Cost     decimal.Decimal `json:"cost"`
}

type ABCResult struct {
	A []ABCEntry `json:"a"`
	B []ABCEntry `json:"b"`
	C []ABCEntry `json:"c"`

	ContributionA Contribution `json:"contribution_a"`
	ContributionB Contribution `json:"contribution_b"`
	ContributionC Contribution `json:"contribution_c"`
}

// CPLCategory bands an absolute cost per lead. Projects without leads have
// no meaningful band and display as B.
func CPLCategory(cpl *decimal.Decimal, leads int, t settings.CPLThresholds) string {
	if leads <= 0 || cpl == nil {
		return CategoryB
	}
	switch {
	case cpl.LessThanOrEqual(t.A):
		return CategoryA
	case cpl.GreaterThanOrEqual(t.C):
		return CategoryC
	default:
		return CategoryB
	}
}

// Categorize segments projects by cumulative cost share, best CPL first.
//
// Projects with leads are sorted by CPL ascending; equal CPLs keep input
// order. Walking that order, a project whose cumulative share of the ranked
// projects' total cost is <= 0.80 is A, <= 0.95 is B, otherwise C. When that
// total is zero every ranked project is C. Projects without leads are always C.
func Categorize(rows []ProjectCostRow, t settings.CPLThresholds) ABCResult {
	ranked := make([]ABCEntry, 0, len(rows))
	leadless := make([]ABCEntry, 0)
	for _, r := range rows {
		e := ABCEntry{ProjectCostRow: r, CPL: PerUnit(r.Cost, r.Leads)}
		e.CPLCategory = CPLCategory(e.CPL, r.Leads, t)
		if r.Leads > 0 {
			ranked = append(ranked, e)
		} else {
			e.Category = CategoryC
			leadless = append(leadless, e)
		}
	}
	// Rank on the exact ratio. The rounded CPL is for display and bands only:
	// a/la < b/lb  <=>  a*lb < b*la, since both lead counts are positive.
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		return a.Cost.Mul(decimal.NewFromInt(int64(b.Leads))).
			LessThan(b.Cost.Mul(decimal.NewFromInt(int64(a.Leads))))
	})

	total := decimal.Zero
	for _, e := range ranked {
		total = total.Add(e.Cost)
	}

	cumulative := decimal.Zero
	for i := range ranked {
		e := &ranked[i]
		if total.IsZero() {
			e.Category = CategoryC
			continue
		}
		cumulative = cumulative.Add(e.Cost)
		share := cumulative.Div(total)
		f := share.Round(4).InexactFloat64()
		e.CumulativeShare = &f
		switch {
		case share.LessThanOrEqual(shareA):
			e.Category = CategoryA
		case share.LessThanOrEqual(shareB):
			e.Category = CategoryB
		default:
			e.Category = CategoryC
		}
	}

	out := ABCResult{A: []ABCEntry{}, B: []ABCEntry{}, C: []ABCEntry{}}
	for _, e := range append(ranked, leadless...) {
		switch e.Category {
		case CategoryA:
			out.A = append(out.A, e)
		case CategoryB:
			out.B = append(out.B, e)
		default:
			out.C = append(out.C, e)
		}
	}
	out.ContributionA = contribution(out.A)
	out.ContributionB = contribution(out.B)
	out.ContributionC = contribution(out.C)
	return out
}

func contribution(entries []ABCEntry) Contribution {
	c := Contribution{Cost: decimal.Zero}
	for _, e := range entries {
		c.Projects++
		c.Minutes += e.Minutes
		c.Cost = c.Cost.Add(e.Cost)
	}
	c.Cost = round2(c.Cost)
	return c
}
