package analytics

import (
	"callcenter-dashboard/internal/calls"

	"github.com/shopspring/decimal"
)

// RollupInput is one project's contribution to a period rollup.
type RollupInput struct {
	ProjectID      string
	Calls          []calls.Call
	PricePerMinute decimal.Decimal
	// ContactsCost is the project's whole contact cost, smeared over buckets
	// by answered-minute share.
	ContactsCost decimal.Decimal
}

// PeriodRow is one bucket of a rollup across projects.
type PeriodRow struct {
	Period

	Minutes          int              `json:"minutes"`
	MinutesCost      decimal.Decimal  `json:"minutes_cost"`
	ContactsCost     decimal.Decimal  `json:"contacts_cost"`
	Cost             decimal.Decimal  `json:"cost"`
	AvgCostPerMinute *decimal.Decimal `json:"avg_cost_per_minute"`
	ProjectCount     int              `json:"project_count"`

	Called     int     `json:"called"`
	Answered   int     `json:"answered"`
	Leads      int     `json:"leads"`
	AnswerRate float64 `json:"answer_rate"`

	// Change fields compare with the previous row. nil for the first row and
	// when the previous value is zero.
	ChangeMinutesPct *float64 `json:"change_minutes_pct"`
	ChangeCostPct    *float64 `json:"change_cost_pct"`
}

// Rollup buckets every project's calls by g and merges the buckets.
//
// Rows are ascending by period start. Callers that need most-recent-first
// order reverse the result themselves. ProjectCount counts projects with at
// least one call in the bucket. Distinct-phone counts are summed across
// projects: the same phone in two projects is two contacts.
func Rollup(inputs []RollupInput, g Granularity) []PeriodRow {
	rows := make(map[string]*PeriodRow)
	for _, in := range inputs {
		for _, pc := range AllocatePeriods(in.Calls, g, in.PricePerMinute, in.ContactsCost) {
			row, ok := rows[pc.Key]
			if !ok {
				row = &PeriodRow{
					Period:       pc.Period,
					MinutesCost:  decimal.Zero,
					ContactsCost: decimal.Zero,
					Cost:         decimal.Zero,
				}
				rows[pc.Key] = row
			}
			if pc.Start.Before(row.Start) {
				row.Start = pc.Start
			}
			row.Minutes += pc.Minutes
			row.MinutesCost = row.MinutesCost.Add(pc.MinutesCost)
			row.ContactsCost = row.ContactsCost.Add(pc.ContactsCost)
			row.Cost = row.Cost.Add(pc.Cost)
			row.Called += pc.Called
			row.Answered += pc.Answered
			row.Leads += pc.Leads
			row.ProjectCount++
		}
	}

	out := make([]PeriodRow, 0, len(rows))
	for _, r := range rows {
		r.AnswerRate = percent(r.Answered, r.Called)
		r.AvgCostPerMinute = PerUnit(r.Cost, r.Minutes)
		out = append(out, *r)
	}
	sortPeriods(out, func(i int) Period { return out[i].Period })

	for i := 1; i < len(out); i++ {
		prev, cur := out[i-1], &out[i]
		cur.ChangeMinutesPct = changePct(float64(prev.Minutes), float64(cur.Minutes))
		cur.ChangeCostPct = changePct(prev.Cost.InexactFloat64(), cur.Cost.InexactFloat64())
	}
	return out
}
