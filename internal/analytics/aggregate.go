package analytics

import (
	"math"

	"callcenter-dashboard/internal/calls"
)

// DateFilter restricts calls to an inclusive calendar-date range.
// Bounds are YYYY-MM-DD strings; an empty bound is open.
//
// Dates are compared as the literal date embedded in the stored timestamp.
// No timezone conversion happens.
type DateFilter struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func (f DateFilter) Match(c calls.Call) bool {
	if f.From == "" && f.To == "" {
		return true
	}
	d := c.Date()
	if f.From != "" && d < f.From {
		return false
	}
	if f.To != "" && d > f.To {
		return false
	}
	return true
}

// Apply returns the calls matching the filter. The input is not modified.
func (f DateFilter) Apply(in []calls.Call) []calls.Call {
	if f.From == "" && f.To == "" {
		return in
	}
	out := make([]calls.Call, 0, len(in))
	for _, c := range in {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// CallStats is the funnel of one set of calls.
type CallStats struct {
	TotalCalls int `json:"total_calls"`
	Called     int `json:"called"`
	Answered   int `json:"answered"`
	Leads      int `json:"leads"`

	// TotalDuration and AnsweredCallsCount only count successful calls.
	TotalDuration      int `json:"total_duration"`
	AnsweredCallsCount int `json:"answered_calls_count"`

	AnswerRate     float64 `json:"answer_rate"`
	ConversionRate float64 `json:"conversion_rate"`
	AvgDuration    int     `json:"avg_duration"`
}

// Aggregate reduces calls matching filter into funnel statistics.
// The result does not depend on input order.
func Aggregate(in []calls.Call, filter DateFilter) CallStats {
	f := newFunnelSets()
	for _, c := range in {
		if filter.Match(c) {
			f.addCall(c)
		}
	}
	return f.stats()
}

func (f *funnelSets) stats() CallStats {
	out := CallStats{
		TotalCalls:         f.totalCalls,
		Called:             len(f.called),
		Answered:           len(f.answered),
		Leads:              len(f.leads),
		TotalDuration:      f.answeredSeconds,
		AnsweredCallsCount: f.answeredCallsCount,
	}
	out.AnswerRate = percent(out.Answered, out.Called)
	out.ConversionRate = percent(out.Leads, out.Answered)
	if f.answeredCallsCount > 0 {
		out.AvgDuration = int(math.Round(float64(f.answeredSeconds) / float64(f.answeredCallsCount)))
	}
	return out
}
