package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// ParseGranularity accepts day, week or month in any case.
func ParseGranularity(s string) (Granularity, bool) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(s))); g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return g, true
	default:
		return "", false
	}
}

// Period identifies one calendar bucket.
type Period struct {
	Key   string    `json:"period_key"`
	Start time.Time `json:"period_start"`
}

// PeriodOf truncates t to the start of its bucket in t's own location.
// Weeks are ISO weeks starting on Monday.
func (g Granularity) PeriodOf(t time.Time) Period {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case GranularityMonth:
		start := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		return Period{Key: start.Format("2006-01"), Start: start}
	case GranularityWeek:
		offset := (int(t.Weekday()) + 6) % 7
		start := time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
		wy, wn := start.ISOWeek()
		return Period{Key: fmt.Sprintf("%04d-W%02d", wy, wn), Start: start}
	default:
		start := time.Date(y, m, d, 0, 0, 0, 0, loc)
		return Period{Key: start.Format("2006-01-02"), Start: start}
	}
}

func sortPeriods[T any](rows []T, at func(i int) Period) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := at(i), at(j)
		if !a.Start.Equal(b.Start) {
			return a.Start.Before(b.Start)
		}
		return a.Key < b.Key
	})
}
