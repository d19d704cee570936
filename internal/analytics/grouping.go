package analytics

import (
	"sort"
	"strings"

	"callcenter-dashboard/internal/calls"

	"github.com/shopspring/decimal"
)

// NoCallList is the bucket of calls without a call-list name.
const NoCallList = "Без списка"

// KeyFunc extracts a grouping label from a call. ok=false drops the call.
type KeyFunc func(c calls.Call) (key string, ok bool)

// PriceFunc returns the price per contact of a group.
type PriceFunc func(key string) decimal.Decimal

// FlatPrice prices every group the same.
func FlatPrice(p decimal.Decimal) PriceFunc {
	return func(string) decimal.Decimal { return p }
}

// ByCallList groups by call-list name, empty names into NoCallList.
func ByCallList(c calls.Call) (string, bool) {
	name := strings.TrimSpace(c.CallList)
	if name == "" {
		return NoCallList, true
	}
	return name, true
}

// ByDay groups by the literal call date.
func ByDay(c calls.Call) (string, bool) {
	return c.Date(), true
}

// BySupplier groups by the supplier owning the phone. Unattributed calls are dropped.
func BySupplier(owners map[string]string) KeyFunc {
	return func(c calls.Call) (string, bool) {
		id, ok := owners[c.PhoneNormalized]
		return id, ok
	}
}

// InCallList keeps only calls of one list, then applies next.
func InCallList(name string, next KeyFunc) KeyFunc {
	return func(c calls.Call) (string, bool) {
		if list, _ := ByCallList(c); list != name {
			return "", false
		}
		return next(c)
	}
}

// GroupRow is the funnel and spend of one group.
type GroupRow struct {
	Key string `json:"key"`

	Received int `json:"received"`
	Answered int `json:"answered"`
	Leads    int `json:"leads"`

	AnswerRate     float64 `json:"answer_rate"`
	ConversionRate float64 `json:"conversion_rate"`

	Spent       decimal.Decimal  `json:"spent"`
	CostPerLead *decimal.Decimal `json:"cost_per_lead"`
}

// GroupAndAggregate is the shared reducer behind the call-list, supplier and
// per-day reports. received is the number of distinct phones in the group.
// Rows are ordered by key.
func GroupAndAggregate(in []calls.Call, key KeyFunc, price PriceFunc) []GroupRow {
	groups := make(map[string]*funnelSets)
	for _, c := range in {
		k, ok := key(c)
		if !ok {
			continue
		}
		f, ok := groups[k]
		if !ok {
			f = newFunnelSets()
			groups[k] = f
		}
		f.addCall(c)
	}

	out := make([]GroupRow, 0, len(groups))
	for k, f := range groups {
		row := GroupRow{
			Key:      k,
			Received: len(f.called),
			Answered: len(f.answered),
			Leads:    len(f.leads),
		}
		row.AnswerRate = percent(row.Answered, row.Received)
		row.ConversionRate = percent(row.Leads, row.Answered)
		row.Spent = Spend(row.Received, price(k))
		row.CostPerLead = PerUnit(row.Spent, row.Leads)
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
