package analytics

import (
	"callcenter-dashboard/internal/calls"
	"callcenter-dashboard/internal/pricing"
	"callcenter-dashboard/internal/suppliers"

	"github.com/shopspring/decimal"
)

// CostBreakdown is the cost of one project over a set of calls.
type CostBreakdown struct {
	Numbers       int `json:"numbers"`
	BilledMinutes int `json:"billed_minutes"`
	Leads         int `json:"leads"`

	ContactsCost decimal.Decimal `json:"contacts_cost"`
	MinutesCost  decimal.Decimal `json:"minutes_cost"`
	TotalCost    decimal.Decimal `json:"total_cost"`

	// CostPerLead is nil when there are no leads.
	CostPerLead *decimal.Decimal `json:"cost_per_lead"`

	// NumberPriceFallback is set when contact cost came from the project's
	// per-number price because no supplier has a price configured.
	NumberPriceFallback bool `json:"number_price_fallback"`
}

// billedMinutes is the billable minute count of one call. Only answered
// calls are billed.
func billedMinutes(c calls.Call) int {
	if !IsSuccessful(c.Status) {
		return 0
	}
	return pricing.BillableMinutes(c.DurationSeconds)
}

// BilledMinutes sums started minutes of answered calls, rounding up per call.
func BilledMinutes(in []calls.Call) int {
	total := 0
	for _, c := range in {
		total += billedMinutes(c)
	}
	return total
}

// ContactsCost prices delivered numbers by their supplier's price per contact.
// When that sums to zero while numbers exist, every number is priced at the
// project's per-number price instead and fallback is true.
func ContactsCost(sups []suppliers.Supplier, numbers []suppliers.Number, p pricing.ProjectPricing) (cost decimal.Decimal, fallback bool) {
	perSupplier := make(map[string]int, len(sups))
	for _, n := range numbers {
		perSupplier[n.SupplierID]++
	}

	cost = decimal.Zero
	for _, s := range sups {
		line := Spend(perSupplier[s.ID], s.PricePerContact)
		cost = cost.Add(line)
	}
	if cost.IsZero() && len(numbers) > 0 {
		return Spend(len(numbers), p.PricePerNumber), true
	}
	return cost, false
}

// AllocateCost computes contact cost, minute cost, their total and the cost
// per lead. Each amount is rounded to cents before it is summed.
func AllocateCost(sups []suppliers.Supplier, numbers []suppliers.Number, in []calls.Call, p pricing.ProjectPricing) CostBreakdown {
	leads := phoneSet{}
	for _, c := range in {
		if c.IsLead {
			leads.add(c.PhoneNormalized)
		}
	}

	out := CostBreakdown{
		Numbers:       len(numbers),
		BilledMinutes: BilledMinutes(in),
		Leads:         len(leads),
	}
	out.ContactsCost, out.NumberPriceFallback = ContactsCost(sups, numbers, p)
	out.MinutesCost = Spend(out.BilledMinutes, p.PricePerMinute)
	out.TotalCost = round2(out.ContactsCost.Add(out.MinutesCost))
	out.CostPerLead = PerUnit(out.TotalCost, out.Leads)
	return out
}

// PeriodCost is one calendar bucket of a single project.
type PeriodCost struct {
	Period

	Minutes      int             `json:"minutes"`
	MinutesCost  decimal.Decimal `json:"minutes_cost"`
	ContactsCost decimal.Decimal `json:"contacts_cost"`
	Cost         decimal.Decimal `json:"cost"`

	Called   int `json:"called"`
	Answered int `json:"answered"`
	Leads    int `json:"leads"`
}

// AllocatePeriods splits a project's cost into calendar buckets.
//
// Minute cost is priced per bucket directly. Contact cost has no usable
// per-bucket timestamp, so each bucket receives the share of contactsCost
// equal to its share of the project's answered minutes. A bucket with no
// answered minutes receives no contact cost. Buckets are ascending.
func AllocatePeriods(in []calls.Call, g Granularity, pricePerMinute, contactsCost decimal.Decimal) []PeriodCost {
	type bucket struct {
		period Period
		sets   *funnelSets
	}
	buckets := make(map[string]*bucket)
	totalMinutes := 0
	for _, c := range in {
		p := g.PeriodOf(c.CallAt)
		b, ok := buckets[p.Key]
		if !ok {
			b = &bucket{period: p, sets: newFunnelSets()}
			buckets[p.Key] = b
		}
		b.sets.addCall(c)
		totalMinutes += billedMinutes(c)
	}

	out := make([]PeriodCost, 0, len(buckets))
	for _, b := range buckets {
		row := PeriodCost{
			Period:       b.period,
			Minutes:      b.sets.billedMinutes,
			ContactsCost: decimal.Zero,
			Called:       len(b.sets.called),
			Answered:     len(b.sets.answered),
			Leads:        len(b.sets.leads),
		}
		row.MinutesCost = Spend(row.Minutes, pricePerMinute)
		if totalMinutes > 0 && row.Minutes > 0 {
			share := decimal.NewFromInt(int64(row.Minutes)).Div(decimal.NewFromInt(int64(totalMinutes)))
			row.ContactsCost = round2(share.Mul(contactsCost))
		}
		row.Cost = round2(row.MinutesCost.Add(row.ContactsCost))
		out = append(out, row)
	}
	sortPeriods(out, func(i int) Period { return out[i].Period })
	return out
}
