package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// percent returns num/den*100 rounded to one decimal, 0 when den is 0.
func percent(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den) * 100)
}

// PerUnit returns total/n rounded to cents, or nil when n is 0. Cost per
// lead and average cost per minute both go through it, so "unavailable" is
// always nil rather than zero.
func PerUnit(total decimal.Decimal, n int) *decimal.Decimal {
	if n <= 0 {
		return nil
	}
	v := round2(total.Div(decimal.NewFromInt(int64(n))))
	return &v
}

// changePct returns the percent change from prev to cur rounded to one
// decimal, or nil when there is no usable base.
func changePct(prev, cur float64) *float64 {
	if prev == 0 {
		return nil
	}
	v := round1((cur - prev) / prev * 100)
	return &v
}

// Spend is count × price rounded to cents.
func Spend(count int, price decimal.Decimal) decimal.Decimal {
	return round2(decimal.NewFromInt(int64(count)).Mul(price))
}
