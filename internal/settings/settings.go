package settings

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Keys of the global key-value settings store.
const (
	KeyCPLTargetA = "cpl_target_a"
	KeyCPLTargetB = "cpl_target_b"
	KeyCPLTargetC = "cpl_target_c"
)

var (
	DefaultCPLTargetA = decimal.NewFromInt(500)
	DefaultCPLTargetB = decimal.NewFromInt(1000)
	DefaultCPLTargetC = decimal.NewFromInt(2000)
)

// CPLThresholds are the absolute cost-per-lead bands.
// Resolve them once per request and pass them into the categorizer.
type CPLThresholds struct {
	A decimal.Decimal `json:"a"`
	B decimal.Decimal `json:"b"`
	C decimal.Decimal `json:"c"`
}

func DefaultCPLThresholds() CPLThresholds {
	return CPLThresholds{A: DefaultCPLTargetA, B: DefaultCPLTargetB, C: DefaultCPLTargetC}
}

// ResolveCPLThresholds parses raw store values. Missing, unparsable or
// negative values fall back to their defaults independently.
func ResolveCPLThresholds(values map[string]string) CPLThresholds {
	return CPLThresholds{
		A: parseOr(values[KeyCPLTargetA], DefaultCPLTargetA),
		B: parseOr(values[KeyCPLTargetB], DefaultCPLTargetB),
		C: parseOr(values[KeyCPLTargetC], DefaultCPLTargetC),
	}
}

func parseOr(raw string, def decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if v == "" {
		return def
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}
