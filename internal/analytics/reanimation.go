package analytics

import (
	"sort"
	"time"

	"callcenter-dashboard/internal/calls"
)

type ReanimationReason string

const (
	ReasonBusy        ReanimationReason = "busy"
	ReasonEarlyHangup ReanimationReason = "early_hangup"

	DefaultEarlyHangupSeconds = 10
)

type ReanimationOptions struct {
	// EarlyHangupSeconds is the exclusive upper bound of an early hang-up.
	EarlyHangupSeconds int
}

// ReanimationCandidate is a phone worth another attempt.
type ReanimationCandidate struct {
	Phone      string            `json:"phone"`
	PhoneRaw   string            `json:"phone_raw"`
	Reason     ReanimationReason `json:"reason"`
	Attempts   int               `json:"attempts"`
	LastCallAt time.Time         `json:"last_call_at"`
}

type phoneHistory struct {
	raw         string
	attempts    int
	last        calls.Call
	answered    bool
	lead        bool
	maxAnswered int
}

// ReanimationCandidates picks retry-worthy phones.
//
// A phone that produced a lead is never picked. A never answered phone whose
// latest call was busy is picked as busy. An answered phone whose longest
// answered call is shorter than EarlyHangupSeconds is picked as early hang-up.
// Phones in exported were picked by an earlier export and are skipped.
// Output is ordered by phone.
func ReanimationCandidates(in []calls.Call, exported map[string]struct{}, opts ReanimationOptions) []ReanimationCandidate {
	if opts.EarlyHangupSeconds <= 0 {
		opts.EarlyHangupSeconds = DefaultEarlyHangupSeconds
	}

	byPhone := make(map[string]*phoneHistory)
	for _, c := range in {
		if c.PhoneNormalized == "" {
			continue
		}
		h, ok := byPhone[c.PhoneNormalized]
		if !ok {
			h = &phoneHistory{raw: c.PhoneRaw, last: c}
			byPhone[c.PhoneNormalized] = h
		}
		h.attempts++
		if !c.CallAt.Before(h.last.CallAt) {
			h.last = c
		}
		if c.IsLead {
			h.lead = true
		}
		if IsSuccessful(c.Status) {
			h.answered = true
			if c.DurationSeconds > h.maxAnswered {
				h.maxAnswered = c.DurationSeconds
			}
		}
	}

	out := make([]ReanimationCandidate, 0)
	for phone, h := range byPhone {
		if h.lead {
			continue
		}
		if _, done := exported[phone]; done {
			continue
		}
		var reason ReanimationReason
		switch {
		case !h.answered && IsBusy(h.last.Status):
			reason = ReasonBusy
		case h.answered && h.maxAnswered < opts.EarlyHangupSeconds:
			reason = ReasonEarlyHangup
		default:
			continue
		}
		out = append(out, ReanimationCandidate{
			Phone:      phone,
			PhoneRaw:   h.raw,
			Reason:     reason,
			Attempts:   h.attempts,
			LastCallAt: h.last.CallAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phone < out[j].Phone })
	return out
}
