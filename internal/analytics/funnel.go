package analytics

import "callcenter-dashboard/internal/calls"

type phoneSet map[string]struct{}

func (s phoneSet) add(phone string) { s[phone] = struct{}{} }

// funnelSets accumulates the independent distinct-phone sets behind every
// funnel: a phone may be called but not answered even when one of its calls
// succeeded and another did not.
type funnelSets struct {
	called   phoneSet
	answered phoneSet
	leads    phoneSet

	totalCalls         int
	answeredCallsCount int
	answeredSeconds    int
	billedMinutes      int
}

func newFunnelSets() *funnelSets {
	return &funnelSets{called: phoneSet{}, answered: phoneSet{}, leads: phoneSet{}}
}

func (f *funnelSets) addCall(c calls.Call) {
	f.totalCalls++
	f.called.add(c.PhoneNormalized)
	if IsSuccessful(c.Status) {
		f.answered.add(c.PhoneNormalized)
		f.answeredCallsCount++
		f.answeredSeconds += c.DurationSeconds
		f.billedMinutes += billedMinutes(c)
	}
	if c.IsLead {
		f.leads.add(c.PhoneNormalized)
	}
}
