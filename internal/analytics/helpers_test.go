package analytics

import (
	"time"

	"callcenter-dashboard/internal/calls"
)

func at(day string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", day+" 12:00")
	if err != nil {
		panic(err)
	}
	return t
}

func call(phone, status string, lead bool, duration int, day string) calls.Call {
	return calls.Call{
		ProjectID:       "p1",
		PhoneNormalized: phone,
		PhoneRaw:        phone,
		Status:          status,
		IsLead:          lead,
		DurationSeconds: duration,
		CallAt:          at(day),
	}
}
