package calls

import "time"

// Call is one imported call-detail record.
//
// Project invariant: ProjectID is required on every row and ExternalCallID is
// unique per project (storage identity). Funnel metrics never use the storage
// identity; they dedupe by PhoneNormalized.
//
// Nullable text columns (status, call list, end reason) are carried as empty
// strings. An empty Status is never a successful call.
type Call struct {
	ID        int64  `json:"id" db:"id"`
	ProjectID string `json:"project_id" db:"project_id"`

	PhoneNormalized string `json:"phone_normalized" db:"phone_normalized"`
	PhoneRaw        string `json:"phone_raw" db:"phone_raw"`

	Status string `json:"status,omitempty" db:"status"`
	IsLead bool   `json:"is_lead" db:"is_lead"`

	// CallAt keeps the location it was stored with; reports never convert it to UTC.
	CallAt          time.Time `json:"call_at" db:"call_at"`
	DurationSeconds int       `json:"duration_seconds" db:"duration_seconds"`

	CallList          string `json:"call_list,omitempty" db:"call_list"`
	EndReason         string `json:"end_reason,omitempty" db:"end_reason"`
	CallAttemptNumber int    `json:"call_attempt_number" db:"call_attempt_number"`
	ExternalCallID    string `json:"external_call_id" db:"external_call_id"`

	// SupplierNumberID is nulled when the supplier number is deleted.
	SupplierNumberID *int64 `json:"supplier_number_id,omitempty" db:"supplier_number_id"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WallClock drops the location of t and keeps its wall-clock fields,
// returned in UTC. call_at is stored as TIMESTAMP without time zone, so the
// date a report sees never depends on the server's TZ.
func WallClock(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// Date returns the literal calendar date embedded in CallAt.
func (c Call) Date() string {
	return c.CallAt.Format("2006-01-02")
}
