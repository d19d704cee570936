package imports

import "time"

type Kind string

const (
	KindNumbers    Kind = "numbers"
	KindGCKNumbers Kind = "gck_numbers"
	KindCalls      Kind = "calls"
)

func (k Kind) Valid() bool {
	switch k {
	case KindNumbers, KindGCKNumbers, KindCalls:
		return true
	}
	return false
}

// Job is an immutable, append-only record of one import.
//
// Invariants:
// - Jobs are never updated or deleted.
// - project_id is required.
// - SkippedRows counts every row that was not inserted, DuplicateRows included.
//
// Storage: table import_jobs with an INSERT-only policy.
type Job struct {
	ID         string `json:"id" db:"id"`
	ProjectID  string `json:"project_id" db:"project_id"`
	SupplierID string `json:"supplier_id,omitempty" db:"supplier_id"`
	Kind       Kind   `json:"kind" db:"kind"`
	FileName   string `json:"file_name,omitempty" db:"file_name"`

	TotalRows     int `json:"total_rows" db:"total_rows"`
	InsertedRows  int `json:"inserted_rows" db:"inserted_rows"`
	SkippedRows   int `json:"skipped_rows" db:"skipped_rows"`
	DuplicateRows int `json:"duplicate_rows" db:"duplicate_rows"`

	ActorUserID string    `json:"actor_user_id,omitempty" db:"actor_user_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NumberRow is one already-parsed line of a supplier base.
type NumberRow struct {
	Phone      string     `json:"phone"`
	ReceivedAt *time.Time `json:"received_at,omitempty"`
}

// CallRow is one already-parsed CDR line.
type CallRow struct {
	Phone             string    `json:"phone"`
	Status            string    `json:"status"`
	IsLead            bool      `json:"is_lead"`
	CallAt            time.Time `json:"call_at"`
	DurationSeconds   int       `json:"duration_seconds"`
	CallList          string    `json:"call_list,omitempty"`
	EndReason         string    `json:"end_reason,omitempty"`
	CallAttemptNumber int       `json:"call_attempt_number,omitempty"`
	ExternalCallID    string    `json:"external_call_id,omitempty"`
}

// Request is one import batch. Numbers are used for the numbers kinds,
// Calls for the calls kind.
type Request struct {
	ProjectID   string `json:"project_id"`
	SupplierID  string `json:"supplier_id,omitempty"`
	Kind        Kind   `json:"kind"`
	FileName    string `json:"file_name,omitempty"`
	ActorUserID string `json:"-"`

	Numbers []NumberRow `json:"numbers,omitempty"`
	Calls   []CallRow   `json:"calls,omitempty"`
}
