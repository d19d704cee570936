package suppliers

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier delivers contact bases to a project.
//
// IsGck marks the special GCK pool. GCK suppliers only receive numbers through
// the GCK import path and regular suppliers never do.
type Supplier struct {
	ID              string          `json:"id" db:"id"`
	ProjectID       string          `json:"project_id" db:"project_id"`
	Name            string          `json:"name" db:"name"`
	Tag             string          `json:"tag,omitempty" db:"tag"`
	PricePerContact decimal.Decimal `json:"price_per_contact" db:"price_per_contact"`
	IsGck           bool            `json:"is_gck" db:"is_gck"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Number is one contact record delivered by a supplier.
// Unique per (project, supplier, phone_normalized).
type Number struct {
	ID         int64  `json:"id" db:"id"`
	ProjectID  string `json:"project_id" db:"project_id"`
	SupplierID string `json:"supplier_id" db:"supplier_id"`

	PhoneNormalized string `json:"phone_normalized" db:"phone_normalized"`
	PhoneRaw        string `json:"phone_raw" db:"phone_raw"`

	// IsDuplicateInProject is set at insert time when the phone repeats inside
	// the same import batch. It is never recomputed.
	IsDuplicateInProject bool `json:"is_duplicate_in_project" db:"is_duplicate_in_project"`

	ReceivedAt time.Time `json:"received_at" db:"received_at"`
}
