package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProjectPricing is one-to-one with a project.
//
// PricePerMinute drives minute cost. PricePerNumber is the fallback contact
// price used when no supplier of the project has a configured price.
// PricePerCall is stored for the dashboard but not used by cost allocation.
type ProjectPricing struct {
	ProjectID      string          `json:"project_id" db:"project_id"`
	PricePerNumber decimal.Decimal `json:"price_per_number" db:"price_per_number"`
	PricePerCall   decimal.Decimal `json:"price_per_call" db:"price_per_call"`
	PricePerMinute decimal.Decimal `json:"price_per_minute" db:"price_per_minute"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
