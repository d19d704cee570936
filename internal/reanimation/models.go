package reanimation

import (
	"time"

	"callcenter-dashboard/internal/analytics"
)

// Export is one batch of retry-worthy phones handed back to the dialer.
// Phones of an export are never picked again by a later export.
type Export struct {
	ID        string    `json:"id" db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	CreatedBy string    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	BusyCount        int `json:"busy_count" db:"busy_count"`
	EarlyHangupCount int `json:"early_hangup_count" db:"early_hangup_count"`

	// Phones is only loaded for a single export.
	Phones []analytics.ReanimationCandidate `json:"phones,omitempty"`
}
