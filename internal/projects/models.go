package projects

import "time"

// Project owns suppliers, calls, supplier numbers and pricing.
type Project struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	HasGck bool   `json:"has_gck" db:"has_gck"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
