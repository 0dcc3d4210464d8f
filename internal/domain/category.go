package domain

import (
	"time"
)

// Category is a directory category row used to render the explore screen.
// The business category field itself is constrained to the fixed enumeration
// in business.go; this table carries display metadata only.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
