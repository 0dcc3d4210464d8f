package domain

import (
	"time"
)

// Bookmark is a user's saved reference to a business. The (UserID, BusinessID)
// pair is unique; existence is the only state.
type Bookmark struct {
	UserID     string    `json:"user_id"`
	BusinessID string    `json:"umkm_id"`
	CreatedAt  time.Time `json:"created_at"`
}
