package domain

import (
	"time"
)

// Review represents a rating with an optional comment left by a user for a
// business. Reviews are immutable once created.
type Review struct {
	ID         string    `json:"id"`
	BusinessID string    `json:"umkm_id"`
	UserID     string    `json:"user_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	AuthorName string    `json:"author_name,omitempty"`
	AuthorURL  string    `json:"author_avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RatingSummary holds the derived aggregate for a business: the mean rating
// rounded to one decimal place and the total review count.
type RatingSummary struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
}
