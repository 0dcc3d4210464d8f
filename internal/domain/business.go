package domain

import (
	"time"
)

// Business lifecycle status constants. A business is created pending and is
// moved to approved/active by moderation, which happens outside this service.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusRejected  = "rejected"
)

// Business category constants.
const (
	CategoryMakanan   = "makanan"
	CategoryFashion   = "fashion"
	CategoryJasa      = "jasa"
	CategoryKerajinan = "kerajinan"

	// CategoryAll is the sentinel meaning "no category filter".
	CategoryAll = "semua"
)

// Business represents one listed UMKM enterprise.
//
// Rating and ReviewCount are derived from the business's reviews and are never
// written directly by clients: Rating is the mean of all review ratings rounded
// to one decimal, ReviewCount the number of reviews.
type Business struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Address       string    `json:"address"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	Website       string    `json:"website"`
	ImageURL      string    `json:"image_url"`
	FeaturedURL   *string   `json:"featured_url,omitempty"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"review_count"`
	Status        string    `json:"status"`
	IsPopular     bool      `json:"is_popular"`
	IsNewlyJoined bool      `json:"is_newly_joined"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BusinessDetail is a business together with its reviews, as served by the
// detail endpoint.
type BusinessDetail struct {
	Business
	Reviews []Review `json:"reviews"`
}

// Visible reports whether the business is in the publicly listed status set.
func (b *Business) Visible() bool {
	return b.Status == StatusApproved || b.Status == StatusActive
}

// ValidCategories returns the fixed category enumeration (without the "semua"
// sentinel).
func ValidCategories() []string {
	return []string{CategoryMakanan, CategoryFashion, CategoryJasa, CategoryKerajinan}
}

// IsValidCategory checks whether the given category is in the enumeration.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// VisibleStatuses returns the statuses shown in public listings.
func VisibleStatuses() []string {
	return []string{StatusApproved, StatusActive}
}
