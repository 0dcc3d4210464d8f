package repository

import (
	"context"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
)

// BusinessFilter defines filter criteria for listing businesses.
type BusinessFilter struct {
	// Category restricts to one category; empty or "semua" means all.
	Category string

	// Search is a case-insensitive substring match against name, category,
	// and description.
	Search string

	// Limit caps the result size; 0 means unbounded.
	Limit int
}

// BusinessRepository defines persistence operations for businesses.
//
// List, Popular, and Latest only return publicly visible businesses
// (status approved or active). List orders by rating descending, ties broken
// by review count descending then id ascending; Latest orders by creation
// time descending; Popular additionally requires the popular flag and orders
// by rating descending.
type BusinessRepository interface {
	// Create inserts a new business.
	Create(ctx context.Context, b *domain.Business) error

	// GetByID retrieves a business by id regardless of status.
	GetByID(ctx context.Context, id string) (*domain.Business, error)

	// List returns visible businesses matching the filter.
	List(ctx context.Context, filter BusinessFilter) ([]domain.Business, error)

	// Popular returns up to limit visible businesses flagged popular.
	Popular(ctx context.Context, limit int) ([]domain.Business, error)

	// Latest returns up to limit visible businesses, newest first.
	Latest(ctx context.Context, limit int) ([]domain.Business, error)

	// ListByOwner returns all businesses registered by the owner, any status,
	// newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error)

	// Update writes all mutable fields of an existing business.
	Update(ctx context.Context, b *domain.Business) error

	// Delete removes a business. Reviews and bookmarks referencing it are
	// removed as well (cascade).
	Delete(ctx context.Context, id string) error
}

// ReviewRepository defines persistence operations for reviews and the derived
// rating aggregate.
type ReviewRepository interface {
	// Create inserts a new review.
	Create(ctx context.Context, rv *domain.Review) error

	// ListByBusiness returns all reviews for a business, newest first, each
	// carrying the author's display name and avatar.
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Review, error)

	// RefreshAggregate recomputes the business's rating (mean rounded to one
	// decimal) and review count from its reviews and persists both on the
	// business row. The recompute must be atomic with respect to concurrent
	// calls for the same business.
	RefreshAggregate(ctx context.Context, businessID string) (*domain.RatingSummary, error)
}

// BookmarkRepository defines persistence operations for bookmarks.
type BookmarkRepository interface {
	// Add inserts a bookmark. Returns false without error when the pair
	// already exists (the concurrent-insert loser converges to "bookmarked").
	Add(ctx context.Context, userID, businessID string) (bool, error)

	// Remove deletes a bookmark. Returns false when no such pair existed.
	Remove(ctx context.Context, userID, businessID string) (bool, error)

	// Exists checks whether the pair is bookmarked.
	Exists(ctx context.Context, userID, businessID string) (bool, error)

	// ListBusinesses returns the businesses bookmarked by the user, most
	// recently bookmarked first.
	ListBusinesses(ctx context.Context, userID string) ([]domain.Business, error)
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *domain.User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update writes the mutable profile fields of an existing user.
	Update(ctx context.Context, u *domain.User) error

	// UpdatePassword replaces the user's password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// CategoryRepository defines read operations for directory categories.
type CategoryRepository interface {
	// ListAll returns all categories ordered by name.
	ListAll(ctx context.Context) ([]domain.Category, error)
}
