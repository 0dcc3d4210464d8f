// Package memory provides an in-memory implementation of the repository
// interfaces, used for local development and tests when no PostgreSQL
// instance is available.
//
// All repositories share one Store and one mutex, so multi-step operations
// such as the rating aggregate refresh are atomic with respect to each other.
package memory

import (
	"sync"
	"time"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
)

type bookmarkKey struct {
	userID     string
	businessID string
}

// Store holds all in-memory state. Create one with NewStore and hand it to
// the repository constructors.
type Store struct {
	mu sync.Mutex

	businesses map[string]*domain.Business
	reviews    map[string][]domain.Review
	bookmarks  map[bookmarkKey]time.Time
	users      map[string]*domain.User
	categories []domain.Category
}

// NewStore creates an empty in-memory store seeded with the fixed category
// set so the explore screen works out of the box.
func NewStore() *Store {
	now := time.Now().UTC()

	categories := make([]domain.Category, 0, len(domain.ValidCategories()))
	for i, name := range domain.ValidCategories() {
		categories = append(categories, domain.Category{
			ID:        name,
			Name:      name,
			CreatedAt: now.Add(time.Duration(i) * time.Millisecond),
		})
	}

	return &Store{
		businesses: make(map[string]*domain.Business),
		reviews:    make(map[string][]domain.Review),
		bookmarks:  make(map[bookmarkKey]time.Time),
		users:      make(map[string]*domain.User),
		categories: categories,
	}
}

func cloneBusiness(b *domain.Business) *domain.Business {
	cp := *b
	if b.FeaturedURL != nil {
		u := *b.FeaturedURL
		cp.FeaturedURL = &u
	}
	return &cp
}

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	return &cp
}
