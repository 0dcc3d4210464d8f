package memory

import (
	"context"
	"math"
	"sort"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository on a Store.
type ReviewRepository struct {
	store *Store
}

// NewReviewRepository creates an in-memory review repository.
func NewReviewRepository(store *Store) *ReviewRepository {
	return &ReviewRepository{store: store}
}

func (r *ReviewRepository) Create(_ context.Context, rv *domain.Review) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.businesses[rv.BusinessID]; !ok {
		return apperrors.NotFound("business", rv.BusinessID)
	}

	review := *rv
	if u, ok := r.store.users[rv.UserID]; ok {
		review.AuthorName = u.FullName
		review.AuthorURL = u.AvatarURL
	}

	r.store.reviews[rv.BusinessID] = append(r.store.reviews[rv.BusinessID], review)
	return nil
}

func (r *ReviewRepository) ListByBusiness(_ context.Context, businessID string) ([]domain.Review, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored := r.store.reviews[businessID]

	reviews := make([]domain.Review, len(stored))
	copy(reviews, stored)

	sort.Slice(reviews, func(i, j int) bool {
		a, b := reviews[i], reviews[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return reviews, nil
}

// RefreshAggregate recomputes the mean rating (rounded to one decimal) and
// review count under the store lock, so concurrent reviewers always converge
// on an aggregate consistent with the stored reviews.
func (r *ReviewRepository) RefreshAggregate(_ context.Context, businessID string) (*domain.RatingSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.businesses[businessID]
	if !ok {
		return nil, apperrors.NotFound("business", businessID)
	}

	reviews := r.store.reviews[businessID]

	var rating float64
	if len(reviews) > 0 {
		var sum int
		for _, rv := range reviews {
			sum += rv.Rating
		}
		rating = math.Round(float64(sum)/float64(len(reviews))*10) / 10
	}

	b.Rating = rating
	b.ReviewCount = len(reviews)

	return &domain.RatingSummary{Rating: rating, ReviewCount: len(reviews)}, nil
}
