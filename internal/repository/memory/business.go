package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/internal/repository"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// BusinessRepository implements repository.BusinessRepository on a Store.
type BusinessRepository struct {
	store *Store
}

// NewBusinessRepository creates an in-memory business repository.
func NewBusinessRepository(store *Store) *BusinessRepository {
	return &BusinessRepository{store: store}
}

func (r *BusinessRepository) Create(_ context.Context, b *domain.Business) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.businesses[b.ID]; ok {
		return apperrors.AlreadyExists("business", "id", b.ID)
	}

	r.store.businesses[b.ID] = cloneBusiness(b)
	return nil
}

func (r *BusinessRepository) GetByID(_ context.Context, id string) (*domain.Business, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.businesses[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}

	return cloneBusiness(b), nil
}

func (r *BusinessRepository) List(_ context.Context, filter repository.BusinessFilter) ([]domain.Business, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []domain.Business

	for _, b := range r.store.businesses {
		if !b.Visible() {
			continue
		}
		if filter.Category != "" && filter.Category != domain.CategoryAll && b.Category != filter.Category {
			continue
		}
		if filter.Search != "" && !matchesSearch(b, filter.Search) {
			continue
		}
		result = append(result, *cloneBusiness(b))
	}

	sortByRating(result)

	// The visible set is returned whole unless the caller asked for a cap.
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	if result == nil {
		result = []domain.Business{}
	}

	return result, nil
}

func (r *BusinessRepository) Popular(_ context.Context, limit int) ([]domain.Business, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []domain.Business

	for _, b := range r.store.businesses {
		if b.Visible() && b.IsPopular {
			result = append(result, *cloneBusiness(b))
		}
	}

	sortByRating(result)

	if len(result) > limit {
		result = result[:limit]
	}
	if result == nil {
		result = []domain.Business{}
	}

	return result, nil
}

func (r *BusinessRepository) Latest(_ context.Context, limit int) ([]domain.Business, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []domain.Business

	for _, b := range r.store.businesses {
		if b.Visible() {
			result = append(result, *cloneBusiness(b))
		}
	}

	sortByCreated(result)

	if len(result) > limit {
		result = result[:limit]
	}
	if result == nil {
		result = []domain.Business{}
	}

	return result, nil
}

func (r *BusinessRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Business, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []domain.Business

	for _, b := range r.store.businesses {
		if b.OwnerID == ownerID {
			result = append(result, *cloneBusiness(b))
		}
	}

	sortByCreated(result)

	if result == nil {
		result = []domain.Business{}
	}

	return result, nil
}

func (r *BusinessRepository) Update(_ context.Context, b *domain.Business) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.businesses[b.ID]
	if !ok {
		return apperrors.NotFound("business", b.ID)
	}

	b.UpdatedAt = time.Now().UTC()

	updated := cloneBusiness(b)
	// The aggregate is owned by the review refresh, keep the stored values.
	updated.Rating = existing.Rating
	updated.ReviewCount = existing.ReviewCount

	r.store.businesses[b.ID] = updated
	return nil
}

func (r *BusinessRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.businesses[id]; !ok {
		return apperrors.NotFound("business", id)
	}

	delete(r.store.businesses, id)
	delete(r.store.reviews, id)

	for key := range r.store.bookmarks {
		if key.businessID == id {
			delete(r.store.bookmarks, key)
		}
	}

	return nil
}

func matchesSearch(b *domain.Business, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(b.Name), needle) ||
		strings.Contains(strings.ToLower(b.Category), needle) ||
		strings.Contains(strings.ToLower(b.Description), needle)
}

// sortByRating orders best rated first, ties broken by review count then id
// so results are stable across calls.
func sortByRating(businesses []domain.Business) {
	sort.Slice(businesses, func(i, j int) bool {
		a, b := businesses[i], businesses[j]
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.ReviewCount != b.ReviewCount {
			return a.ReviewCount > b.ReviewCount
		}
		return a.ID < b.ID
	})
}

func sortByCreated(businesses []domain.Business) {
	sort.Slice(businesses, func(i, j int) bool {
		a, b := businesses[i], businesses[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
