package memory

import (
	"context"
	"sort"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
)

// CategoryRepository implements repository.CategoryRepository on a Store.
type CategoryRepository struct {
	store *Store
}

// NewCategoryRepository creates an in-memory category repository.
func NewCategoryRepository(store *Store) *CategoryRepository {
	return &CategoryRepository{store: store}
}

func (r *CategoryRepository) ListAll(_ context.Context) ([]domain.Category, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	categories := make([]domain.Category, len(r.store.categories))
	copy(categories, r.store.categories)

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories, nil
}
