package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// BookmarkRepository implements repository.BookmarkRepository on a Store.
type BookmarkRepository struct {
	store *Store
}

// NewBookmarkRepository creates an in-memory bookmark repository.
func NewBookmarkRepository(store *Store) *BookmarkRepository {
	return &BookmarkRepository{store: store}
}

func (r *BookmarkRepository) Add(_ context.Context, userID, businessID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.businesses[businessID]; !ok {
		return false, apperrors.NotFound("business", businessID)
	}

	key := bookmarkKey{userID: userID, businessID: businessID}
	if _, ok := r.store.bookmarks[key]; ok {
		return false, nil
	}

	r.store.bookmarks[key] = time.Now().UTC()
	return true, nil
}

func (r *BookmarkRepository) Remove(_ context.Context, userID, businessID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := bookmarkKey{userID: userID, businessID: businessID}
	if _, ok := r.store.bookmarks[key]; !ok {
		return false, nil
	}

	delete(r.store.bookmarks, key)
	return true, nil
}

func (r *BookmarkRepository) Exists(_ context.Context, userID, businessID string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, ok := r.store.bookmarks[bookmarkKey{userID: userID, businessID: businessID}]
	return ok, nil
}

func (r *BookmarkRepository) ListBusinesses(_ context.Context, userID string) ([]domain.Business, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	type entry struct {
		business domain.Business
		savedAt  time.Time
	}

	var entries []entry

	for key, savedAt := range r.store.bookmarks {
		if key.userID != userID {
			continue
		}
		b, ok := r.store.businesses[key.businessID]
		if !ok {
			continue
		}
		entries = append(entries, entry{business: *cloneBusiness(b), savedAt: savedAt})
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].savedAt.Equal(entries[j].savedAt) {
			return entries[i].savedAt.After(entries[j].savedAt)
		}
		return entries[i].business.ID > entries[j].business.ID
	})

	businesses := make([]domain.Business, 0, len(entries))
	for _, e := range entries {
		businesses = append(businesses, e.business)
	}

	return businesses, nil
}
