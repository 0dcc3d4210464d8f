package postgres

import (
	"context"
	"fmt"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/database"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// BookmarkRepository implements repository.BookmarkRepository using PostgreSQL.
type BookmarkRepository struct {
	pool database.DBTX
}

// NewBookmarkRepository creates a new PostgreSQL-backed bookmark repository.
func NewBookmarkRepository(pool database.DBTX) *BookmarkRepository {
	return &BookmarkRepository{pool: pool}
}

// Add creates the bookmark if it does not exist yet. It reports true when a
// row was inserted and false when the pair was already bookmarked; the unique
// constraint makes concurrent toggles safe.
func (r *BookmarkRepository) Add(ctx context.Context, userID, businessID string) (bool, error) {
	query := `
		INSERT INTO bookmarks (user_id, umkm_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, umkm_id) DO NOTHING`

	ct, err := r.pool.Exec(ctx, query, userID, businessID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, apperrors.NotFound("business", businessID)
		}
		return false, fmt.Errorf("insert bookmark: %w", err)
	}

	return ct.RowsAffected() == 1, nil
}

// Remove deletes the bookmark and reports whether a row existed.
func (r *BookmarkRepository) Remove(ctx context.Context, userID, businessID string) (bool, error) {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND umkm_id = $2`

	ct, err := r.pool.Exec(ctx, query, userID, businessID)
	if err != nil {
		return false, fmt.Errorf("delete bookmark: %w", err)
	}

	return ct.RowsAffected() == 1, nil
}

// Exists reports whether the user has bookmarked the business.
func (r *BookmarkRepository) Exists(ctx context.Context, userID, businessID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookmarks WHERE user_id = $1 AND umkm_id = $2)`

	var exists bool

	if err := r.pool.QueryRow(ctx, query, userID, businessID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}

	return exists, nil
}

// ListBusinesses returns the businesses the user has bookmarked, most
// recently bookmarked first.
func (r *BookmarkRepository) ListBusinesses(ctx context.Context, userID string) ([]domain.Business, error) {
	query := `
		SELECT b.id, b.owner_id, b.name, b.category, b.description, b.address, b.phone, b.email,
		       b.website, b.image_url, b.featured_url, b.rating, b.review_count, b.status,
		       b.is_popular, b.is_newly_joined, b.created_at, b.updated_at
		FROM bookmarks bk
		JOIN umkm_businesses b ON b.id = bk.umkm_id
		WHERE bk.user_id = $1
		ORDER BY bk.created_at DESC, b.id DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var businesses []domain.Business

	for rows.Next() {
		var b domain.Business

		if err := rows.Scan(
			&b.ID,
			&b.OwnerID,
			&b.Name,
			&b.Category,
			&b.Description,
			&b.Address,
			&b.Phone,
			&b.Email,
			&b.Website,
			&b.ImageURL,
			&b.FeaturedURL,
			&b.Rating,
			&b.ReviewCount,
			&b.Status,
			&b.IsPopular,
			&b.IsNewlyJoined,
			&b.CreatedAt,
			&b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bookmarked business: %w", err)
		}

		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmark rows: %w", err)
	}

	if businesses == nil {
		businesses = []domain.Business{}
	}

	return businesses, nil
}
