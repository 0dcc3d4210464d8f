package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/database"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// ReviewRepository implements repository.ReviewRepository using PostgreSQL.
type ReviewRepository struct {
	pool database.DBTX
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool database.DBTX) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

// Create inserts a new review. A foreign key violation on umkm_id means the
// business disappeared between validation and insert and maps to not found.
func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (id, umkm_id, user_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		review.ID,
		review.BusinessID,
		review.UserID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("business", review.BusinessID)
		}
		return fmt.Errorf("insert review: %w", err)
	}

	return nil
}

// ListByBusiness returns all reviews for a business, newest first, with the
// author's display name and avatar joined in.
func (r *ReviewRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Review, error) {
	query := `
		SELECT rv.id, rv.umkm_id, rv.user_id, rv.rating, rv.comment,
		       u.full_name, u.avatar_url, rv.created_at
		FROM reviews rv
		JOIN users u ON u.id = rv.user_id
		WHERE rv.umkm_id = $1
		ORDER BY rv.created_at DESC, rv.id DESC`

	rows, err := r.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review

	for rows.Next() {
		var rv domain.Review

		if err := rows.Scan(
			&rv.ID,
			&rv.BusinessID,
			&rv.UserID,
			&rv.Rating,
			&rv.Comment,
			&rv.AuthorName,
			&rv.AuthorURL,
			&rv.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan review row: %w", err)
		}

		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}

// RefreshAggregate recomputes the business rating and review count from the
// reviews table in a single statement, so concurrent reviewers can never leave
// the stored aggregate out of sync with the review rows.
func (r *ReviewRepository) RefreshAggregate(ctx context.Context, businessID string) (*domain.RatingSummary, error) {
	query := `
		UPDATE umkm_businesses b
		SET rating = COALESCE(sub.avg_rating, 0),
		    review_count = sub.review_count,
		    updated_at = now()
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 1)::float8 AS avg_rating,
			       COUNT(*) AS review_count
			FROM reviews
			WHERE umkm_id = $1
		) sub
		WHERE b.id = $1
		RETURNING b.rating, b.review_count`

	var summary domain.RatingSummary

	err := r.pool.QueryRow(ctx, query, businessID).Scan(&summary.Rating, &summary.ReviewCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("business", businessID)
		}
		return nil, fmt.Errorf("refresh rating aggregate: %w", err)
	}

	return &summary, nil
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation (SQLSTATE 23503).
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23503")
}
