package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/internal/repository"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/database"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// businessColumns is the standard SELECT column list for businesses.
const businessColumns = `id, owner_id, name, category, description, address, phone, email,
	website, image_url, featured_url, rating, review_count, status,
	is_popular, is_newly_joined, created_at, updated_at`

// BusinessRepository implements repository.BusinessRepository using PostgreSQL.
type BusinessRepository struct {
	pool database.DBTX
}

// NewBusinessRepository creates a new PostgreSQL-backed business repository.
func NewBusinessRepository(pool database.DBTX) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

// Create inserts a new business into the database.
func (r *BusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	query := `
		INSERT INTO umkm_businesses (id, owner_id, name, category, description, address, phone, email,
			website, image_url, featured_url, rating, review_count, status,
			is_popular, is_newly_joined, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.OwnerID,
		b.Name,
		b.Category,
		b.Description,
		b.Address,
		b.Phone,
		b.Email,
		b.Website,
		b.ImageURL,
		b.FeaturedURL,
		b.Rating,
		b.ReviewCount,
		b.Status,
		b.IsPopular,
		b.IsNewlyJoined,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert business: %w", err)
	}

	return nil
}

// GetByID retrieves a business by its ID, regardless of status.
func (r *BusinessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	query := fmt.Sprintf(`SELECT %s FROM umkm_businesses WHERE id = $1`, businessColumns)

	return r.scanBusiness(ctx, query, id)
}

// List returns publicly visible businesses matching the given filter, ordered
// by rating descending, then review count descending, then id for determinism.
func (r *BusinessRepository) List(ctx context.Context, filter repository.BusinessFilter) ([]domain.Business, error) {
	conditions := []string{"status = ANY($1)"}
	args := []any{domain.VisibleStatuses()}
	argIndex := 2

	if filter.Category != "" && filter.Category != domain.CategoryAll {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE $%d OR category ILIKE $%d OR description ILIKE $%d)",
			argIndex, argIndex, argIndex,
		))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argIndex++
	}

	// The visible set is returned whole; a LIMIT is applied only when the
	// caller asks for one.
	limitClause := ""
	if filter.Limit > 0 {
		limitClause = fmt.Sprintf("\n\t\tLIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM umkm_businesses
		WHERE %s
		ORDER BY rating DESC, review_count DESC, id ASC%s`,
		businessColumns, strings.Join(conditions, " AND "), limitClause,
	)

	return r.queryBusinesses(ctx, query, args...)
}

// Popular returns up to limit visible businesses flagged popular, best rated first.
func (r *BusinessRepository) Popular(ctx context.Context, limit int) ([]domain.Business, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM umkm_businesses
		WHERE is_popular = TRUE AND status = ANY($1)
		ORDER BY rating DESC, review_count DESC, id ASC
		LIMIT $2`,
		businessColumns,
	)

	return r.queryBusinesses(ctx, query, domain.VisibleStatuses(), limit)
}

// Latest returns up to limit visible businesses, newest first.
func (r *BusinessRepository) Latest(ctx context.Context, limit int) ([]domain.Business, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM umkm_businesses
		WHERE status = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2`,
		businessColumns,
	)

	return r.queryBusinesses(ctx, query, domain.VisibleStatuses(), limit)
}

// ListByOwner returns all businesses registered by the owner, any status, newest first.
func (r *BusinessRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM umkm_businesses
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC`,
		businessColumns,
	)

	return r.queryBusinesses(ctx, query, ownerID)
}

// Update modifies an existing business. Rating and review count are not
// touched here; they are maintained solely by the review aggregate refresh.
func (r *BusinessRepository) Update(ctx context.Context, b *domain.Business) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE umkm_businesses
		SET name = $1, category = $2, description = $3, address = $4, phone = $5,
		    email = $6, website = $7, image_url = $8, featured_url = $9,
		    status = $10, is_popular = $11, is_newly_joined = $12, updated_at = $13
		WHERE id = $14`

	ct, err := r.pool.Exec(ctx, query,
		b.Name,
		b.Category,
		b.Description,
		b.Address,
		b.Phone,
		b.Email,
		b.Website,
		b.ImageURL,
		b.FeaturedURL,
		b.Status,
		b.IsPopular,
		b.IsNewlyJoined,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("business", b.ID)
	}

	return nil
}

// Delete removes a business. Reviews and bookmarks cascade via foreign keys.
func (r *BusinessRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM umkm_businesses WHERE id = $1`

	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("business", id)
	}

	return nil
}

// scanBusiness is a helper that executes a query expected to return a single business row.
func (r *BusinessRepository) scanBusiness(ctx context.Context, query string, args ...any) (*domain.Business, error) {
	var b domain.Business

	err := r.pool.QueryRow(ctx, query, args...).Scan(
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
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan business: %w", err)
	}

	return &b, nil
}

// queryBusinesses executes a multi-row business query and scans the results.
func (r *BusinessRepository) queryBusinesses(ctx context.Context, query string, args ...any) ([]domain.Business, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
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
			return nil, fmt.Errorf("scan business row: %w", err)
		}

		businesses = append(businesses, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate business rows: %w", err)
	}

	if businesses == nil {
		businesses = []domain.Business{}
	}

	return businesses, nil
}

// escapeLike neutralizes LIKE wildcards in a user-supplied search term so a
// query such as "100%" matches the literal text instead of everything.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
