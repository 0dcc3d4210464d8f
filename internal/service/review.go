package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Project-Dev-Me/UMKMInfo/internal/cache"
	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/internal/event"
	"github.com/Project-Dev-Me/UMKMInfo/internal/repository"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// AddReviewInput holds the parameters for creating a review.
type AddReviewInput struct {
	BusinessID string
	UserID     string
	Rating     int
	Comment    string
}

// ReviewService implements the business logic for review operations.
type ReviewService struct {
	repo     repository.ReviewRepository
	listings *cache.ListingCache
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service. listings may be nil when no
// Redis instance is configured.
func NewReviewService(repo repository.ReviewRepository, listings *cache.ListingCache, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:     repo,
		listings: listings,
		producer: producer,
		logger:   logger,
	}
}

// AddReview creates a review and refreshes the parent business's rating
// aggregate. The review insert is authoritative: if the aggregate refresh
// fails it is logged and left to self-heal on the next review, never failing
// the request that inserted the review.
func (s *ReviewService) AddReview(ctx context.Context, input *AddReviewInput) (*domain.Review, error) {
	if input.BusinessID == "" {
		return nil, apperrors.InvalidInput("umkm_id is required")
	}
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review := &domain.Review{
		ID:         uuid.New().String(),
		BusinessID: input.BusinessID,
		UserID:     input.UserID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}

	summary, err := s.repo.RefreshAggregate(ctx, input.BusinessID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to refresh rating aggregate",
			slog.String("umkm_id", input.BusinessID),
			slog.String("review_id", review.ID),
			slog.String("error", err.Error()),
		)
	} else {
		if err := s.producer.PublishReviewCreated(ctx, review, summary); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish review.created event",
				slog.String("review_id", review.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	if s.listings != nil {
		s.listings.Invalidate(ctx)
	}

	s.logger.InfoContext(ctx, "review created",
		slog.String("review_id", review.ID),
		slog.String("umkm_id", review.BusinessID),
		slog.String("user_id", review.UserID),
		slog.Int("rating", review.Rating),
	)

	return review, nil
}

// ListReviews returns all reviews for a business, newest first.
func (s *ReviewService) ListReviews(ctx context.Context, businessID string) ([]domain.Review, error) {
	reviews, err := s.repo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}
