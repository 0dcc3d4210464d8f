package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Project-Dev-Me/UMKMInfo/internal/cache"
	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/internal/event"
	"github.com/Project-Dev-Me/UMKMInfo/internal/repository"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// homeListLimit caps the popular and latest home-screen listings.
const homeListLimit = 10

// BusinessService implements the business logic for directory operations.
type BusinessService struct {
	repo       repository.BusinessRepository
	reviewRepo repository.ReviewRepository
	catRepo    repository.CategoryRepository
	listings   *cache.ListingCache
	producer   *event.Producer
	logger     *slog.Logger
}

// NewBusinessService creates a new business service. listings may be nil when
// no Redis instance is configured.
func NewBusinessService(
	repo repository.BusinessRepository,
	reviewRepo repository.ReviewRepository,
	catRepo repository.CategoryRepository,
	listings *cache.ListingCache,
	producer *event.Producer,
	logger *slog.Logger,
) *BusinessService {
	return &BusinessService{
		repo:       repo,
		reviewRepo: reviewRepo,
		catRepo:    catRepo,
		listings:   listings,
		producer:   producer,
		logger:     logger,
	}
}

// RegisterBusinessInput holds the parameters for registering a business.
type RegisterBusinessInput struct {
	Name        string
	Category    string
	Description string
	Address     string
	Phone       string
	Email       string
	Website     string
	ImageURL    string
	FeaturedURL *string
}

// UpdateBusinessInput holds the parameters for updating a business. Nil
// fields are left unchanged. Status, rating, and review count cannot be
// updated through this input at all.
type UpdateBusinessInput struct {
	Name        *string
	Category    *string
	Description *string
	Address     *string
	Phone       *string
	Email       *string
	Website     *string
	ImageURL    *string
	FeaturedURL *string
}

// ListBusinesses returns publicly visible businesses, optionally filtered by
// category and a case-insensitive search over name, category, and
// description. The "semua" category and an empty category both mean no
// filter.
func (s *BusinessService) ListBusinesses(ctx context.Context, category, search string) ([]domain.Business, error) {
	category = strings.TrimSpace(category)
	if category != "" && category != domain.CategoryAll && !domain.IsValidCategory(category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q, must be one of: %s, %s",
			category, strings.Join(domain.ValidCategories(), ", "), domain.CategoryAll))
	}

	filter := repository.BusinessFilter{
		Category: category,
		Search:   strings.TrimSpace(search),
	}

	businesses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}

	return businesses, nil
}

// PopularBusinesses returns up to 10 visible businesses flagged popular,
// best rated first.
func (s *BusinessService) PopularBusinesses(ctx context.Context) ([]domain.Business, error) {
	if s.listings != nil {
		if businesses, ok := s.listings.GetPopular(ctx); ok {
			return businesses, nil
		}
	}

	businesses, err := s.repo.Popular(ctx, homeListLimit)
	if err != nil {
		return nil, fmt.Errorf("list popular businesses: %w", err)
	}

	if s.listings != nil {
		s.listings.SetPopular(ctx, businesses)
	}

	return businesses, nil
}

// LatestBusinesses returns up to 10 visible businesses, newest first.
func (s *BusinessService) LatestBusinesses(ctx context.Context) ([]domain.Business, error) {
	if s.listings != nil {
		if businesses, ok := s.listings.GetLatest(ctx); ok {
			return businesses, nil
		}
	}

	businesses, err := s.repo.Latest(ctx, homeListLimit)
	if err != nil {
		return nil, fmt.Errorf("list latest businesses: %w", err)
	}

	if s.listings != nil {
		s.listings.SetLatest(ctx, businesses)
	}

	return businesses, nil
}

// GetBusiness returns a visible business together with its reviews. A
// business that exists but is not publicly visible reports not found; owners
// reach their own pending businesses through MyBusinesses.
func (s *BusinessService) GetBusiness(ctx context.Context, id string) (*domain.BusinessDetail, error) {
	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get business by id: %w", err)
	}

	if !business.Visible() {
		return nil, apperrors.NotFound("business", id)
	}

	detail := &domain.BusinessDetail{Business: *business}

	reviews, err := s.reviewRepo.ListByBusiness(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load business reviews",
			slog.String("umkm_id", id),
			slog.String("error", err.Error()),
		)
		reviews = []domain.Review{}
	}
	detail.Reviews = reviews

	return detail, nil
}

// MyBusinesses returns the requester's own businesses regardless of status,
// newest first.
func (s *BusinessService) MyBusinesses(ctx context.Context, ownerID string) ([]domain.Business, error) {
	businesses, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list businesses by owner: %w", err)
	}
	return businesses, nil
}

// RegisterBusiness creates a new business for the owner. Status, popularity,
// the newly-joined flag, rating, and review count are forced to their initial
// values; whatever the client sent for those fields never reaches the store.
func (s *BusinessService) RegisterBusiness(ctx context.Context, ownerID string, input *RegisterBusinessInput) (*domain.Business, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("business name is required")
	}
	if !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of: %s", strings.Join(domain.ValidCategories(), ", ")))
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.InvalidInput("description is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, apperrors.InvalidInput("address is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return nil, apperrors.InvalidInput("phone is required")
	}

	now := time.Now().UTC()
	business := &domain.Business{
		ID:            uuid.New().String(),
		OwnerID:       ownerID,
		Name:          strings.TrimSpace(input.Name),
		Category:      input.Category,
		Description:   input.Description,
		Address:       input.Address,
		Phone:         input.Phone,
		Email:         input.Email,
		Website:       input.Website,
		ImageURL:      input.ImageURL,
		FeaturedURL:   input.FeaturedURL,
		Rating:        0,
		ReviewCount:   0,
		Status:        domain.StatusPending,
		IsPopular:     false,
		IsNewlyJoined: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, business); err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}

	if err := s.producer.PublishBusinessCreated(ctx, business); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish business.created event",
			slog.String("umkm_id", business.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateListings(ctx)

	s.logger.InfoContext(ctx, "business registered",
		slog.String("umkm_id", business.ID),
		slog.String("owner_id", ownerID),
		slog.String("category", business.Category),
	)

	return business, nil
}

// UpdateBusiness applies partial updates to a business owned by the
// requester. Status stays whatever moderation last set it to, and the rating
// aggregate is never written here.
func (s *BusinessService) UpdateBusiness(ctx context.Context, id, requesterID string, input *UpdateBusinessInput) (*domain.Business, error) {
	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get business for update: %w", err)
	}

	if business.OwnerID != requesterID {
		return nil, apperrors.Forbidden("only the owner can update this business")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.InvalidInput("business name must not be empty")
		}
		business.Name = strings.TrimSpace(*input.Name)
	}
	if input.Category != nil {
		if !domain.IsValidCategory(*input.Category) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("category must be one of: %s", strings.Join(domain.ValidCategories(), ", ")))
		}
		business.Category = *input.Category
	}
	if input.Description != nil {
		business.Description = *input.Description
	}
	if input.Address != nil {
		business.Address = *input.Address
	}
	if input.Phone != nil {
		business.Phone = *input.Phone
	}
	if input.Email != nil {
		business.Email = *input.Email
	}
	if input.Website != nil {
		business.Website = *input.Website
	}
	if input.ImageURL != nil {
		business.ImageURL = *input.ImageURL
	}
	if input.FeaturedURL != nil {
		business.FeaturedURL = input.FeaturedURL
	}

	if err := s.repo.Update(ctx, business); err != nil {
		return nil, fmt.Errorf("update business: %w", err)
	}

	if err := s.producer.PublishBusinessUpdated(ctx, business); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish business.updated event",
			slog.String("umkm_id", business.ID),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateListings(ctx)

	s.logger.InfoContext(ctx, "business updated",
		slog.String("umkm_id", business.ID),
		slog.String("owner_id", requesterID),
	)

	return business, nil
}

// DeleteBusiness removes a business owned by the requester. Its reviews and
// bookmarks go with it.
func (s *BusinessService) DeleteBusiness(ctx context.Context, id, requesterID string) error {
	business, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get business for delete: %w", err)
	}

	if business.OwnerID != requesterID {
		return apperrors.Forbidden("only the owner can delete this business")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete business: %w", err)
	}

	if err := s.producer.PublishBusinessDeleted(ctx, id, business.OwnerID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish business.deleted event",
			slog.String("umkm_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.invalidateListings(ctx)

	s.logger.InfoContext(ctx, "business deleted",
		slog.String("umkm_id", id),
		slog.String("owner_id", requesterID),
	)

	return nil
}

// ListCategories returns the directory categories for the explore screen.
func (s *BusinessService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.catRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *BusinessService) invalidateListings(ctx context.Context) {
	if s.listings != nil {
		s.listings.Invalidate(ctx)
	}
}
