package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/internal/repository"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
)

// BookmarkService implements the business logic for bookmark operations.
type BookmarkService struct {
	repo   repository.BookmarkRepository
	logger *slog.Logger
}

// NewBookmarkService creates a new bookmark service.
func NewBookmarkService(repo repository.BookmarkRepository, logger *slog.Logger) *BookmarkService {
	return &BookmarkService{
		repo:   repo,
		logger: logger,
	}
}

// Toggle flips the bookmark state for the (user, business) pair and reports
// the resulting state: true when the business is now bookmarked, false when
// the toggle removed an existing bookmark. A concurrent duplicate insert is
// treated as already-bookmarked and converges to removal.
func (s *BookmarkService) Toggle(ctx context.Context, userID, businessID string) (bool, error) {
	if businessID == "" {
		return false, apperrors.InvalidInput("umkm_id is required")
	}

	inserted, err := s.repo.Add(ctx, userID, businessID)
	if err != nil {
		return false, fmt.Errorf("add bookmark: %w", err)
	}

	if inserted {
		s.logger.InfoContext(ctx, "bookmark added",
			slog.String("user_id", userID),
			slog.String("umkm_id", businessID),
		)
		return true, nil
	}

	if _, err := s.repo.Remove(ctx, userID, businessID); err != nil {
		return false, fmt.Errorf("remove bookmark: %w", err)
	}

	s.logger.InfoContext(ctx, "bookmark removed",
		slog.String("user_id", userID),
		slog.String("umkm_id", businessID),
	)

	return false, nil
}

// List returns the businesses the user has bookmarked.
func (s *BookmarkService) List(ctx context.Context, userID string) ([]domain.Business, error) {
	businesses, err := s.repo.ListBusinesses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	return businesses, nil
}

// Check reports whether the user has bookmarked the business.
func (s *BookmarkService) Check(ctx context.Context, userID, businessID string) (bool, error) {
	if businessID == "" {
		return false, apperrors.InvalidInput("umkm_id is required")
	}

	bookmarked, err := s.repo.Exists(ctx, userID, businessID)
	if err != nil {
		return false, fmt.Errorf("check bookmark: %w", err)
	}

	return bookmarked, nil
}
