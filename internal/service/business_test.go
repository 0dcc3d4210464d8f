package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
	pkgkafka "github.com/Project-Dev-Me/UMKMInfo/pkg/kafka"
	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/internal/event"
	"github.com/Project-Dev-Me/UMKMInfo/internal/repository"
)

// --- Mock Repositories ---

type mockBusinessRepository struct {
	mock.Mock
}

func (m *mockBusinessRepository) Create(ctx context.Context, b *domain.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBusinessRepository) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Business), args.Error(1)
}

func (m *mockBusinessRepository) List(ctx context.Context, filter repository.BusinessFilter) ([]domain.Business, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Business), args.Error(1)
}

func (m *mockBusinessRepository) Popular(ctx context.Context, limit int) ([]domain.Business, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Business), args.Error(1)
}

func (m *mockBusinessRepository) Latest(ctx context.Context, limit int) ([]domain.Business, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Business), args.Error(1)
}

func (m *mockBusinessRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Business, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]domain.Business), args.Error(1)
}

func (m *mockBusinessRepository) Update(ctx context.Context, b *domain.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBusinessRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	return args.Error(0)
}

func (m *mockReviewRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Review, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewRepository) RefreshAggregate(ctx context.Context, businessID string) (*domain.RatingSummary, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RatingSummary), args.Error(1)
}

type mockBookmarkRepository struct {
	mock.Mock
}

func (m *mockBookmarkRepository) Add(ctx context.Context, userID, businessID string) (bool, error) {
	args := m.Called(ctx, userID, businessID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookmarkRepository) Remove(ctx context.Context, userID, businessID string) (bool, error) {
	args := m.Called(ctx, userID, businessID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookmarkRepository) Exists(ctx context.Context, userID, businessID string) (bool, error) {
	args := m.Called(ctx, userID, businessID)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookmarkRepository) ListBusinesses(ctx context.Context, userID string) ([]domain.Business, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Business), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

type mockCategoryRepository struct {
	mock.Mock
}

func (m *mockCategoryRepository) ListAll(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Category), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer() *event.Producer {
	logger := newTestLogger()
	// A Kafka producer pointed at nothing fails silently in tests.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func newTestBusinessService(repo *mockBusinessRepository, reviewRepo *mockReviewRepository, catRepo *mockCategoryRepository) *BusinessService {
	return NewBusinessService(repo, reviewRepo, catRepo, nil, newTestProducer(), newTestLogger())
}

func strPtr(s string) *string { return &s }

func activeBusiness(id, ownerID string) *domain.Business {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Business{
		ID:          id,
		OwnerID:     ownerID,
		Name:        "Warung Makan Sederhana",
		Category:    domain.CategoryMakanan,
		Description: "Masakan rumahan",
		Address:     "Jl. Melati No. 5",
		Phone:       "081234567890",
		Rating:      4.2,
		ReviewCount: 7,
		Status:      domain.StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func validRegisterInput() *RegisterBusinessInput {
	return &RegisterBusinessInput{
		Name:        "Batik Cantik",
		Category:    domain.CategoryFashion,
		Description: "Batik tulis asli",
		Address:     "Jl. Malioboro No. 10",
		Phone:       "081234567890",
		Email:       "batik@example.com",
	}
}

// --- Tests ---

func TestListBusinesses_Success(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	expected := []domain.Business{*activeBusiness("biz-1", "user-1")}
	repo.On("List", ctx, repository.BusinessFilter{Category: domain.CategoryMakanan, Search: "warung"}).
		Return(expected, nil)

	businesses, err := svc.ListBusinesses(ctx, domain.CategoryMakanan, "warung")
	require.NoError(t, err)
	assert.Equal(t, expected, businesses)
	repo.AssertExpectations(t)
}

func TestListBusinesses_AllSentinel(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("List", ctx, repository.BusinessFilter{Category: domain.CategoryAll}).
		Return([]domain.Business{}, nil)

	_, err := svc.ListBusinesses(ctx, domain.CategoryAll, "")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestListBusinesses_UnknownCategory(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))

	_, err := svc.ListBusinesses(context.Background(), "elektronik", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestPopularBusinesses_CapsAtTen(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("Popular", ctx, 10).Return([]domain.Business{}, nil)

	_, err := svc.PopularBusinesses(ctx)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLatestBusinesses_CapsAtTen(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("Latest", ctx, 10).Return([]domain.Business{}, nil)

	_, err := svc.LatestBusinesses(ctx)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetBusiness_WithReviews(t *testing.T) {
	repo := new(mockBusinessRepository)
	reviewRepo := new(mockReviewRepository)
	svc := newTestBusinessService(repo, reviewRepo, new(mockCategoryRepository))
	ctx := context.Background()

	b := activeBusiness("biz-1", "user-1")
	reviews := []domain.Review{{ID: "rev-1", BusinessID: "biz-1", UserID: "user-2", Rating: 5, AuthorName: "Siti"}}

	repo.On("GetByID", ctx, "biz-1").Return(b, nil)
	reviewRepo.On("ListByBusiness", ctx, "biz-1").Return(reviews, nil)

	detail, err := svc.GetBusiness(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, "biz-1", detail.ID)
	assert.Equal(t, reviews, detail.Reviews)
	repo.AssertExpectations(t)
	reviewRepo.AssertExpectations(t)
}

func TestGetBusiness_PendingHidden(t *testing.T) {
	repo := new(mockBusinessRepository)
	reviewRepo := new(mockReviewRepository)
	svc := newTestBusinessService(repo, reviewRepo, new(mockCategoryRepository))
	ctx := context.Background()

	b := activeBusiness("biz-1", "user-1")
	b.Status = domain.StatusPending

	repo.On("GetByID", ctx, "biz-1").Return(b, nil)

	_, err := svc.GetBusiness(ctx, "biz-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	reviewRepo.AssertNotCalled(t, "ListByBusiness", mock.Anything, mock.Anything)
}

func TestGetBusiness_ReviewLoadFailureDegrades(t *testing.T) {
	repo := new(mockBusinessRepository)
	reviewRepo := new(mockReviewRepository)
	svc := newTestBusinessService(repo, reviewRepo, new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("GetByID", ctx, "biz-1").Return(activeBusiness("biz-1", "user-1"), nil)
	reviewRepo.On("ListByBusiness", ctx, "biz-1").Return(nil, errors.New("connection refused"))

	detail, err := svc.GetBusiness(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Review{}, detail.Reviews)
}

func TestRegisterBusiness_ForcesInitialState(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	var created *domain.Business
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Business")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Business) }).
		Return(nil)

	business, err := svc.RegisterBusiness(ctx, "owner-1", validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, domain.StatusPending, business.Status)
	assert.Equal(t, 0.0, business.Rating)
	assert.Equal(t, 0, business.ReviewCount)
	assert.False(t, business.IsPopular)
	assert.True(t, business.IsNewlyJoined)
	assert.Equal(t, "owner-1", business.OwnerID)
	assert.NotEmpty(t, business.ID)
	assert.Equal(t, created, business)
}

func TestRegisterBusiness_Validation(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*RegisterBusinessInput)
	}{
		{"missing name", func(in *RegisterBusinessInput) { in.Name = "  " }},
		{"unknown category", func(in *RegisterBusinessInput) { in.Category = "elektronik" }},
		{"all sentinel not registerable", func(in *RegisterBusinessInput) { in.Category = domain.CategoryAll }},
		{"missing description", func(in *RegisterBusinessInput) { in.Description = "" }},
		{"missing address", func(in *RegisterBusinessInput) { in.Address = "" }},
		{"missing phone", func(in *RegisterBusinessInput) { in.Phone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validRegisterInput()
			tt.mutate(input)

			_, err := svc.RegisterBusiness(ctx, "owner-1", input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateBusiness_Success(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	b := activeBusiness("biz-1", "owner-1")
	repo.On("GetByID", ctx, "biz-1").Return(b, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Business")).Return(nil)

	updated, err := svc.UpdateBusiness(ctx, "biz-1", "owner-1", &UpdateBusinessInput{
		Name:        strPtr("Warung Baru"),
		Description: strPtr("Menu baru setiap minggu"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Warung Baru", updated.Name)
	assert.Equal(t, "Menu baru setiap minggu", updated.Description)
	// Status and the derived aggregate survive untouched.
	assert.Equal(t, domain.StatusActive, updated.Status)
	assert.Equal(t, 4.2, updated.Rating)
	assert.Equal(t, 7, updated.ReviewCount)
	repo.AssertExpectations(t)
}

func TestUpdateBusiness_Forbidden(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("GetByID", ctx, "biz-1").Return(activeBusiness("biz-1", "owner-1"), nil)

	_, err := svc.UpdateBusiness(ctx, "biz-1", "intruder", &UpdateBusinessInput{Name: strPtr("Hijacked")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateBusiness_NotFound(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.ErrNotFound)

	_, err := svc.UpdateBusiness(ctx, "missing", "owner-1", &UpdateBusinessInput{})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteBusiness_Success(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("GetByID", ctx, "biz-1").Return(activeBusiness("biz-1", "owner-1"), nil)
	repo.On("Delete", ctx, "biz-1").Return(nil)

	err := svc.DeleteBusiness(ctx, "biz-1", "owner-1")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestDeleteBusiness_Forbidden(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	repo.On("GetByID", ctx, "biz-1").Return(activeBusiness("biz-1", "owner-1"), nil)

	err := svc.DeleteBusiness(ctx, "biz-1", "intruder")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestMyBusinesses_IncludesAllStatuses(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := newTestBusinessService(repo, new(mockReviewRepository), new(mockCategoryRepository))
	ctx := context.Background()

	pending := *activeBusiness("biz-1", "owner-1")
	pending.Status = domain.StatusPending

	repo.On("ListByOwner", ctx, "owner-1").Return([]domain.Business{pending}, nil)

	businesses, err := svc.MyBusinesses(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, businesses, 1)
	assert.Equal(t, domain.StatusPending, businesses[0].Status)
}

func TestListCategories_Success(t *testing.T) {
	catRepo := new(mockCategoryRepository)
	svc := newTestBusinessService(new(mockBusinessRepository), new(mockReviewRepository), catRepo)
	ctx := context.Background()

	expected := []domain.Category{{ID: "cat-1", Name: "makanan"}}
	catRepo.On("ListAll", ctx).Return(expected, nil)

	categories, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, categories)
}
