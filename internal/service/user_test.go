package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
	"github.com/Project-Dev-Me/UMKMInfo/internal/auth"
	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
)

func newTestUserService(repo *mockUserRepository) *UserService {
	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	return NewUserService(repo, jwtManager, newTestLogger())
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestUserRegister_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	var created *domain.User
	repo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.User) }).
		Return(nil)

	user, tokens, err := svc.Register(ctx, RegisterInput{
		Email:    "Budi@Example.com",
		Password: "rahasia-123",
		FullName: "Budi Santoso",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "budi@example.com", user.Email) // normalized
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.NotEqual(t, "rahasia-123", created.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("rahasia-123")))
}

func TestUserRegister_Validation(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "rahasia-123", FullName: "Budi"}},
		{"malformed email", RegisterInput{Email: "not-an-email", Password: "rahasia-123", FullName: "Budi"}},
		{"missing name", RegisterInput{Email: "budi@example.com", Password: "rahasia-123"}},
		{"short password", RegisterInput{Email: "budi@example.com", Password: "short", FullName: "Budi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUserLogin_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	stored := &domain.User{
		ID:           "user-1",
		Email:        "budi@example.com",
		PasswordHash: hashPassword(t, "rahasia-123"),
	}
	repo.On("GetByEmail", ctx, "budi@example.com").Return(stored, nil)

	user, tokens, err := svc.Login(ctx, LoginInput{Email: "budi@example.com", Password: "rahasia-123"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestUserLogin_WrongPassword(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", Email: "budi@example.com", PasswordHash: hashPassword(t, "rahasia-123")}
	repo.On("GetByEmail", ctx, "budi@example.com").Return(stored, nil)

	_, _, err := svc.Login(ctx, LoginInput{Email: "budi@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserLogin_UnknownEmail(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	// Unknown account must look identical to a wrong password.
	_, _, err := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "whatever-123"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRefreshToken_RoundTrip(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", Email: "budi@example.com"}
	repo.On("GetByID", ctx, "user-1").Return(stored, nil)

	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute, 24*time.Hour)
	refreshToken, err := jwtManager.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	tokens, err := svc.RefreshToken(ctx, refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestRefreshToken_Invalid(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)

	_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestChangePassword_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", PasswordHash: hashPassword(t, "rahasia-123")}
	repo.On("GetByID", ctx, "user-1").Return(stored, nil)
	repo.On("UpdatePassword", ctx, "user-1", mock.AnythingOfType("string")).Return(nil)

	err := svc.ChangePassword(ctx, "user-1", "rahasia-123", "rahasia-456")
	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", PasswordHash: hashPassword(t, "rahasia-123")}
	repo.On("GetByID", ctx, "user-1").Return(stored, nil)

	err := svc.ChangePassword(ctx, "user-1", "wrong-password", "rahasia-456")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	repo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangePassword_SameAsCurrent(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)

	err := svc.ChangePassword(context.Background(), "user-1", "rahasia-123", "rahasia-123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateProfile_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	stored := &domain.User{ID: "user-1", Email: "budi@example.com", FullName: "Budi Santoso"}
	repo.On("GetByID", ctx, "user-1").Return(stored, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.UpdateProfile(ctx, "user-1", UpdateProfileInput{
		FullName: strPtr("Budi S."),
		Phone:    strPtr("081234567890"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Budi S.", user.FullName)
	assert.Equal(t, "081234567890", user.Phone)
}

func TestUpdateProfile_EmptyName(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newTestUserService(repo)
	ctx := context.Background()

	repo.On("GetByID", ctx, "user-1").Return(&domain.User{ID: "user-1"}, nil)

	_, err := svc.UpdateProfile(ctx, "user-1", UpdateProfileInput{FullName: strPtr("  ")})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
