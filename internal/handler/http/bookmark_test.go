package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Project-Dev-Me/UMKMInfo/internal/domain"
	"github.com/Project-Dev-Me/UMKMInfo/internal/service"
	apperrors "github.com/Project-Dev-Me/UMKMInfo/pkg/errors"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/middleware"
)

func bookmarkTestHandler(repo *mockBookmarkRepo) *BookmarkHandler {
	svc := service.NewBookmarkService(repo, handlerTestLogger())
	return NewBookmarkHandler(svc, handlerTestLogger())
}

func setupBookmarkRouter(handler *BookmarkHandler, userID string) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(middleware.Auth(fakeTokenValidator(userID)))
		r.Get("/", handler.List)
		r.Post("/toggle", handler.Toggle)
		r.Get("/check/{umkmId}", handler.Check)
	})
	return r
}

func toggleBody(businessID string) []byte {
	body, _ := json.Marshal(ToggleBookmarkRequest{BusinessID: businessID})
	return body
}

func TestToggleBookmark_Adds(t *testing.T) {
	repo := new(mockBookmarkRepo)
	router := setupBookmarkRouter(bookmarkTestHandler(repo), handlerUserID)

	repo.On("Add", mock.Anything, handlerUserID, handlerBusinessID).Return(true, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks/toggle", bytes.NewReader(toggleBody(handlerBusinessID)))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ToggleBookmarkResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Bookmarked)
	assert.Equal(t, handlerBusinessID, resp.BusinessID)
	repo.AssertNotCalled(t, "Remove")
}

func TestToggleBookmark_Removes(t *testing.T) {
	repo := new(mockBookmarkRepo)
	router := setupBookmarkRouter(bookmarkTestHandler(repo), handlerUserID)

	repo.On("Add", mock.Anything, handlerUserID, handlerBusinessID).Return(false, nil)
	repo.On("Remove", mock.Anything, handlerUserID, handlerBusinessID).Return(true, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks/toggle", bytes.NewReader(toggleBody(handlerBusinessID)))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ToggleBookmarkResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Bookmarked)
	repo.AssertExpectations(t)
}

func TestToggleBookmark_MissingBusinessID(t *testing.T) {
	repo := new(mockBookmarkRepo)
	router := setupBookmarkRouter(bookmarkTestHandler(repo), handlerUserID)

	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks/toggle", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	repo.AssertNotCalled(t, "Add")
}

func TestToggleBookmark_BusinessNotFound(t *testing.T) {
	repo := new(mockBookmarkRepo)
	router := setupBookmarkRouter(bookmarkTestHandler(repo), handlerUserID)

	repo.On("Add", mock.Anything, handlerUserID, "missing").
		Return(false, apperrors.NotFound("business", "missing"))

	req := httptest.NewRequest(http.MethodPost, "/api/bookmarks/toggle", bytes.NewReader(toggleBody("missing")))
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	repo.AssertNotCalled(t, "Remove")
}

func TestListBookmarks_Success(t *testing.T) {
	repo := new(mockBookmarkRepo)
	router := setupBookmarkRouter(bookmarkTestHandler(repo), handlerUserID)

	repo.On("ListBusinesses", mock.Anything, handlerUserID).Return([]domain.Business{*sampleBusiness()}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var businesses []domain.Business
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&businesses))
	require.Len(t, businesses, 1)
}

func TestCheckBookmark_Success(t *testing.T) {
	repo := new(mockBookmarkRepo)
	router := setupBookmarkRouter(bookmarkTestHandler(repo), handlerUserID)

	repo.On("Exists", mock.Anything, handlerUserID, handlerBusinessID).Return(true, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks/check/"+handlerBusinessID, nil)
	req.Header.Set("Authorization", "Bearer test-token")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isBookmarked": true}`, rec.Body.String())
}

func TestBookmarks_Unauthorized(t *testing.T) {
	repo := new(mockBookmarkRepo)
	handler := bookmarkTestHandler(repo)

	r := chi.NewRouter()
	r.Get("/api/bookmarks", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/api/bookmarks", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "ListBusinesses")
}
