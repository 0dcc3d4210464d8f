package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Project-Dev-Me/UMKMInfo/internal/service"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/httputil"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/middleware"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/validator"
)

// BookmarkHandler handles HTTP requests for bookmark endpoints.
type BookmarkHandler struct {
	service *service.BookmarkService
	logger  *slog.Logger
}

// NewBookmarkHandler creates a new bookmark HTTP handler.
func NewBookmarkHandler(svc *service.BookmarkService, logger *slog.Logger) *BookmarkHandler {
	return &BookmarkHandler{service: svc, logger: logger}
}

// ToggleBookmarkRequest is the JSON request body for toggling a bookmark.
type ToggleBookmarkRequest struct {
	BusinessID string `json:"umkm_id" validate:"required"`
}

// ToggleBookmarkResponse reports the bookmark state after a toggle.
type ToggleBookmarkResponse struct {
	BusinessID string `json:"umkm_id"`
	Bookmarked bool   `json:"bookmarked"`
}

// CheckBookmarkResponse reports whether a business is bookmarked.
type CheckBookmarkResponse struct {
	IsBookmarked bool `json:"isBookmarked"`
}

// List handles GET /api/bookmarks
func (h *BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	businesses, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, businesses)
}

// Toggle handles POST /api/bookmarks/toggle
func (h *BookmarkHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req ToggleBookmarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	bookmarked, err := h.service.Toggle(r.Context(), userID, req.BusinessID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ToggleBookmarkResponse{
		BusinessID: req.BusinessID,
		Bookmarked: bookmarked,
	})
}

// Check handles GET /api/bookmarks/check/{umkmId}
func (h *BookmarkHandler) Check(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	businessID := chi.URLParam(r, "umkmId")
	if businessID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "business id is required"},
		})
		return
	}

	bookmarked, err := h.service.Check(r.Context(), userID, businessID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, CheckBookmarkResponse{IsBookmarked: bookmarked})
}
