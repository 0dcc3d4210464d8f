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

// BusinessHandler handles HTTP requests for business directory endpoints.
type BusinessHandler struct {
	service *service.BusinessService
	logger  *slog.Logger
}

// NewBusinessHandler creates a new business HTTP handler.
func NewBusinessHandler(svc *service.BusinessService, logger *slog.Logger) *BusinessHandler {
	return &BusinessHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterBusinessRequest is the JSON request body for registering a business.
type RegisterBusinessRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required,min=1,max=2000"`
	Address     string  `json:"address" validate:"required,min=1,max=500"`
	Phone       string  `json:"phone" validate:"required,max=20"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Website     string  `json:"website" validate:"omitempty,max=500"`
	ImageURL    string  `json:"image_url" validate:"omitempty,max=500"`
	FeaturedURL *string `json:"featured_url" validate:"omitempty,max=500"`
}

// UpdateBusinessRequest is the JSON request body for updating a business.
// Absent fields are left unchanged.
type UpdateBusinessRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string `json:"category" validate:"omitempty"`
	Description *string `json:"description" validate:"omitempty,min=1,max=2000"`
	Address     *string `json:"address" validate:"omitempty,min=1,max=500"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Website     *string `json:"website" validate:"omitempty,max=500"`
	ImageURL    *string `json:"image_url" validate:"omitempty,max=500"`
	FeaturedURL *string `json:"featured_url" validate:"omitempty,max=500"`
}

// --- Handlers ---

// List handles GET /api/umkm
func (h *BusinessHandler) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	businesses, err := h.service.ListBusinesses(r.Context(), category, search)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, businesses)
}

// Popular handles GET /api/umkm/popular
func (h *BusinessHandler) Popular(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.service.PopularBusinesses(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, businesses)
}

// Latest handles GET /api/umkm/latest
func (h *BusinessHandler) Latest(w http.ResponseWriter, r *http.Request) {
	businesses, err := h.service.LatestBusinesses(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, businesses)
}

// Mine handles GET /api/umkm/my
func (h *BusinessHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	businesses, err := h.service.MyBusinesses(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, businesses)
}

// Get handles GET /api/umkm/{id}
func (h *BusinessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "business id is required"},
		})
		return
	}

	detail, err := h.service.GetBusiness(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, detail)
}

// Register handles POST /api/umkm
func (h *BusinessHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req RegisterBusinessRequest
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

	input := &service.RegisterBusinessInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		ImageURL:    req.ImageURL,
		FeaturedURL: req.FeaturedURL,
	}

	business, err := h.service.RegisterBusiness(r.Context(), userID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, business)
}

// Update handles PUT /api/umkm/{id}
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "business id is required"},
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req UpdateBusinessRequest
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

	input := &service.UpdateBusinessInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Website:     req.Website,
		ImageURL:    req.ImageURL,
		FeaturedURL: req.FeaturedURL,
	}

	business, err := h.service.UpdateBusiness(r.Context(), id, userID, input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, business)
}

// Delete handles DELETE /api/umkm/{id}
func (h *BusinessHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "UNAUTHORIZED", Message: "user not authenticated"},
		})
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "business id is required"},
		})
		return
	}

	if err := h.service.DeleteBusiness(r.Context(), id, userID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

// Categories handles GET /api/categories
func (h *BusinessHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, categories)
}
