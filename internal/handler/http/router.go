package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Project-Dev-Me/UMKMInfo/internal/auth"
	"github.com/Project-Dev-Me/UMKMInfo/internal/service"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/health"
	"github.com/Project-Dev-Me/UMKMInfo/pkg/middleware"
)

// NewRouter creates a chi router with all directory service routes registered.
func NewRouter(
	businessService *service.BusinessService,
	reviewService *service.ReviewService,
	bookmarkService *service.BookmarkService,
	userService *service.UserService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("umkm"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Token validator that bridges to our internal JWTManager.
	tokenValidator := func(token string) (*middleware.Claims, error) {
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
		}, nil
	}

	businessHandler := NewBusinessHandler(businessService, logger)
	reviewHandler := NewReviewHandler(reviewService, logger)
	bookmarkHandler := NewBookmarkHandler(bookmarkService, logger)
	authHandler := NewAuthHandler(userService, logger)
	profileHandler := NewProfileHandler(userService, logger)

	// Auth endpoints
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/refresh", authHandler.RefreshToken)
		r.Post("/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))
			r.Post("/change-password", authHandler.ChangePassword)
		})
	})

	// Business directory endpoints. Public reads, authenticated writes.
	r.Route("/api/umkm", func(r chi.Router) {
		r.Get("/", businessHandler.List)
		r.Get("/popular", businessHandler.Popular)
		r.Get("/latest", businessHandler.Latest)
		r.Get("/{id}", businessHandler.Get)
		r.Get("/{id}/reviews", reviewHandler.List)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(tokenValidator))

			r.Get("/my", businessHandler.Mine)
			r.With(ContentTypeJSON).Post("/", businessHandler.Register)
			r.With(ContentTypeJSON).Put("/{id}", businessHandler.Update)
			r.Delete("/{id}", businessHandler.Delete)
			r.With(ContentTypeJSON).Post("/{id}/reviews", reviewHandler.Add)
		})
	})

	// Bookmark endpoints (auth required)
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", bookmarkHandler.List)
		r.With(ContentTypeJSON).Post("/toggle", bookmarkHandler.Toggle)
		r.Get("/check/{umkmId}", bookmarkHandler.Check)
	})

	// Categories (public)
	r.Get("/api/categories", businessHandler.Categories)

	// Profile endpoints (auth required)
	r.Route("/api/profile", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Auth(tokenValidator))

		r.Get("/", profileHandler.Get)
		r.Put("/", profileHandler.Update)
	})

	return r
}
