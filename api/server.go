// ABOUTME: Huma API server configuration and setup
// ABOUTME: Chi router with CORS, request logging and per-IP rate limiting

package api

import (
	"paperread-app/api/middleware"
	"paperread-app/core/interfaces"
	"paperread-app/pkg/requestid"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

const (
	title   = "PaperRead API"
	version = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger    interfaces.Logger
	RateLimit int // requests per minute per client
	RateBurst int
}

func newRouter() chi.Router {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestid.Header},
		ExposedHeaders:   []string{requestid.Header, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	return router
}

func humaConfig() huma.Config {
	config := huma.DefaultConfig(title, version)
	config.Info.Description = "Paginated English reading with word and sentence annotation, translation, read-aloud and dictation practice"
	return config
}

// NewAPI creates a Huma API without logging or rate limiting
func NewAPI() (huma.API, chi.Router) {
	router := newRouter()
	return humachi.New(router, humaConfig()), router
}

// NewAPIWithMiddleware creates a new API with middleware configured
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := newRouter()

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}
	if cfg.RateLimit > 0 {
		router.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)))
	}

	return humachi.New(router, humaConfig()), router
}
