package api

import (
	"net/http"
	"time"

	"github.com/futig/proposal-backend/internal/api/docs"
	"github.com/futig/proposal-backend/internal/api/middleware"
	proposalapi "github.com/futig/proposal-backend/internal/api/proposal"
	"github.com/futig/proposal-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router. requestTimeout bounds
// every request, including synchronous proposal generation. A nil limiter
// leaves generation unthrottled.
func SetupRouter(
	proposalHandler *proposalapi.Handler,
	limiter *middleware.RateLimiter,
	requestTimeout time.Duration,
	docsSpecPath string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)               // Recover from panics
	r.Use(chimiddleware.RequestID)               // Add request ID
	r.Use(middleware.Logger(logger))             // Log requests
	r.Use(middleware.CORS)                       // Handle CORS
	r.Use(chimiddleware.Timeout(requestTimeout)) // Request timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r, docsSpecPath)

	// Register routes
	var generateMiddlewares []func(http.Handler) http.Handler
	if limiter != nil {
		generateMiddlewares = append(generateMiddlewares, limiter.Handler)
	}
	proposalapi.RegisterRoutes(r, proposalHandler, generateMiddlewares...)

	return r
}
