package api

import (
	"net/http"
	"time"

	chatapi "github.com/avolkov/rag-backend/internal/api/chat"
	conversationapi "github.com/avolkov/rag-backend/internal/api/conversation"
	"github.com/avolkov/rag-backend/internal/api/docs"
	documentapi "github.com/avolkov/rag-backend/internal/api/document"
	healthapi "github.com/avolkov/rag-backend/internal/api/health"
	maintenanceapi "github.com/avolkov/rag-backend/internal/api/maintenance"
	"github.com/avolkov/rag-backend/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups everything SetupRouter mounts
type Handlers struct {
	Document     *documentapi.Handler
	Conversation *conversationapi.Handler
	Chat         *chatapi.Handler
	Maintenance  *maintenanceapi.Handler
	Health       *healthapi.Handler
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(h Handlers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)                  // Recover from panics
	r.Use(chimiddleware.RequestID)                  // Add request ID
	r.Use(middleware.Logger(logger))                // Log requests
	r.Use(middleware.CORS)                          // Handle CORS
	r.Use(chimiddleware.Timeout(120 * time.Second)) // Default timeout

	// Health check endpoint
	r.Get("/health", h.Health.Check)

	// Swagger documentation endpoints
	docs.RegisterRoutes(r)

	// Register routes
	documentapi.RegisterRoutes(r, h.Document)
	conversationapi.RegisterRoutes(r, h.Conversation, h.Chat.Continue)
	chatapi.RegisterRoutes(r, h.Chat)
	maintenanceapi.RegisterRoutes(r, h.Maintenance)

	return r
}
