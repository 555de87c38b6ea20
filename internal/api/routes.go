// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/config"
	"github.com/testforge/backend/internal/metrics"
	"github.com/testforge/backend/internal/session"
	"github.com/testforge/backend/internal/storage"
	"github.com/testforge/backend/internal/upstream"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store         storage.Store
	SessionMgr    *session.Manager
	Upstream      *upstream.Client
	Metrics       *metrics.Recorder
	Rules         *config.UploadRules
	AllowDeletion bool
	Version       string
}

// Handlers holds all handler instances
type Handlers struct {
	Health   HealthHandler
	Document DocumentHandler
	Session  SessionHandler
	Generate GenerateHandler
	JMX      JMXHandler
	Chat     ChatHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	rules := deps.Rules
	if rules == nil {
		rules = config.DefaultUploadRules()
	}
	return &Handlers{
		Health:   NewHealthHandler(deps.Version, deps.Upstream),
		Document: NewDocumentHandler(deps.Store, deps.Metrics, deps.AllowDeletion),
		Session:  NewSessionHandler(deps.SessionMgr, deps.Store),
		Generate: NewGenerateHandler(deps.SessionMgr, rules),
		JMX:      NewJMXHandler(deps.SessionMgr, deps.Upstream),
		Chat:     NewChatHandler(deps.SessionMgr),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/health", handlers.Health.HandleHealth)

	// Document library routes
	docGroup := e.Group("/api/documents")
	docGroup.POST("/upload", handlers.Document.HandleUploadDocument)
	docGroup.POST("/upload/binary", handlers.Document.HandleUploadBinary)
	docGroup.GET("/recent", handlers.Document.HandleGetRecentDocuments)
	docGroup.GET("/:id", handlers.Document.HandleGetDocument)
	docGroup.DELETE("/:id", handlers.Document.HandleDeleteDocument)
	docGroup.PUT("/:id", handlers.Document.HandleRenameDocument)

	// Wizard session routes
	sessGroup := e.Group("/api/sessions")
	sessGroup.POST("", handlers.Session.HandleCreateSession)
	sessGroup.GET("/:sessionId", handlers.Session.HandleGetSession)
	sessGroup.POST("/:sessionId/keepalive", handlers.Session.HandleSessionKeepAlive)
	sessGroup.DELETE("/:sessionId", handlers.Session.HandleDeleteSession)
	sessGroup.POST("/:sessionId/document", handlers.Session.HandleAttachDocument)
	sessGroup.POST("/:sessionId/extract", handlers.Session.HandleExtract)
	sessGroup.POST("/:sessionId/analyze", handlers.Session.HandleAnalyze)
	sessGroup.POST("/:sessionId/review/body", handlers.Session.HandleReviewBody)
	sessGroup.POST("/:sessionId/review/header", handlers.Session.HandleReviewHeader)
	sessGroup.POST("/:sessionId/review/synthetic", handlers.Session.HandleReviewSynthetic)
	sessGroup.PUT("/:sessionId/feedback", handlers.Session.HandleSetFeedback)

	// Generation and artifact routes
	sessGroup.POST("/:sessionId/generate", handlers.Generate.HandleStartGeneration)
	sessGroup.GET("/:sessionId/generate/status", handlers.Generate.HandleGenerationStatus)
	sessGroup.GET("/:sessionId/generate/progress", handlers.Generate.HandleGenerationProgressStream)
	sessGroup.GET("/:sessionId/artifact", handlers.Generate.HandleGetArtifact)
	sessGroup.GET("/:sessionId/artifact/rows", handlers.Generate.HandleGetArtifactRows)
	sessGroup.GET("/:sessionId/artifact/csv", handlers.Generate.HandleDownloadCSV)
	sessGroup.GET("/:sessionId/artifact/markdown", handlers.Generate.HandleDownloadMarkdown)

	// JMeter test plan routes
	sessGroup.POST("/:sessionId/jmx", handlers.JMX.HandleGenerateJMX)
	e.POST("/api/jmx/validate", handlers.JMX.HandleValidateJMX)

	// Assistant chat routes
	sessGroup.POST("/:sessionId/chat", handlers.Chat.HandleSendMessage)
	sessGroup.GET("/:sessionId/chat", handlers.Chat.HandleGetHistory)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
