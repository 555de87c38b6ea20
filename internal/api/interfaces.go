// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// DocumentHandler handles document upload and library operations
type DocumentHandler interface {
	HandleUploadDocument(c echo.Context) error
	HandleUploadBinary(c echo.Context) error
	HandleGetRecentDocuments(c echo.Context) error
	HandleGetDocument(c echo.Context) error
	HandleDeleteDocument(c echo.Context) error
	HandleRenameDocument(c echo.Context) error
}

// SessionHandler handles wizard session lifecycle and workflow steps
type SessionHandler interface {
	HandleCreateSession(c echo.Context) error
	HandleGetSession(c echo.Context) error
	HandleSessionKeepAlive(c echo.Context) error
	HandleDeleteSession(c echo.Context) error
	HandleAttachDocument(c echo.Context) error
	HandleExtract(c echo.Context) error
	HandleAnalyze(c echo.Context) error
	HandleReviewBody(c echo.Context) error
	HandleReviewHeader(c echo.Context) error
	HandleReviewSynthetic(c echo.Context) error
	HandleSetFeedback(c echo.Context) error
}

// GenerateHandler handles synthetic data generation and artifact access
type GenerateHandler interface {
	HandleStartGeneration(c echo.Context) error
	HandleGenerationStatus(c echo.Context) error
	HandleGenerationProgressStream(c echo.Context) error
	HandleGetArtifact(c echo.Context) error
	HandleGetArtifactRows(c echo.Context) error
	HandleDownloadCSV(c echo.Context) error
	HandleDownloadMarkdown(c echo.Context) error
}

// JMXHandler handles JMeter test plan generation and validation
type JMXHandler interface {
	HandleGenerateJMX(c echo.Context) error
	HandleValidateJMX(c echo.Context) error
}

// ChatHandler handles the assistant chat panel
type ChatHandler interface {
	HandleSendMessage(c echo.Context) error
	HandleGetHistory(c echo.Context) error
}

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}
