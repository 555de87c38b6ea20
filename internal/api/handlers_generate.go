// handlers_generate.go - Synthetic data generation handlers
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/config"
	"github.com/testforge/backend/internal/models"
	"github.com/testforge/backend/internal/session"
)

// GenerateHandlerImpl implements the GenerateHandler interface
type GenerateHandlerImpl struct {
	sessionMgr *session.Manager
	rules      *config.UploadRules
}

// NewGenerateHandler creates a new generation handler instance
func NewGenerateHandler(mgr *session.Manager, rules *config.UploadRules) GenerateHandler {
	return &GenerateHandlerImpl{
		sessionMgr: mgr,
		rules:      rules,
	}
}

// HandleStartGeneration submits a generation task and begins polling.
// A task already in flight for the session is superseded.
func (h *GenerateHandlerImpl) HandleStartGeneration(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	var req startGenerationRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	numRows := req.NumRows
	if numRows == 0 {
		numRows = h.rules.DefaultNumRows
	}
	if numRows < 1 || numRows > h.rules.MaxNumRows {
		return NewBadRequestError(
			fmt.Sprintf("numRows must be between 1 and %d", h.rules.MaxNumRows), nil)
	}

	view, err := h.sessionMgr.StartGeneration(c.Request().Context(), id, numRows)
	if err != nil {
		return mapSessionError(err)
	}

	return c.JSON(http.StatusAccepted, view)
}

// HandleGenerationStatus returns the current generation state
func (h *GenerateHandlerImpl) HandleGenerationStatus(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	state, ok := h.sessionMgr.GenerationStatus(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, state)
}

// HandleGenerationProgressStream streams generation progress via SSE
func (h *GenerateHandlerImpl) HandleGenerationProgressStream(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	// Set SSE headers
	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().Header().Set("X-Accel-Buffering", "no")
	c.Response().WriteHeader(http.StatusOK)

	state, ok := h.sessionMgr.GenerationStatus(id)
	if !ok {
		h.sendSSEError(c, "session not found")
		return nil
	}

	// Send initial state
	h.sendSSEData(c, state)
	if isTerminal(state.Status) {
		return nil
	}

	// Stream updates until the run reaches a terminal state
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	timeout := time.NewTimer(10 * time.Minute)
	defer timeout.Stop()

	for {
		select {
		case <-ticker.C:
			state, ok := h.sessionMgr.GenerationStatus(id)
			if !ok {
				h.sendSSEError(c, "session not found")
				return nil
			}

			h.sendSSEData(c, state)

			if isTerminal(state.Status) {
				return nil
			}

		case <-timeout.C:
			h.sendSSEError(c, "stream timeout")
			return nil

		case <-c.Request().Context().Done():
			return nil
		}
	}
}

// HandleGetArtifact returns the generated artifact metadata and content
func (h *GenerateHandlerImpl) HandleGetArtifact(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	art, ok := h.sessionMgr.Artifact(id)
	if !ok {
		return NewNotFoundError("artifact", id)
	}

	return c.JSON(http.StatusOK, art)
}

// HandleGetArtifactRows returns a paginated, searchable preview of the
// generated rows
func (h *GenerateHandlerImpl) HandleGetArtifactRows(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}
	search := c.QueryParam("search")

	ctx := c.Request().Context()
	rows, columns, total, ok := h.sessionMgr.ArtifactRows(ctx, id, search, page, pageSize)
	if !ok {
		return NewNotFoundError("artifact", id)
	}

	return c.JSON(http.StatusOK, artifactRowsResponse{
		Columns:  columns,
		Rows:     rows,
		Page:     page,
		PageSize: pageSize,
		Total:    total,
	})
}

// HandleDownloadCSV serves the generated CSV exactly as produced
func (h *GenerateHandlerImpl) HandleDownloadCSV(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	art, ok := h.sessionMgr.Artifact(id)
	if !ok {
		return NewNotFoundError("artifact", id)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="synthetic_data.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(art.CSV))
}

// HandleDownloadMarkdown serves the generated markdown exactly as produced
func (h *GenerateHandlerImpl) HandleDownloadMarkdown(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	art, ok := h.sessionMgr.Artifact(id)
	if !ok {
		return NewNotFoundError("artifact", id)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		`attachment; filename="synthetic_data.md"`)
	return c.Blob(http.StatusOK, "text/markdown; charset=utf-8", []byte(art.Markdown))
}

func (h *GenerateHandlerImpl) sendSSEData(c echo.Context, data interface{}) {
	jsonData, _ := json.Marshal(data)
	fmt.Fprintf(c.Response(), "data: %s\n\n", jsonData)
	c.Response().Flush()
}

func (h *GenerateHandlerImpl) sendSSEError(c echo.Context, message string) {
	h.sendSSEData(c, map[string]string{"error": message})
}

func isTerminal(status models.GenerationStatus) bool {
	switch status {
	case models.GenerationComplete, models.GenerationError, models.GenerationTimeout:
		return true
	}
	return false
}

// Request/Response types

type startGenerationRequest struct {
	NumRows int `json:"numRows"`
}

type artifactRowsResponse struct {
	Columns  []string            `json:"columns"`
	Rows     []map[string]string `json:"rows"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
	Total    int                 `json:"total"`
}
