// handlers_session.go - Wizard session operation handlers
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/session"
	"github.com/testforge/backend/internal/storage"
)

// SessionHandlerImpl implements the SessionHandler interface
type SessionHandlerImpl struct {
	sessionMgr *session.Manager
	store      storage.Store
}

// NewSessionHandler creates a new session handler instance
func NewSessionHandler(mgr *session.Manager, store storage.Store) SessionHandler {
	return &SessionHandlerImpl{
		sessionMgr: mgr,
		store:      store,
	}
}

// HandleCreateSession starts a new wizard session
func (h *SessionHandlerImpl) HandleCreateSession(c echo.Context) error {
	view, err := h.sessionMgr.CreateSession()
	if err != nil {
		return NewServiceUnavailableError(err.Error())
	}

	return c.JSON(http.StatusCreated, view)
}

// HandleGetSession returns the current wizard state and capabilities
func (h *SessionHandlerImpl) HandleGetSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	view, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	// Touch session to prevent cleanup while being viewed
	h.sessionMgr.TouchSession(id)

	return c.JSON(http.StatusOK, view)
}

// HandleSessionKeepAlive extends session lifetime for active viewing
func (h *SessionHandlerImpl) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessionMgr.TouchSession(id); !ok {
		return NewNotFoundError("session", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleDeleteSession discards a wizard session and its artifacts
func (h *SessionHandlerImpl) HandleDeleteSession(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	if ok := h.sessionMgr.DeleteSession(id); !ok {
		return NewNotFoundError("session", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleAttachDocument selects a stored document for the session,
// resetting any previous wizard progress
func (h *SessionHandlerImpl) HandleAttachDocument(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	var req attachDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.DocumentID == "" {
		return NewValidationError("documentId")
	}

	doc, err := h.store.Get(req.DocumentID)
	if err != nil {
		return NewNotFoundError("document", req.DocumentID)
	}

	view, err := h.sessionMgr.AttachDocument(id, doc)
	if err != nil {
		return mapSessionError(err)
	}

	return c.JSON(http.StatusOK, view)
}

// HandleExtract sends the selected document to the generation service
// for text extraction
func (h *SessionHandlerImpl) HandleExtract(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	view, err := h.sessionMgr.Extract(c.Request().Context(), id)
	if err != nil {
		return mapSessionError(err)
	}

	return c.JSON(http.StatusOK, view)
}

// HandleAnalyze turns the extracted text into a header spec and body table
func (h *SessionHandlerImpl) HandleAnalyze(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	view, err := h.sessionMgr.Analyze(c.Request().Context(), id)
	if err != nil {
		return mapSessionError(err)
	}

	return c.JSON(http.StatusOK, view)
}

// HandleReviewBody applies reviewer feedback to the body table
func (h *SessionHandlerImpl) HandleReviewBody(c echo.Context) error {
	return h.handleReview(c, h.sessionMgr.ReviewBody)
}

// HandleReviewHeader applies reviewer feedback to the header JSON
func (h *SessionHandlerImpl) HandleReviewHeader(c echo.Context) error {
	return h.handleReview(c, h.sessionMgr.ReviewHeader)
}

// HandleReviewSynthetic applies reviewer feedback to the generated data
func (h *SessionHandlerImpl) HandleReviewSynthetic(c echo.Context) error {
	return h.handleReview(c, h.sessionMgr.ReviewSynthetic)
}

func (h *SessionHandlerImpl) handleReview(c echo.Context, review reviewFunc) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if strings.TrimSpace(req.Feedback) == "" {
		return NewValidationError("feedback")
	}

	view, err := review(c.Request().Context(), id, req.Feedback)
	if err != nil {
		return mapSessionError(err)
	}

	return c.JSON(http.StatusOK, view)
}

// HandleSetFeedback stores the draft feedback text without submitting it
func (h *SessionHandlerImpl) HandleSetFeedback(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	view, err := h.sessionMgr.SetFeedback(id, req.Feedback)
	if err != nil {
		return mapSessionError(err)
	}

	return c.JSON(http.StatusOK, view)
}

// Request/Response types

type attachDocumentRequest struct {
	DocumentID string `json:"documentId"`
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

type reviewFunc func(ctx context.Context, id, feedback string) (*session.View, error)

// mapSessionError translates session manager failures to API errors.
// Upstream failures surface as 502, a vanished session as 404, and
// workflow order violations as 409.
func mapSessionError(err error) error {
	if apiErr := NewUpstreamError(err); apiErr != nil {
		return apiErr
	}
	if strings.HasPrefix(err.Error(), "session not found") {
		id := strings.TrimPrefix(err.Error(), "session not found: ")
		return NewNotFoundError("session", id)
	}
	return NewConflictError(err.Error())
}
