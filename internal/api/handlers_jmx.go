// handlers_jmx.go - JMeter test plan handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/session"
	"github.com/testforge/backend/internal/upstream"
)

// JMXHandlerImpl implements the JMXHandler interface
type JMXHandlerImpl struct {
	sessionMgr *session.Manager
	upstream   *upstream.Client
}

// NewJMXHandler creates a new JMX handler instance
func NewJMXHandler(mgr *session.Manager, client *upstream.Client) JMXHandler {
	return &JMXHandlerImpl{
		sessionMgr: mgr,
		upstream:   client,
	}
}

// HandleGenerateJMX builds a JMeter test plan from the session's header
// spec, body table and generated data
func (h *JMXHandlerImpl) HandleGenerateJMX(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	view, ok := h.sessionMgr.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	if view.Wizard.HeaderJSON == "" || view.Wizard.BodyTable == "" {
		return NewConflictError("session has no analyzed spec to build a test plan from")
	}

	art, ok := h.sessionMgr.Artifact(id)
	if !ok {
		return NewConflictError("session has no generated data to build a test plan from")
	}

	content, err := h.upstream.GenerateJMX(c.Request().Context(),
		view.Wizard.HeaderJSON, view.Wizard.BodyTable, art.CSV)
	if err != nil {
		if apiErr := NewUpstreamError(err); apiErr != nil {
			return apiErr
		}
		return NewInternalError("failed to generate test plan", err)
	}

	return c.JSON(http.StatusOK, jmxResponse{Content: content})
}

// HandleValidateJMX checks a test plan for well-formedness
func (h *JMXHandlerImpl) HandleValidateJMX(c echo.Context) error {
	var req jmxValidateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Content == "" {
		return NewValidationError("content")
	}

	valid, problems, err := h.upstream.ValidateXML(c.Request().Context(), req.Content)
	if err != nil {
		if apiErr := NewUpstreamError(err); apiErr != nil {
			return apiErr
		}
		return NewInternalError("failed to validate test plan", err)
	}

	return c.JSON(http.StatusOK, jmxValidateResponse{
		Valid:  valid,
		Errors: problems,
	})
}

// Request/Response types

type jmxResponse struct {
	Content string `json:"content"`
}

type jmxValidateRequest struct {
	Content string `json:"content"`
}

type jmxValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
