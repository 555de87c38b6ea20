// handlers_chat.go - Assistant chat handlers
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/models"
	"github.com/testforge/backend/internal/session"
)

// ChatHandlerImpl implements the ChatHandler interface
type ChatHandlerImpl struct {
	sessionMgr *session.Manager
}

// NewChatHandler creates a new chat handler instance
func NewChatHandler(mgr *session.Manager) ChatHandler {
	return &ChatHandlerImpl{sessionMgr: mgr}
}

// HandleSendMessage forwards a user message to the assistant and
// records the exchange in the session history
func (h *ChatHandlerImpl) HandleSendMessage(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if strings.TrimSpace(req.Message) == "" {
		return NewValidationError("message")
	}

	entry, err := h.sessionMgr.Chat(c.Request().Context(), id, req.Message)
	if err != nil {
		return mapSessionError(err)
	}

	return c.JSON(http.StatusOK, entry)
}

// HandleGetHistory returns the session's chat exchanges, oldest first
func (h *ChatHandlerImpl) HandleGetHistory(c echo.Context) error {
	id := c.Param("sessionId")
	if id == "" {
		return NewValidationError("sessionId")
	}

	history, ok := h.sessionMgr.ChatHistory(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, chatHistoryResponse{
		Messages: history,
		Count:    len(history),
	})
}

// Request/Response types

type chatRequest struct {
	Message string `json:"message"`
}

type chatHistoryResponse struct {
	Messages []models.ChatEntry `json:"messages"`
	Count    int                `json:"count"`
}
