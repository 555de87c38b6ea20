// handlers_health.go - Health check handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/upstream"
)

// HealthHandlerImpl implements the HealthHandler interface
type HealthHandlerImpl struct {
	version  string
	upstream *upstream.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version string, client *upstream.Client) HealthHandler {
	return &HealthHandlerImpl{
		version:  version,
		upstream: client,
	}
}

// HandleHealth returns server health status
func (h *HealthHandlerImpl) HandleHealth(c echo.Context) error {
	resp := map[string]interface{}{
		"status":  "ok",
		"version": h.version,
	}
	if h.upstream != nil {
		resp["upstream"] = h.upstream.BaseURL()
	}
	return c.JSON(http.StatusOK, resp)
}
