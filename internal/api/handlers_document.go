// handlers_document.go - Document library operation handlers
package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/metrics"
	"github.com/testforge/backend/internal/storage"
)

// DocumentHandlerImpl implements the DocumentHandler interface
type DocumentHandlerImpl struct {
	store         storage.Store
	metrics       *metrics.Recorder
	allowDeletion bool
}

// NewDocumentHandler creates a new document handler instance
func NewDocumentHandler(store storage.Store, rec *metrics.Recorder, allowDeletion bool) DocumentHandler {
	return &DocumentHandlerImpl{
		store:         store,
		metrics:       rec,
		allowDeletion: allowDeletion,
	}
}

// HandleUploadDocument accepts a document as base64 JSON and saves it to storage
func (h *DocumentHandlerImpl) HandleUploadDocument(c echo.Context) error {
	var req uploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}

	if err := req.validate(); err != nil {
		return err
	}

	// Decode base64 content
	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	doc, err := h.store.SaveBytes(req.Name, decoded)
	if err != nil {
		return h.saveError(err)
	}

	h.recordUpload("accepted")
	return c.JSON(http.StatusCreated, doc)
}

// HandleUploadBinary accepts raw binary document upload (multipart/form-data)
func (h *DocumentHandlerImpl) HandleUploadBinary(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}

	// Reject disallowed types before reading the body
	if err := h.store.Validate(file.Filename, file.Size); err != nil {
		h.recordUpload("rejected")
		return NewBadRequestError(err.Error(), nil)
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	doc, err := h.store.Save(file.Filename, src)
	if err != nil {
		return h.saveError(err)
	}

	h.recordUpload("accepted")
	return c.JSON(http.StatusCreated, doc)
}

// HandleGetRecentDocuments returns recently uploaded documents
func (h *DocumentHandlerImpl) HandleGetRecentDocuments(c echo.Context) error {
	docs, err := h.store.List(20)
	if err != nil {
		return NewInternalError("failed to list documents", err)
	}

	return c.JSON(http.StatusOK, docs)
}

// HandleGetDocument returns metadata for a specific document
func (h *DocumentHandlerImpl) HandleGetDocument(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	doc, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("document", id)
	}

	return c.JSON(http.StatusOK, doc)
}

// HandleDeleteDocument removes a document from the library
func (h *DocumentHandlerImpl) HandleDeleteDocument(c echo.Context) error {
	if !h.allowDeletion {
		return &APIError{
			Status:  http.StatusForbidden,
			Code:    "DELETION_DISABLED",
			Message: "document deletion is disabled by configuration",
		}
	}

	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("document", id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleRenameDocument updates the name of a document
func (h *DocumentHandlerImpl) HandleRenameDocument(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	var req renameDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	if req.Name == "" {
		return NewValidationError("name")
	}

	doc, err := h.store.Rename(id, req.Name)
	if err != nil {
		var valErr *storage.ValidationError
		if errors.As(err, &valErr) {
			return NewBadRequestError(err.Error(), nil)
		}
		return NewNotFoundError("document", id)
	}

	return c.JSON(http.StatusOK, doc)
}

// saveError distinguishes validation rejections from storage failures.
func (h *DocumentHandlerImpl) saveError(err error) *APIError {
	var valErr *storage.ValidationError
	if errors.As(err, &valErr) {
		h.recordUpload("rejected")
		return NewBadRequestError(err.Error(), nil)
	}
	h.recordUpload("failed")
	return NewInternalError("failed to save document", err)
}

func (h *DocumentHandlerImpl) recordUpload(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordUpload(outcome)
	}
}

// Request/Response types

type uploadDocumentRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64-encoded content
}

func (r *uploadDocumentRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}

type renameDocumentRequest struct {
	Name string `json:"name"`
}
