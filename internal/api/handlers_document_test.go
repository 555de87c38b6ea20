// handlers_document_test.go - Tests for document handlers
package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/testforge/backend/internal/models"
	"github.com/testforge/backend/internal/testutil"
)

func TestDocumentHandler_HandleUploadDocument(t *testing.T) {
	tests := []struct {
		name       string
		request    uploadDocumentRequest
		wantStatus int
		wantErr    bool
		errCode    string
	}{
		{
			name: "valid document upload",
			request: uploadDocumentRequest{
				Name: "spec.docx",
				Data: base64.StdEncoding.EncodeToString([]byte("api spec content")),
			},
			wantStatus: http.StatusCreated,
			wantErr:    false,
		},
		{
			name: "empty name",
			request: uploadDocumentRequest{
				Name: "",
				Data: base64.StdEncoding.EncodeToString([]byte("content")),
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name: "empty data",
			request: uploadDocumentRequest{
				Name: "spec.docx",
				Data: "",
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "VALIDATION_ERROR",
		},
		{
			name: "invalid base64",
			request: uploadDocumentRequest{
				Name: "spec.docx",
				Data: "not-valid-base64!!!",
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "BAD_REQUEST",
		},
		{
			name: "disallowed file type",
			request: uploadDocumentRequest{
				Name: "payload.exe",
				Data: base64.StdEncoding.EncodeToString([]byte("binary")),
			},
			wantStatus: http.StatusBadRequest,
			wantErr:    true,
			errCode:    "BAD_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMockStorage()
			handler := NewDocumentHandler(store, nil, true)

			e := echo.New()
			body, _ := json.Marshal(tt.request)
			req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			err := handler.HandleUploadDocument(c)

			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
					return
				}
				apiErr, ok := err.(*APIError)
				if !ok {
					t.Errorf("expected APIError, got %T", err)
					return
				}
				if apiErr.Status != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, apiErr.Status)
				}
				if apiErr.Code != tt.errCode {
					t.Errorf("expected error code %s, got %s", tt.errCode, apiErr.Code)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				if rec.Code != tt.wantStatus {
					t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
				}

				var response models.Document
				if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
					t.Errorf("failed to unmarshal response: %v", err)
					return
				}
				if response.ID == "" {
					t.Error("expected non-empty ID in response")
				}
				if response.Name != tt.request.Name {
					t.Errorf("expected name %s, got %s", tt.request.Name, response.Name)
				}
			}
		})
	}
}

func TestDocumentHandler_HandleGetDocument(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddDocument("doc-1", "spec.docx", []byte("content"))
	handler := NewDocumentHandler(store, nil, true)

	t.Run("existing document", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("doc-1")

		if err := handler.HandleGetDocument(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc models.Document
		if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if doc.Name != "spec.docx" {
			t.Errorf("expected name spec.docx, got %s", doc.Name)
		}
	})

	t.Run("unknown document", func(t *testing.T) {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("missing")

		err := handler.HandleGetDocument(c)
		apiErr, ok := err.(*APIError)
		if !ok || apiErr.Status != http.StatusNotFound {
			t.Errorf("expected 404, got %v", err)
		}
	})
}

func TestDocumentHandler_HandleRenameDocument(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddDocument("doc-1", "spec.docx", []byte("content"))
	handler := NewDocumentHandler(store, nil, true)

	t.Run("valid rename", func(t *testing.T) {
		e := echo.New()
		body := `{"name":"renamed.docx"}`
		req := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("doc-1")

		if err := handler.HandleRenameDocument(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		doc, _ := store.Get("doc-1")
		if doc.Name != "renamed.docx" {
			t.Errorf("expected renamed.docx, got %s", doc.Name)
		}
	})

	t.Run("rename to disallowed type", func(t *testing.T) {
		e := echo.New()
		body := `{"name":"renamed.exe"}`
		req := httptest.NewRequest(http.MethodPut, "/", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("doc-1")

		err := handler.HandleRenameDocument(c)
		apiErr, ok := err.(*APIError)
		if !ok || apiErr.Status != http.StatusBadRequest {
			t.Errorf("expected 400, got %v", err)
		}
	})
}

func TestDocumentHandler_HandleDeleteDocument(t *testing.T) {
	store := testutil.NewMockStorage()
	store.AddDocument("doc-1", "spec.docx", []byte("content"))
	handler := NewDocumentHandler(store, nil, true)

	e := echo.New()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("doc-1")

	if err := handler.HandleDeleteDocument(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if store.DocumentCount() != 0 {
		t.Errorf("expected empty store, got %d documents", store.DocumentCount())
	}
}
