// manager_test.go - Tests for the document storage layer
package storage

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func createTestStore(t *testing.T) *LocalStore {
	store, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return store
}

func TestNewLocalStore(t *testing.T) {
	t.Run("creates upload directory", func(t *testing.T) {
		tempDir := t.TempDir()
		uploadDir := filepath.Join(tempDir, "uploads")

		_, err := NewLocalStore(uploadDir)
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}

		if _, err := os.Stat(uploadDir); os.IsNotExist(err) {
			t.Error("Expected upload directory to be created")
		}
	})
}

func TestLocalStore_Validate(t *testing.T) {
	store := createTestStore(t)

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
	}{
		{"docx allowed", "spec.docx", 1024, false},
		{"csv allowed", "data.csv", 1024, false},
		{"json allowed", "payload.json", 1024, false},
		{"txt allowed", "notes.txt", 1024, false},
		{"xlsx allowed", "sheet.xlsx", 1024, false},
		{"uppercase extension allowed", "SPEC.DOCX", 1024, false},
		{"exe rejected", "virus.exe", 1024, true},
		{"pdf rejected", "report.pdf", 1024, true},
		{"no extension rejected", "README", 1024, true},
		{"empty name rejected", "", 1024, true},
		{"at size limit ok", "big.csv", MaxUploadSize, false},
		{"over size limit rejected", "huge.csv", MaxUploadSize + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Validate(tt.filename, tt.size)
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantErr && err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("Expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestLocalStore_Save(t *testing.T) {
	t.Run("saves document from reader", func(t *testing.T) {
		store := createTestStore(t)

		content := "id,name\n1,alpha"
		doc, err := store.Save("data.csv", strings.NewReader(content))
		if err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		if doc.ID == "" {
			t.Error("Expected ID to be set")
		}
		if doc.Name != "data.csv" {
			t.Errorf("Expected name 'data.csv', got %v", doc.Name)
		}
		if doc.Size != int64(len(content)) {
			t.Errorf("Expected size %d, got %d", len(content), doc.Size)
		}
		if doc.Status != "uploaded" {
			t.Errorf("Expected status 'uploaded', got %v", doc.Status)
		}
	})

	t.Run("rejects disallowed extension", func(t *testing.T) {
		store := createTestStore(t)

		_, err := store.Save("script.sh", strings.NewReader("#!/bin/sh"))
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}
	})

	t.Run("creates physical file with exact content", func(t *testing.T) {
		store := createTestStore(t)

		content := []byte("Test content")
		doc, err := store.SaveBytes("test.txt", content)
		if err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		data, err := store.ReadFile(doc.ID)
		if err != nil {
			t.Fatalf("Failed to read saved file: %v", err)
		}
		if !bytes.Equal(data, content) {
			t.Errorf("Expected content %q, got %q", content, data)
		}
	})
}

func TestLocalStore_SaveBytes(t *testing.T) {
	t.Run("rejects oversize payload before writing", func(t *testing.T) {
		store := createTestStore(t)

		big := make([]byte, MaxUploadSize+1)
		_, err := store.SaveBytes("big.csv", big)
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("Expected ValidationError, got %v", err)
		}

		// Nothing should be left behind.
		docs, _ := store.List(10)
		if len(docs) != 0 {
			t.Errorf("Expected no stored documents, got %d", len(docs))
		}
	})
}

func TestLocalStore_Get(t *testing.T) {
	t.Run("gets existing document", func(t *testing.T) {
		store := createTestStore(t)

		doc, err := store.Save("test.txt", strings.NewReader("content"))
		if err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		retrieved, err := store.Get(doc.ID)
		if err != nil {
			t.Fatalf("Failed to get: %v", err)
		}
		if retrieved.ID != doc.ID || retrieved.Name != doc.Name {
			t.Error("Retrieved metadata does not match")
		}
	})

	t.Run("returns error for unknown id", func(t *testing.T) {
		store := createTestStore(t)

		if _, err := store.Get("missing"); err == nil {
			t.Error("Expected error for unknown id")
		}
	})
}

func TestLocalStore_List(t *testing.T) {
	t.Run("sorts by upload time descending and limits", func(t *testing.T) {
		store := createTestStore(t)

		ids := make([]string, 3)
		for i := 0; i < 3; i++ {
			doc, err := store.Save("file.txt", strings.NewReader("content"))
			if err != nil {
				t.Fatalf("Failed to save: %v", err)
			}
			ids[i] = doc.ID
			time.Sleep(10 * time.Millisecond)
		}

		docs, err := store.List(2)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(docs) != 2 {
			t.Fatalf("Expected 2 documents, got %d", len(docs))
		}
		if docs[0].ID != ids[2] {
			t.Error("Expected most recent document first")
		}
	})
}

func TestLocalStore_Delete(t *testing.T) {
	t.Run("removes metadata and file", func(t *testing.T) {
		store := createTestStore(t)

		doc, err := store.Save("test.txt", strings.NewReader("content"))
		if err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		path, _ := store.GetFilePath(doc.ID)
		if err := store.Delete(doc.ID); err != nil {
			t.Fatalf("Failed to delete: %v", err)
		}

		if _, err := store.Get(doc.ID); err == nil {
			t.Error("Expected metadata to be gone")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("Expected physical file to be gone")
		}
	})

	t.Run("returns error for unknown id", func(t *testing.T) {
		store := createTestStore(t)

		if err := store.Delete("missing"); err == nil {
			t.Error("Expected error for unknown id")
		}
	})
}

func TestLocalStore_Rename(t *testing.T) {
	t.Run("renames with allowed extension", func(t *testing.T) {
		store := createTestStore(t)

		doc, err := store.Save("old.txt", strings.NewReader("content"))
		if err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		updated, err := store.Rename(doc.ID, "new.txt")
		if err != nil {
			t.Fatalf("Failed to rename: %v", err)
		}
		if updated.Name != "new.txt" {
			t.Errorf("Expected 'new.txt', got %v", updated.Name)
		}
	})

	t.Run("rejects rename to disallowed extension", func(t *testing.T) {
		store := createTestStore(t)

		doc, err := store.Save("old.txt", strings.NewReader("content"))
		if err != nil {
			t.Fatalf("Failed to save: %v", err)
		}

		if _, err := store.Rename(doc.ID, "new.exe"); err == nil {
			t.Error("Expected validation error on rename")
		}
	})
}

func TestLocalStore_CustomExtensions(t *testing.T) {
	t.Run("custom allow-list replaces default", func(t *testing.T) {
		store, err := NewLocalStoreWithExtensions(t.TempDir(), []string{".jmx", ".xml"})
		if err != nil {
			t.Fatalf("Failed to create store: %v", err)
		}

		if err := store.Validate("plan.jmx", 100); err != nil {
			t.Errorf("Expected .jmx to be allowed: %v", err)
		}
		if err := store.Validate("data.csv", 100); err == nil {
			t.Error("Expected .csv to be rejected with custom list")
		}
	})
}

func TestLocalStore_ConcurrentAccess(t *testing.T) {
	t.Run("handles concurrent saves", func(t *testing.T) {
		store := createTestStore(t)

		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func() {
				_, err := store.Save("file.txt", strings.NewReader("content"))
				if err != nil {
					t.Errorf("Failed to save: %v", err)
				}
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			<-done
		}

		docs, err := store.List(20)
		if err != nil {
			t.Fatalf("Failed to list: %v", err)
		}
		if len(docs) != 10 {
			t.Errorf("Expected 10 documents, got %d", len(docs))
		}
	})
}
