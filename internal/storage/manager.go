package storage

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/testforge/backend/internal/models"
)

// MaxUploadSize caps a single document upload at 10 MB.
const MaxUploadSize = 10 << 20

// DefaultAllowedExtensions lists the document types accepted for upload.
var DefaultAllowedExtensions = []string{".csv", ".json", ".txt", ".docx", ".xlsx"}

// ValidationError reports a document rejected before it ever left the
// backend (bad extension, oversize, empty name).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Store defines the interface for document storage.
type Store interface {
	Save(name string, r io.Reader) (*models.Document, error)
	SaveBytes(name string, data []byte) (*models.Document, error)
	Get(id string) (*models.Document, error)
	List(limit int) ([]*models.Document, error)
	Delete(id string) error
	Rename(id string, newName string) (*models.Document, error)
	GetFilePath(id string) (string, error)
	ReadFile(id string) ([]byte, error)
	Validate(name string, size int64) error
}

// LocalStore implements Store using the local filesystem. Files are kept
// under uuid names with an in-memory metadata index.
type LocalStore struct {
	mu         sync.RWMutex
	uploadDir  string
	extensions map[string]struct{}
	docs       map[string]*models.Document
}

// NewLocalStore creates a LocalStore with the default extension allow-list.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	return NewLocalStoreWithExtensions(uploadDir, DefaultAllowedExtensions)
}

// NewLocalStoreWithExtensions creates a LocalStore with a custom allow-list.
func NewLocalStoreWithExtensions(uploadDir string, allowed []string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	exts := make(map[string]struct{}, len(allowed))
	for _, ext := range allowed {
		exts[strings.ToLower(strings.TrimSpace(ext))] = struct{}{}
	}

	return &LocalStore{
		uploadDir:  uploadDir,
		extensions: exts,
		docs:       make(map[string]*models.Document),
	}, nil
}

// Validate checks a prospective upload against the allow-list and size
// cap without touching the filesystem.
func (s *LocalStore) Validate(name string, size int64) error {
	if name == "" {
		return &ValidationError{Field: "name", Reason: "empty filename"}
	}

	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return &ValidationError{Field: "name", Reason: "missing file extension"}
	}
	if _, ok := s.extensions[ext]; !ok {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("file type %s not allowed", ext)}
	}

	if size > MaxUploadSize {
		return &ValidationError{Field: "size", Reason: fmt.Sprintf("file exceeds %d MB limit", MaxUploadSize>>20)}
	}

	return nil
}

// Save validates and saves a document to the local filesystem.
func (s *LocalStore) Save(name string, r io.Reader) (*models.Document, error) {
	// Size is enforced while copying; an oversize stream is cut off and
	// the partial file removed.
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	if err := s.Validate(name, 0); err != nil {
		return nil, err
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}
	if size > MaxUploadSize {
		os.Remove(path)
		return nil, &ValidationError{Field: "size", Reason: fmt.Sprintf("file exceeds %d MB limit", MaxUploadSize>>20)}
	}

	doc := &models.Document{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = doc

	return doc, nil
}

// SaveBytes validates and saves a document from an in-memory buffer.
func (s *LocalStore) SaveBytes(name string, data []byte) (*models.Document, error) {
	if err := s.Validate(name, int64(len(data))); err != nil {
		return nil, err
	}
	return s.Save(name, bytes.NewReader(data))
}

// Get retrieves document metadata by ID. A copy is returned so callers
// can hold or marshal it without racing index updates.
func (s *LocalStore) Get(id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", id)
	}

	d := *doc
	return &d, nil
}

// List returns copies of the most recently uploaded documents.
func (s *LocalStore) List(limit int) ([]*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*models.Document
	for _, doc := range s.docs {
		d := *doc
		list = append(list, &d)
	}

	// Sort by UploadedAt desc
	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// Delete removes a document from storage.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("document not found: %s", id)
	}

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.docs, id)
	return nil
}

// Rename updates the display name of a document. The new name must still
// pass the extension allow-list.
func (s *LocalStore) Rename(id string, newName string) (*models.Document, error) {
	if err := s.Validate(newName, 0); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document not found: %s", id)
	}

	doc.Name = newName
	d := *doc
	return &d, nil
}

// GetFilePath returns the absolute path to a stored document.
func (s *LocalStore) GetFilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.docs[id]; !ok {
		return "", fmt.Errorf("document not found: %s", id)
	}

	return filepath.Join(s.uploadDir, id), nil
}

// ReadFile returns the content of a stored document.
func (s *LocalStore) ReadFile(id string) ([]byte, error) {
	path, err := s.GetFilePath(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return data, nil
}

// RegisterDocument inserts metadata for a file that already exists on
// disk. Used when restoring persisted sessions at startup.
func (s *LocalStore) RegisterDocument(doc *models.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}
