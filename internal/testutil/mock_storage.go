// mock_storage.go - Mock storage implementation for testing
package testutil

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/testforge/backend/internal/models"
	"github.com/testforge/backend/internal/storage"
)

// MockStorage implements storage.Store for testing
type MockStorage struct {
	docs     map[string]*models.Document
	docData  map[string][]byte
	mu       sync.RWMutex
	allowAll bool
}

// NewMockStorage creates a new mock storage that applies the default
// upload rules
func NewMockStorage() *MockStorage {
	return &MockStorage{
		docs:    make(map[string]*models.Document),
		docData: make(map[string][]byte),
	}
}

// NewPermissiveMockStorage creates a mock storage that accepts any
// file name and size
func NewPermissiveMockStorage() *MockStorage {
	m := NewMockStorage()
	m.allowAll = true
	return m
}

func (m *MockStorage) Save(name string, r io.Reader) (*models.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return m.SaveBytes(name, data)
}

func (m *MockStorage) SaveBytes(name string, data []byte) (*models.Document, error) {
	if err := m.Validate(name, int64(len(data))); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := generateTestID()
	doc := &models.Document{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}

	m.docs[id] = doc
	m.docData[id] = data
	return doc, nil
}

func (m *MockStorage) Get(id string) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, errors.New("document not found")
	}
	d := *doc
	return &d, nil
}

func (m *MockStorage) List(limit int) ([]*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []*models.Document
	for _, doc := range m.docs {
		d := *doc
		docs = append(docs, &d)
		if limit > 0 && len(docs) >= limit {
			break
		}
	}
	return docs, nil
}

func (m *MockStorage) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.docs[id]; !exists {
		return errors.New("document not found")
	}

	delete(m.docs, id)
	delete(m.docData, id)
	return nil
}

func (m *MockStorage) Rename(id string, newName string) (*models.Document, error) {
	if err := m.Validate(newName, 0); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, errors.New("document not found")
	}

	doc.Name = newName
	d := *doc
	return &d, nil
}

func (m *MockStorage) GetFilePath(id string) (string, error) {
	return "/mock/path/" + id, nil
}

func (m *MockStorage) ReadFile(id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docData[id]
	if !ok {
		return nil, errors.New("document not found")
	}
	return data, nil
}

func (m *MockStorage) Validate(name string, size int64) error {
	if m.allowAll {
		return nil
	}
	if name == "" {
		return &storage.ValidationError{Field: "name", Reason: "file name must not be empty"}
	}
	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, e := range storage.DefaultAllowedExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return &storage.ValidationError{Field: "name", Reason: "file type not allowed: " + ext}
	}
	if size > storage.MaxUploadSize {
		return &storage.ValidationError{Field: "size", Reason: "file exceeds upload limit"}
	}
	return nil
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// AddDocument adds a document directly to the mock
func (m *MockStorage) AddDocument(id string, name string, data []byte) *models.Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := &models.Document{
		ID:         id,
		Name:       name,
		Size:       int64(len(data)),
		UploadedAt: time.Now(),
		Status:     "uploaded",
	}
	m.docs[id] = doc
	m.docData[id] = data
	return doc
}

// DocumentCount returns the number of stored documents
func (m *MockStorage) DocumentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Clear removes all documents
func (m *MockStorage) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]*models.Document)
	m.docData = make(map[string][]byte)
}

// generateTestID generates a simple test ID
var testIDCounter int
var testIDMutex sync.Mutex

func generateTestID() string {
	testIDMutex.Lock()
	defer testIDMutex.Unlock()
	testIDCounter++
	return fmt.Sprintf("test-id-%d", testIDCounter)
}
