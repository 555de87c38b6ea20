package models

import (
	"time"
)

// Document represents metadata about an uploaded source document.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploadedAt"`
	Status     string    `json:"status"` // "uploaded", "extracted", "error"
}
