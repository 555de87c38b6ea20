package models

import "time"

// GenerationStatus represents the server-side status of a generation run
// as observed by the browser while polling happens in the backend.
type GenerationStatus string

const (
	GenerationIdle     GenerationStatus = "idle"
	GenerationRunning  GenerationStatus = "running"
	GenerationComplete GenerationStatus = "complete"
	GenerationError    GenerationStatus = "error"
	GenerationTimeout  GenerationStatus = "timeout"
)

// GenerationState is the poll-visible view of the active generation run.
type GenerationState struct {
	TaskID    string           `json:"taskId,omitempty"`
	Status    GenerationStatus `json:"status"`
	Attempts  int              `json:"attempts"`
	Error     string           `json:"error,omitempty"`
	StartedAt time.Time        `json:"startedAt,omitempty"`
	EndedAt   time.Time        `json:"endedAt,omitempty"`
}

// SyntheticArtifact is a completed generation result retained by a session.
type SyntheticArtifact struct {
	TaskID      string    `json:"taskId"`
	Markdown    string    `json:"markdown"`
	CSV         string    `json:"csv"`
	RowCount    int       `json:"rowCount"`
	GeneratedAt time.Time `json:"generatedAt"`
}
