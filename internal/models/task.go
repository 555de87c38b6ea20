package models

// TaskState represents the upstream-reported state of a generation task.
type TaskState string

const (
	TaskStatePending  TaskState = "pending"
	TaskStateComplete TaskState = "complete"
	TaskStateError    TaskState = "error"
)

// TaskStatus is one status response for an asynchronous generation task.
type TaskStatus struct {
	ID     string            `json:"id"`
	State  TaskState         `json:"state"`
	Result *GenerationResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// GenerationResult carries the payload of a completed generation task.
type GenerationResult struct {
	Markdown string `json:"synthetic_data_markdown"`
	CSV      string `json:"synthetic_data_csv"`
}

// GenerationRequest is the input for starting a synthetic data task.
type GenerationRequest struct {
	Filename    string `json:"filename"`
	NumRows     int    `json:"num_rows"`
	BodyTable   string `json:"body_markdown"`
	HeaderJSON  string `json:"header_json_markdown"`
	FullDocText string `json:"full_doc_text"`
}
