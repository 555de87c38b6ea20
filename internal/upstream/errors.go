package upstream

import "fmt"

// TransportError indicates the HTTP request to the generation service
// could not be completed (connection refused, DNS failure, timeout).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream %s: transport failure: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError indicates the service answered but the body could not be
// interpreted (not JSON, or a required field missing).
type ProtocolError struct {
	Op    string
	Field string
	Err   error
}

func (e *ProtocolError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("upstream %s: malformed response: missing %s", e.Op, e.Field)
	}
	return fmt.Sprintf("upstream %s: malformed response: %v", e.Op, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// RemoteError indicates the service answered with an explicit failure,
// either a non-2xx status or a success=false envelope.
type RemoteError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("upstream %s: %s (status %d)", e.Op, e.Message, e.StatusCode)
}

// SubmissionError indicates a generation task could not be started.
// The wrapped error is one of the errors above.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("task submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// TaskError indicates the generation task itself terminated with an error
// reported by the service.
type TaskError struct {
	TaskID  string
	Message string
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed: %s", e.TaskID, e.Message)
}
