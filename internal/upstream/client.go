// Package upstream implements the HTTP client for the generation service.
// All document analysis, review and synthetic data generation is delegated
// to that service; this package owns the wire contract only.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/testforge/backend/internal/models"
)

// Client talks to the generation service REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL.
// A zero timeout means no per-request timeout; callers pass contexts.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope is the standard response wrapper used by the generation service.
type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	RequestID string          `json:"request_id"`
}

// postJSON performs a POST with a JSON body and decodes the response
// envelope, returning the raw data payload.
func (c *Client) postJSON(ctx context.Context, op, path string, body interface{}) (json.RawMessage, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, &ProtocolError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	return c.decodeEnvelope(op, resp)
}

// decodeEnvelope reads the response body and unwraps the service envelope.
// A non-2xx status or success=false is a RemoteError regardless of shape;
// an unparseable body falls back to the HTTP status text.
func (c *Client) decodeEnvelope(op string, resp *http.Response) (json.RawMessage, error) {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	var env envelope
	parseErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if parseErr == nil {
			if env.Error != "" {
				msg = env.Error
			} else if env.Message != "" {
				msg = env.Message
			}
		}
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if parseErr != nil {
		return nil, &ProtocolError{Op: op, Err: parseErr}
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = "request rejected"
		}
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	return env.Data, nil
}

// SubmitGenerationTask starts an asynchronous synthetic data task and
// returns its id. Any failure is wrapped in a SubmissionError.
func (c *Client) SubmitGenerationTask(ctx context.Context, req *models.GenerationRequest) (string, error) {
	data, err := c.postJSON(ctx, "start-synthetic-data-task", "/api/start-synthetic-data-task", req)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	var out struct {
		TaskID string `json:"task_id"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &SubmissionError{Err: &ProtocolError{Op: "start-synthetic-data-task", Err: err}}
	}
	if out.TaskID == "" {
		return "", &SubmissionError{Err: &ProtocolError{Op: "start-synthetic-data-task", Field: "task_id"}}
	}

	return out.TaskID, nil
}

// TaskStatus queries the state of a generation task. The status endpoint
// does not use the response envelope; the body is the status object itself.
// Unknown task ids are reported by the service as still processing.
func (c *Client) TaskStatus(ctx context.Context, taskID string) (*models.TaskStatus, error) {
	const op = "get-task-status"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/get-task-status/"+taskID, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteError{Op: op, StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var body struct {
		Status string `json:"status"`
		Result *struct {
			Data *models.GenerationResult `json:"data"`
		} `json:"result"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, &ProtocolError{Op: op, Err: err}
	}

	st := &models.TaskStatus{ID: taskID}
	switch body.Status {
	case "complete":
		st.State = models.TaskStateComplete
		if body.Result != nil {
			st.Result = body.Result.Data
		}
		if st.Result == nil {
			return nil, &ProtocolError{Op: op, Field: "result.data"}
		}
	case "error":
		st.State = models.TaskStateError
		st.Error = body.Error
		if st.Error == "" {
			st.Error = "task failed without detail"
		}
	case "processing", "pending":
		st.State = models.TaskStatePending
	case "":
		return nil, &ProtocolError{Op: op, Field: "status"}
	default:
		// Treat unrecognized states as still in progress rather than
		// failing the whole run on a vocabulary mismatch.
		st.State = models.TaskStatePending
	}

	return st, nil
}

// ExtractDocumentText uploads a document and returns its extracted text.
func (c *Client) ExtractDocumentText(ctx context.Context, name string, content io.Reader) (string, error) {
	const op = "process-docx"

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return "", &ProtocolError{Op: op, Err: err}
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", &ProtocolError{Op: op, Err: err}
	}
	if err := mw.Close(); err != nil {
		return "", &ProtocolError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/process-docx", &buf)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := c.decodeEnvelope(op, resp)
	if err != nil {
		return "", err
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &ProtocolError{Op: op, Err: err}
	}
	if out.Text == "" {
		return "", &ProtocolError{Op: op, Field: "text"}
	}

	return out.Text, nil
}

// Analysis is the structured output of spec analysis: a header JSON blob
// and a markdown table describing the request body.
type Analysis struct {
	HeaderJSON string `json:"header_json"`
	BodyTable  string `json:"body_markdown"`
	Filename   string `json:"filename"`
}

// AnalyzeSpec turns extracted document text into a structured analysis.
func (c *Client) AnalyzeSpec(ctx context.Context, text, filename string) (*Analysis, error) {
	const op = "generate-markdown"

	data, err := c.postJSON(ctx, op, "/api/generate-markdown", map[string]string{
		"text":     text,
		"filename": filename,
	})
	if err != nil {
		return nil, err
	}

	var out Analysis
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ProtocolError{Op: op, Err: err}
	}
	if out.BodyTable == "" {
		return nil, &ProtocolError{Op: op, Field: "body_markdown"}
	}

	return &out, nil
}

// ReviewBodyTable applies user feedback to the body markdown table.
func (c *Client) ReviewBodyTable(ctx context.Context, table, feedback string) (string, error) {
	const op = "review-markdown"

	data, err := c.postJSON(ctx, op, "/api/review-markdown", map[string]string{
		"markdown": table,
		"feedback": feedback,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Markdown string `json:"markdown"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &ProtocolError{Op: op, Err: err}
	}
	if out.Markdown == "" {
		return "", &ProtocolError{Op: op, Field: "markdown"}
	}

	return out.Markdown, nil
}

// ReviewHeader applies user feedback to the header JSON blob.
func (c *Client) ReviewHeader(ctx context.Context, headerJSON, feedback string) (string, error) {
	const op = "review-header-json"

	data, err := c.postJSON(ctx, op, "/api/review-header-json", map[string]string{
		"header_json": headerJSON,
		"feedback":    feedback,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		HeaderJSON string `json:"header_json"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &ProtocolError{Op: op, Err: err}
	}
	if out.HeaderJSON == "" {
		return "", &ProtocolError{Op: op, Field: "header_json"}
	}

	return out.HeaderJSON, nil
}

// ReviewSyntheticData applies user feedback to a generated dataset and
// returns the revised markdown and CSV.
func (c *Client) ReviewSyntheticData(ctx context.Context, markdown, feedback string) (*models.GenerationResult, error) {
	const op = "review-synthetic-data"

	data, err := c.postJSON(ctx, op, "/api/review-synthetic-data", map[string]string{
		"synthetic_data_markdown": markdown,
		"feedback":                feedback,
	})
	if err != nil {
		return nil, err
	}

	var out models.GenerationResult
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ProtocolError{Op: op, Err: err}
	}
	if out.CSV == "" {
		return nil, &ProtocolError{Op: op, Field: "synthetic_data_csv"}
	}

	return &out, nil
}

// GenerateJMX builds a JMeter test plan from the analyzed spec parts.
func (c *Client) GenerateJMX(ctx context.Context, headerJSON, bodyTable, csv string) (string, error) {
	const op = "generate-jmx"

	data, err := c.postJSON(ctx, op, "/api/generate-jmx", map[string]string{
		"header_json":        headerJSON,
		"body_markdown":      bodyTable,
		"synthetic_data_csv": csv,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", &ProtocolError{Op: op, Err: err}
	}
	if out.Content == "" {
		return "", &ProtocolError{Op: op, Field: "content"}
	}

	return out.Content, nil
}

// ValidateXML asks the service to validate an XML document. It returns
// the validation verdict and any reported issues.
func (c *Client) ValidateXML(ctx context.Context, xml string) (bool, []string, error) {
	const op = "validate"

	data, err := c.postJSON(ctx, op, "/api/validate", map[string]string{
		"content": xml,
	})
	if err != nil {
		return false, nil, err
	}

	var out struct {
		Valid  bool     `json:"valid"`
		Issues []string `json:"issues"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return false, nil, &ProtocolError{Op: op, Err: err}
	}

	return out.Valid, out.Issues, nil
}

// ChatReply is one response from the chat assistant.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// Chat sends a user message to the assistant, threading the upstream
// chat session id when one exists.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (*ChatReply, error) {
	const op = "chat"

	body := map[string]string{"message": message}
	if sessionID != "" {
		body["session_id"] = sessionID
	}

	data, err := c.postJSON(ctx, op, "/api/chat", body)
	if err != nil {
		return nil, err
	}

	var out ChatReply
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &ProtocolError{Op: op, Err: err}
	}
	if out.Response == "" {
		return nil, &ProtocolError{Op: op, Field: "response"}
	}

	return &out, nil
}

// BaseURL returns the configured service base URL.
func (c *Client) BaseURL() string { return c.baseURL }
