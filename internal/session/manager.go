// Package session manages wizard sessions: one per browser workflow,
// holding the wizard state, chat history, the active generation poll and
// the row preview store for the latest artifact.
package session

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/testforge/backend/internal/artifact"
	"github.com/testforge/backend/internal/metrics"
	"github.com/testforge/backend/internal/models"
	"github.com/testforge/backend/internal/polling"
	"github.com/testforge/backend/internal/storage"
	"github.com/testforge/backend/internal/upstream"
	"github.com/testforge/backend/internal/wizard"
)

// MaxSessions limits concurrent sessions to prevent memory exhaustion
const MaxSessions = 32

// SessionMaxAge is how long to keep inactive sessions before cleanup
const SessionMaxAge = 30 * time.Minute

// SessionKeepAliveWindow is how long to keep sessions that are actively being used
const SessionKeepAliveWindow = 5 * time.Minute

// Generation row bounds enforced before submission. MaxNumRows is the
// default ceiling; deployments can raise it via Options.MaxRows.
const (
	DefaultNumRows = 30
	MaxNumRows     = 100
)

// State holds everything belonging to one wizard session.
type State struct {
	ID            string
	CreatedAt     time.Time
	Wizard        *wizard.State
	Generation    models.GenerationState
	Rows          *artifact.RowStore
	Chat          []models.ChatEntry
	ChatSessionID string // upstream chat thread id
	LastAccessed  time.Time

	cancelPoll context.CancelFunc
}

// View is the JSON-facing summary of a session.
type View struct {
	ID           string                 `json:"id"`
	CreatedAt    time.Time              `json:"createdAt"`
	Wizard       *wizard.State          `json:"wizard"`
	Capabilities wizard.Capabilities    `json:"capabilities"`
	Generation   models.GenerationState `json:"generation"`
	ChatLength   int                    `json:"chatLength"`
}

// Manager handles active wizard sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*State

	upstream     *upstream.Client
	store        storage.Store
	tempDir      string
	snapshotDir  string
	pollInterval time.Duration
	maxAttempts  int
	maxRows      int
	metrics      *metrics.Recorder
}

// Options configures a Manager.
type Options struct {
	TempDir      string
	SnapshotDir  string // empty disables snapshot persistence
	PollInterval time.Duration
	MaxAttempts  int
	MaxRows      int               // 0 uses MaxNumRows
	Metrics      *metrics.Recorder // nil disables metrics
}

// NewManager creates a session manager.
func NewManager(client *upstream.Client, store storage.Store, opts Options) *Manager {
	if opts.TempDir == "" {
		opts.TempDir = "./data/temp"
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = polling.DefaultInterval
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = polling.DefaultMaxAttempts
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = MaxNumRows
	}
	return &Manager{
		sessions:     make(map[string]*State),
		upstream:     client,
		store:        store,
		tempDir:      opts.TempDir,
		snapshotDir:  opts.SnapshotDir,
		pollInterval: opts.PollInterval,
		maxAttempts:  opts.MaxAttempts,
		maxRows:      opts.MaxRows,
		metrics:      opts.Metrics,
	}
}

// CreateSession starts a fresh wizard session.
func (m *Manager) CreateSession() (*View, error) {
	m.cleanupOldSessionsIfNeeded()

	state := &State{
		ID:           uuid.New().String(),
		CreatedAt:    time.Now(),
		Wizard:       &wizard.State{},
		Generation:   models.GenerationState{Status: models.GenerationIdle},
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	m.sessions[state.ID] = state
	m.mu.Unlock()

	return viewOf(state), nil
}

// GetSession returns the view of a session.
func (m *Manager) GetSession(id string) (*View, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return viewOf(state), true
}

// TouchSession updates the LastAccessed timestamp for a session.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// DeleteSession removes a session and releases its resources.
func (m *Manager) DeleteSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	m.releaseLocked(state)
	delete(m.sessions, id)
	m.removeSnapshot(id)
	return true
}

// releaseLocked cancels the active poll and closes the row store.
// Caller holds m.mu.
func (m *Manager) releaseLocked(state *State) {
	if state.cancelPoll != nil {
		state.cancelPoll()
		state.cancelPoll = nil
	}
	if state.Rows != nil {
		state.Rows.Close()
		state.Rows = nil
	}
}

// AttachDocument selects a freshly uploaded document for the session.
// The HTTP upload covers both the selection and the upload step, so the
// wizard is marked uploaded in the same transition.
func (m *Manager) AttachDocument(id string, doc *models.Document) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}

	// Selecting a new document abandons any in-flight generation.
	if state.cancelPoll != nil {
		state.cancelPoll()
		state.cancelPoll = nil
	}
	if state.Rows != nil {
		state.Rows.Close()
		state.Rows = nil
	}

	state.Wizard.SelectDocument(doc)
	state.Wizard.MarkUploaded()
	state.Generation = models.GenerationState{Status: models.GenerationIdle}
	state.LastAccessed = time.Now()

	return viewOf(state), nil
}

// Extract runs text extraction for the session's document.
func (m *Manager) Extract(ctx context.Context, id string) (*View, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	var doc *models.Document
	if ok {
		doc = state.Wizard.Document
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if doc == nil || !state.Wizard.Uploaded {
		return nil, fmt.Errorf("no uploaded document to extract")
	}

	content, err := m.store.ReadFile(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	started := time.Now()
	text, err := m.upstream.ExtractDocumentText(ctx, doc.Name, bytes.NewReader(content))
	m.observeUpstream("process-docx", started, err)
	if err != nil {
		// Extraction failure leaves the wizard untouched; the step stays
		// enabled and can be retried.
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok = m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	// The document may have been swapped while extraction ran.
	if state.Wizard.Document == nil || state.Wizard.Document.ID != doc.ID {
		return viewOf(state), nil
	}
	state.Wizard.SetExtractedText(text)
	state.Wizard.Document.Status = "extracted"
	state.LastAccessed = time.Now()

	return viewOf(state), nil
}

// Analyze runs spec analysis over the extracted text.
func (m *Manager) Analyze(ctx context.Context, id string) (*View, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	var text, name string
	if ok {
		text = state.Wizard.ExtractedText
		if state.Wizard.Document != nil {
			name = state.Wizard.Document.Name
		}
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if text == "" {
		return nil, fmt.Errorf("no extracted text to analyze")
	}

	started := time.Now()
	analysis, err := m.upstream.AnalyzeSpec(ctx, text, name)
	m.observeUpstream("generate-markdown", started, err)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok = m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if state.Rows != nil {
		// Analysis invalidates the previous artifact preview.
		state.Rows.Close()
		state.Rows = nil
	}
	state.Wizard.CompleteAnalysis(analysis.HeaderJSON, analysis.BodyTable)
	state.LastAccessed = time.Now()

	return viewOf(state), nil
}

// ReviewBody round-trips the body table through the review endpoint.
func (m *Manager) ReviewBody(ctx context.Context, id, feedback string) (*View, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	var table string
	if ok {
		table = state.Wizard.BodyTable
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if feedback == "" {
		return nil, fmt.Errorf("feedback must not be empty")
	}
	if table == "" {
		return nil, fmt.Errorf("no body table to review")
	}

	revised, err := m.upstream.ReviewBodyTable(ctx, table, feedback)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok = m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	state.Wizard.UpdateBodyTable(revised)
	state.Wizard.SetFeedback("")
	state.LastAccessed = time.Now()

	return viewOf(state), nil
}

// ReviewHeader round-trips the header JSON through the review endpoint.
func (m *Manager) ReviewHeader(ctx context.Context, id, feedback string) (*View, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	var header string
	if ok {
		header = state.Wizard.HeaderJSON
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if feedback == "" {
		return nil, fmt.Errorf("feedback must not be empty")
	}
	if header == "" {
		return nil, fmt.Errorf("no header JSON to review")
	}

	revised, err := m.upstream.ReviewHeader(ctx, header, feedback)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok = m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	state.Wizard.UpdateHeaderJSON(revised)
	state.Wizard.SetFeedback("")
	state.LastAccessed = time.Now()

	return viewOf(state), nil
}

// ReviewSynthetic round-trips the generated dataset through the review
// endpoint and replaces the artifact and its row preview.
func (m *Manager) ReviewSynthetic(ctx context.Context, id, feedback string) (*View, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	var art *models.SyntheticArtifact
	if ok {
		art = state.Wizard.Artifact
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if feedback == "" {
		return nil, fmt.Errorf("feedback must not be empty")
	}
	if art == nil {
		return nil, fmt.Errorf("no synthetic artifact to review")
	}

	result, err := m.upstream.ReviewSyntheticData(ctx, art.Markdown, feedback)
	if err != nil {
		return nil, err
	}

	return m.applyResult(id, art.TaskID, result)
}

// StartGeneration submits a synthetic data task and begins polling it in
// the background. A previous in-flight run for the session is superseded:
// its poll is cancelled and the upstream task abandoned.
func (m *Manager) StartGeneration(ctx context.Context, id string, numRows int) (*View, error) {
	if numRows == 0 {
		numRows = DefaultNumRows
	}
	if numRows < 0 || numRows > m.maxRows {
		return nil, fmt.Errorf("num_rows must be between 1 and %d", m.maxRows)
	}

	m.mu.RLock()
	state, ok := m.sessions[id]
	var req *models.GenerationRequest
	if ok {
		caps := state.Wizard.Capabilities()
		if caps.CanConfirmAndGenerate {
			name := ""
			if state.Wizard.Document != nil {
				name = state.Wizard.Document.Name
			}
			req = &models.GenerationRequest{
				Filename:    name,
				NumRows:     numRows,
				BodyTable:   state.Wizard.BodyTable,
				HeaderJSON:  state.Wizard.HeaderJSON,
				FullDocText: state.Wizard.ExtractedText,
			}
		}
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if req == nil {
		return nil, fmt.Errorf("session is not ready to generate")
	}

	taskID, err := m.upstream.SubmitGenerationTask(ctx, req)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordSubmission("failed")
		}
		return nil, err
	}
	if m.metrics != nil {
		m.metrics.RecordSubmission("accepted")
	}

	pollCtx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	state, ok = m.sessions[id]
	if !ok {
		m.mu.Unlock()
		cancel()
		return nil, fmt.Errorf("session not found: %s", id)
	}
	if state.cancelPoll != nil {
		// Supersede: stop the old poll, the new task wins.
		state.cancelPoll()
	}
	state.cancelPoll = cancel
	state.Generation = models.GenerationState{
		TaskID:    taskID,
		Status:    models.GenerationRunning,
		StartedAt: time.Now(),
	}
	state.LastAccessed = time.Now()
	view := viewOf(state)
	m.mu.Unlock()

	go m.runPoll(pollCtx, id, taskID)

	return view, nil
}

// runPoll drives the status loop for one generation task and applies the
// terminal outcome if the task is still the session's current one.
func (m *Manager) runPoll(ctx context.Context, sessionID, taskID string) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Generate %s] PANIC recovered: %v\n", short(sessionID), r)
			m.failGeneration(sessionID, taskID, models.GenerationError, fmt.Sprintf("poll panicked: %v", r))
		}
	}()

	fmt.Printf("[Generate %s] Polling task %s\n", short(sessionID), short(taskID))

	status := func(ctx context.Context, taskID string) (*models.TaskStatus, error) {
		st, err := m.upstream.TaskStatus(ctx, taskID)
		m.bumpAttempts(sessionID, taskID)
		if m.metrics != nil {
			switch {
			case err != nil:
				m.metrics.RecordPollTick("transport_error")
			case st.State == models.TaskStateComplete:
				m.metrics.RecordPollTick("complete")
			case st.State == models.TaskStateError:
				m.metrics.RecordPollTick("error")
			default:
				m.metrics.RecordPollTick("pending")
			}
		}
		return st, err
	}

	poller := polling.New(status, m.pollInterval, m.maxAttempts)
	st, err := poller.Run(ctx, taskID)

	switch {
	case err == nil:
		fmt.Printf("[Generate %s] Task %s complete\n", short(sessionID), short(taskID))
		if _, applyErr := m.applyResult(sessionID, taskID, st.Result); applyErr != nil {
			fmt.Printf("[Generate %s] Failed to apply result: %v\n", short(sessionID), applyErr)
			m.failGeneration(sessionID, taskID, models.GenerationError, applyErr.Error())
		} else if m.metrics != nil {
			m.metrics.RecordGeneration(string(models.GenerationComplete))
		}
	case ctx.Err() != nil:
		// Superseded or session deleted. The new run owns the state now.
		fmt.Printf("[Generate %s] Poll for task %s cancelled\n", short(sessionID), short(taskID))
	default:
		status := models.GenerationError
		if _, ok := err.(*polling.TimeoutError); ok {
			status = models.GenerationTimeout
		}
		fmt.Printf("[Generate %s] Task %s failed: %v\n", short(sessionID), short(taskID), err)
		m.failGeneration(sessionID, taskID, status, err.Error())
		if m.metrics != nil {
			m.metrics.RecordGeneration(string(status))
		}
	}
}

// observeUpstream records one upstream request duration when metrics
// are enabled.
func (m *Manager) observeUpstream(operation string, started time.Time, err error) {
	if m.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.ObserveUpstream(operation, status, time.Since(started))
}

// bumpAttempts records one poll attempt for UI progress, provided the
// task is still current.
func (m *Manager) bumpAttempts(sessionID, taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok || state.Generation.TaskID != taskID {
		return
	}
	state.Generation.Attempts++
}

// applyResult installs a completed generation result: builds the row
// preview store, updates the wizard and persists a snapshot. Late results
// from superseded tasks are dropped.
func (m *Manager) applyResult(sessionID, taskID string, result *models.GenerationResult) (*View, error) {
	if result == nil {
		return nil, fmt.Errorf("task %s completed without a result", taskID)
	}

	// Build the preview store outside the lock; ingestion can be slow.
	// The file is scoped to the task so a late build for a superseded
	// task cannot clobber the current one.
	rows, err := artifact.NewRowStore(m.tempDir, sessionID+"_"+taskID, result.CSV)
	if err != nil {
		return nil, fmt.Errorf("building row preview: %w", err)
	}

	art := &models.SyntheticArtifact{
		TaskID:      taskID,
		Markdown:    result.Markdown,
		CSV:         result.CSV,
		RowCount:    rows.Len(),
		GeneratedAt: time.Now(),
	}

	m.mu.Lock()
	state, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		rows.Close()
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	if state.Generation.TaskID != taskID {
		// A newer generation superseded this one while it was completing.
		m.mu.Unlock()
		rows.Close()
		return nil, fmt.Errorf("task %s superseded", taskID)
	}

	if state.Rows != nil {
		state.Rows.Close()
	}
	state.Rows = rows
	state.Wizard.CompleteGeneration(art)
	state.Wizard.SetFeedback("")
	state.Generation.Status = models.GenerationComplete
	state.Generation.EndedAt = time.Now()
	state.cancelPoll = nil
	state.LastAccessed = time.Now()
	view := viewOf(state)
	snap := snapshotOf(state)
	m.mu.Unlock()

	m.writeSnapshot(snap)

	return view, nil
}

// failGeneration records a terminal failure if the task is still current.
// The wizard data model is untouched so the user can retry.
func (m *Manager) failGeneration(sessionID, taskID string, status models.GenerationStatus, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[sessionID]
	if !ok || state.Generation.TaskID != taskID {
		return
	}
	state.Generation.Status = status
	state.Generation.Error = msg
	state.Generation.EndedAt = time.Now()
	state.cancelPoll = nil
}

// GenerationStatus returns the poll-visible generation state.
func (m *Manager) GenerationStatus(id string) (models.GenerationState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return models.GenerationState{}, false
	}
	return state.Generation, true
}

// Artifact returns the session's completed artifact.
func (m *Manager) Artifact(id string) (*models.SyntheticArtifact, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok || state.Wizard.Artifact == nil {
		return nil, false
	}
	return state.Wizard.Artifact, true
}

// ArtifactRows returns one page of the artifact's row preview.
func (m *Manager) ArtifactRows(ctx context.Context, id, search string, page, pageSize int) ([]map[string]string, []string, int, bool) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	var rows *artifact.RowStore
	if ok {
		rows = state.Rows
	}
	m.mu.RUnlock()

	if rows == nil {
		return nil, nil, 0, false
	}

	page2, total, err := rows.Rows(ctx, search, page, pageSize)
	if err != nil {
		fmt.Printf("[Session %s] Row query failed: %v\n", short(id), err)
		return nil, nil, 0, false
	}
	return page2, rows.Columns(), total, true
}

// SetFeedback stores the user's feedback draft on the wizard.
func (m *Manager) SetFeedback(id, text string) (*View, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	state.Wizard.SetFeedback(text)
	state.LastAccessed = time.Now()
	return viewOf(state), nil
}

// Chat forwards a message to the assistant and appends the exchange to
// the session history, which is capped at models.MaxChatHistory entries.
func (m *Manager) Chat(ctx context.Context, id, message string) (*models.ChatEntry, error) {
	m.mu.RLock()
	state, ok := m.sessions[id]
	var chatID string
	if ok {
		chatID = state.ChatSessionID
	}
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}

	reply, err := m.upstream.Chat(ctx, message, chatID)
	if err != nil {
		return nil, err
	}

	entry := models.ChatEntry{
		UserMessage: message,
		BotResponse: reply.Response,
		Timestamp:   time.Now(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok = m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	state.ChatSessionID = reply.SessionID
	state.Chat = append(state.Chat, entry)
	if len(state.Chat) > models.MaxChatHistory {
		state.Chat = state.Chat[len(state.Chat)-models.MaxChatHistory:]
	}
	state.LastAccessed = time.Now()

	return &entry, nil
}

// ChatHistory returns the session's chat history.
func (m *Manager) ChatHistory(id string) ([]models.ChatEntry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	out := make([]models.ChatEntry, len(state.Chat))
	copy(out, state.Chat)
	return out, true
}

// cleanupOldSessionsIfNeeded removes oldest inactive sessions if at capacity
func (m *Manager) cleanupOldSessionsIfNeeded() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sessions) < MaxSessions {
		return
	}

	var oldest *State
	for _, state := range m.sessions {
		if state.Generation.Status == models.GenerationRunning {
			continue
		}
		if oldest == nil || state.LastAccessed.Before(oldest.LastAccessed) {
			oldest = state
		}
	}
	if oldest == nil {
		return
	}

	m.releaseLocked(oldest)
	delete(m.sessions, oldest.ID)
	fmt.Printf("[Manager] Evicted session %s to free capacity\n", short(oldest.ID))
}

// CleanupOldSessions removes sessions older than maxAge,
// but keeps sessions that have been accessed within SessionKeepAliveWindow.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-SessionKeepAliveWindow)

	for id, state := range m.sessions {
		// A running generation keeps its session alive.
		if state.Generation.Status == models.GenerationRunning {
			continue
		}
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			m.releaseLocked(state)
			delete(m.sessions, id)
			fmt.Printf("[Manager] Cleaned up aged session %s (last accessed: %s ago)\n",
				short(id), time.Since(state.LastAccessed).Round(time.Second))
		}
	}
}

// SessionCount returns the number of active sessions.
func (m *Manager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func viewOf(state *State) *View {
	// Copy the wizard and its document so the view can be marshalled
	// after the session lock is released.
	w := *state.Wizard
	if w.Document != nil {
		d := *w.Document
		w.Document = &d
	}
	return &View{
		ID:           state.ID,
		CreatedAt:    state.CreatedAt,
		Wizard:       &w,
		Capabilities: state.Wizard.Capabilities(),
		Generation:   state.Generation,
		ChatLength:   len(state.Chat),
	}
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
