// Package wizard holds the per-session state machine for the document
// analysis and generation workflow. State moves forward only through the
// completion methods; remote-call failures never touch it, so a failed
// step stays enabled and can simply be retried.
package wizard

import (
	"github.com/testforge/backend/internal/models"
)

// State is the wizard's data model for one session. Zero value is a
// fresh wizard with nothing selected.
type State struct {
	Document *models.Document `json:"document,omitempty"`
	Uploaded bool             `json:"uploaded"`

	ExtractedText string `json:"extractedText,omitempty"`
	HeaderJSON    string `json:"headerJson,omitempty"`
	BodyTable     string `json:"bodyTable,omitempty"`

	SpecSectionActive      bool `json:"specSectionActive"`
	SyntheticSectionActive bool `json:"syntheticSectionActive"`

	Artifact     *models.SyntheticArtifact `json:"artifact,omitempty"`
	FeedbackText string                    `json:"feedbackText,omitempty"`
}

// Capabilities is the set of operations currently allowed. It is derived
// from State on demand and never stored.
type Capabilities struct {
	CanUpload             bool `json:"canUpload"`
	CanExtract            bool `json:"canExtract"`
	CanAnalyzeSpec        bool `json:"canAnalyzeSpec"`
	CanReviewSpec         bool `json:"canReviewSpec"`
	CanConfirmAndGenerate bool `json:"canConfirmAndGenerate"`
	CanReviewSynthetic    bool `json:"canReviewSynthetic"`
	CanDownloadArtifact   bool `json:"canDownloadArtifact"`
}

// Capabilities derives what the user may do from the current state.
func (s *State) Capabilities() Capabilities {
	hasHeader := s.HeaderJSON != ""
	hasBody := s.BodyTable != ""

	return Capabilities{
		CanUpload:             s.Document != nil && !s.Uploaded,
		CanExtract:            s.Uploaded && s.ExtractedText == "",
		CanAnalyzeSpec:        s.ExtractedText != "",
		CanReviewSpec:         s.SpecSectionActive && s.FeedbackText != "",
		CanConfirmAndGenerate: s.SpecSectionActive && hasHeader && hasBody,
		CanReviewSynthetic:    s.SyntheticSectionActive && s.Artifact != nil && s.FeedbackText != "",
		CanDownloadArtifact:   s.Artifact != nil,
	}
}

// SelectDocument attaches a newly chosen document and hard-resets every
// downstream artifact. Picking a new file invalidates everything derived
// from the old one. The metadata is copied so session-local status never
// leaks into the caller's record.
func (s *State) SelectDocument(doc *models.Document) {
	if doc == nil {
		s.Document = nil
	} else {
		d := *doc
		s.Document = &d
	}
	s.Uploaded = false
	s.ExtractedText = ""
	s.HeaderJSON = ""
	s.BodyTable = ""
	s.SpecSectionActive = false
	s.SyntheticSectionActive = false
	s.Artifact = nil
	s.FeedbackText = ""
}

// MarkUploaded records that the selected document reached storage.
func (s *State) MarkUploaded() {
	s.Uploaded = true
}

// SetExtractedText records the text extraction result.
func (s *State) SetExtractedText(text string) {
	s.ExtractedText = text
}

// CompleteAnalysis records the analysis result and opens the spec section.
// A re-analysis invalidates any previously generated dataset, so the
// synthetic section closes and the artifact is dropped.
func (s *State) CompleteAnalysis(headerJSON, bodyTable string) {
	s.HeaderJSON = headerJSON
	s.BodyTable = bodyTable
	s.SpecSectionActive = true
	s.SyntheticSectionActive = false
	s.Artifact = nil
}

// UpdateBodyTable replaces the body table after a review round-trip.
func (s *State) UpdateBodyTable(table string) {
	s.BodyTable = table
}

// UpdateHeaderJSON replaces the header JSON after a review round-trip.
func (s *State) UpdateHeaderJSON(headerJSON string) {
	s.HeaderJSON = headerJSON
}

// CompleteGeneration records a finished generation run and opens the
// synthetic section. The spec section stays visible so both can be
// reviewed side by side.
func (s *State) CompleteGeneration(artifact *models.SyntheticArtifact) {
	s.Artifact = artifact
	s.SyntheticSectionActive = true
}

// SetFeedback stores the user's current feedback text.
func (s *State) SetFeedback(text string) {
	s.FeedbackText = text
}

// Clear resets the wizard to its initial state.
func (s *State) Clear() {
	*s = State{}
}
