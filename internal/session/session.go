// Package session holds the per-document editing state: the currently
// active template, the last validation result, and the save gate. One
// Session is constructed per open document; there is no process-wide
// singleton. A Session is not safe for concurrent use — callers serialize
// access, typically from a single UI event loop.
package session

import (
	"github.com/objedit/jsonshape/internal/models"
	"github.com/objedit/jsonshape/internal/template"
	"github.com/objedit/jsonshape/internal/validate"
)

// BlockMode is the save-gate policy. In warn mode a document with
// violations may still be saved; in block mode it may not.
type BlockMode string

const (
	ModeWarn  BlockMode = "warn"
	ModeBlock BlockMode = "block"
)

// ValidMode reports whether m is a recognized block mode.
func ValidMode(m BlockMode) bool {
	return m == ModeWarn || m == ModeBlock
}

// Session tracks the inference and validation state of one open document.
type Session struct {
	tmpl       *template.Template
	lastResult validate.ValidationResult
	mode       BlockMode
	detected   bool
}

// New creates an empty session with the given block mode. An unset mode
// defaults to warn.
func New(mode BlockMode) *Session {
	if !ValidMode(mode) {
		mode = ModeWarn
	}
	return &Session{
		lastResult: validate.CleanResult(),
		mode:       mode,
	}
}

// DetectAndValidate re-runs inference on data and, when a template comes
// out, validates the same data against it and stores both. When inference
// yields nothing the session drops back to its empty state. Callers invoke
// this at every point the document mutates; there is no automatic
// dependency tracking. The stored (and returned) result is what CanSave
// consults next.
func (s *Session) DetectAndValidate(data models.JSONValue) validate.ValidationResult {
	t := template.Detect(data)
	if t == nil {
		s.tmpl = nil
		s.lastResult = validate.CleanResult()
		s.detected = false
		return s.lastResult
	}

	s.tmpl = t
	s.lastResult = validate.Against(data, t)
	s.detected = true
	return s.lastResult
}

// ValidateData checks arbitrary data against the currently stored template
// without touching session state. With no template stored, anything passes.
func (s *Session) ValidateData(data models.JSONValue) validate.ValidationResult {
	if s.tmpl == nil {
		return validate.CleanResult()
	}
	return validate.Against(data, s.tmpl)
}

// Revalidate checks data against the currently stored template and stores
// the outcome as the last result. This is the path for externally supplied
// templates, where inference must not replace the template.
func (s *Session) Revalidate(data models.JSONValue) validate.ValidationResult {
	s.lastResult = s.ValidateData(data)
	return s.lastResult
}

// Reset returns the session to its initial empty state. Called when the
// caller switches documents.
func (s *Session) Reset() {
	s.tmpl = nil
	s.lastResult = validate.CleanResult()
	s.detected = false
}

// CanSave is the single authority the editing layer consults before a
// persist operation. Warn mode always allows saving; block mode allows it
// only when the last stored result was clean. Re-evaluate after every
// DetectAndValidate call, since the document may have changed.
func (s *Session) CanSave() bool {
	if s.mode == ModeWarn {
		return true
	}
	return s.lastResult.IsValid
}

// TemplateDetected reports whether the last inference produced a template.
func (s *Session) TemplateDetected() bool {
	return s.detected
}

// Template returns the currently stored template, nil when none.
func (s *Session) Template() *template.Template {
	return s.tmpl
}

// SetTemplate installs an externally supplied template, replacing any
// inferred one. The last result is reset; the caller re-validates.
func (s *Session) SetTemplate(t *template.Template) {
	s.tmpl = t
	s.lastResult = validate.CleanResult()
	s.detected = t != nil
}

// LastResult returns the most recently stored validation result.
func (s *Session) LastResult() validate.ValidationResult {
	return s.lastResult
}

// ErrorCount returns the error-severity violation count of the last result.
func (s *Session) ErrorCount() int {
	return s.lastResult.ErrorCount()
}

// WarningCount returns the warning-severity violation count of the last result.
func (s *Session) WarningCount() int {
	return s.lastResult.WarningCount()
}

// Mode returns the session's block mode.
func (s *Session) Mode() BlockMode {
	return s.mode
}

// SetMode changes the save-gate policy. Mode is orthogonal to the
// template state and never triggers inference.
func (s *Session) SetMode(m BlockMode) {
	if ValidMode(m) {
		s.mode = m
	}
}
