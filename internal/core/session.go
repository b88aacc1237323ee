// ABOUTME: Session owns one template's segment list during an editing session
// ABOUTME: Every mutation bumps a version counter and notifies registered observers
package core

import (
	"sync"

	"github.com/harper/letterkit/internal/models"
)

// Change operations reported to observers
const (
	OpSetContent       = "set_content"
	OpUpdateSegments   = "update_segments"
	OpApplySuggestions = "apply_suggestions"
	OpAccept           = "accept_suggestion"
	OpReject           = "reject_suggestion"
	OpAcceptAll        = "accept_all_suggestions"
	OpRejectAll        = "reject_all_suggestions"
	OpInsertVariable   = "insert_variable"
	OpRemoveVariable   = "remove_variable"
)

// Change describes one mutation of a session
type Change struct {
	Op       string           `json:"op"`
	Version  uint64           `json:"version"`
	Segments []models.Segment `json:"segments"`
}

// Snapshot is a read-only view of a session
type Snapshot struct {
	Version            uint64           `json:"version"`
	Segments           []models.Segment `json:"segments"`
	PlainText          string           `json:"plain_text"`
	HasSuggestions     bool             `json:"has_suggestions"`
	PendingSuggestions []models.Segment `json:"pending_suggestions"`
}

// Session holds the segments of one template being edited.
// The mutex lets HTTP handlers share a session; observers run outside the lock.
type Session struct {
	mu        sync.Mutex
	parser    *TemplateParser
	segments  []models.Segment
	version   uint64
	observers map[int]func(Change)
	nextObs   int
}

// NewSession parses initial content with a session-owned ID sequence
func NewSession(initial string, known models.VariableSet) *Session {
	return NewSessionWithParser(initial, NewTemplateParser(NewSequenceIDs(nil), known))
}

// NewSessionWithParser creates a session around an existing parser
func NewSessionWithParser(initial string, parser *TemplateParser) *Session {
	return &Session{
		parser:    parser,
		segments:  parser.Parse(initial),
		observers: make(map[int]func(Change)),
	}
}

// OnChange registers an observer and returns a function that removes it
func (s *Session) OnChange(fn func(Change)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Segments returns a copy of the current segments
func (s *Session) Segments() []models.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySegments(s.segments)
}

// Version returns the number of mutations applied so far
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// PlainText serializes the current segments
func (s *Session) PlainText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Serialize(s.segments)
}

// HasSuggestions reports whether any suggestion is pending
func (s *Session) HasSuggestions() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return HasSuggestions(s.segments)
}

// PendingSuggestions returns the pending suggestion segments
func (s *Session) PendingSuggestions() []models.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PendingSuggestions(s.segments)
}

// Snapshot returns the current state in one consistent read
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := PendingSuggestions(s.segments)
	if pending == nil {
		pending = []models.Segment{}
	}
	return Snapshot{
		Version:            s.version,
		Segments:           copySegments(s.segments),
		PlainText:          Serialize(s.segments),
		HasSuggestions:     len(pending) > 0,
		PendingSuggestions: pending,
	}
}

// SetContent replaces the segments with a fresh parse of content
func (s *Session) SetContent(content string) {
	s.mutate(OpSetContent, func(_ []models.Segment) []models.Segment {
		return s.parser.Parse(content)
	})
}

// UpdateSegments replaces the segments wholesale
func (s *Session) UpdateSegments(segments []models.Segment) {
	s.mutate(OpUpdateSegments, func(_ []models.Segment) []models.Segment {
		return copySegments(segments)
	})
}

// ApplySuggestions overlays suggestions on the current segments
func (s *Session) ApplySuggestions(suggestions []models.Suggestion) {
	s.mutate(OpApplySuggestions, func(cur []models.Segment) []models.Segment {
		return s.parser.ApplySuggestions(cur, suggestions)
	})
}

// AcceptSuggestion accepts one suggestion by id
func (s *Session) AcceptSuggestion(id string) {
	s.mutate(OpAccept, func(cur []models.Segment) []models.Segment {
		return AcceptSuggestion(cur, id)
	})
}

// RejectSuggestion rejects one suggestion by id
func (s *Session) RejectSuggestion(id string) {
	s.mutate(OpReject, func(cur []models.Segment) []models.Segment {
		return RejectSuggestion(cur, id)
	})
}

// AcceptAllSuggestions accepts every pending suggestion
func (s *Session) AcceptAllSuggestions() {
	s.mutate(OpAcceptAll, AcceptAllSuggestions)
}

// RejectAllSuggestions rejects every pending suggestion
func (s *Session) RejectAllSuggestions() {
	s.mutate(OpRejectAll, RejectAllSuggestions)
}

// InsertVariable turns a character range of a text segment into a variable
func (s *Session) InsertVariable(index, start, end int, variable models.VariableType) {
	s.mutate(OpInsertVariable, func(cur []models.Segment) []models.Segment {
		return s.parser.InsertVariable(cur, index, start, end, variable)
	})
}

// RemoveVariable removes a variable by id
func (s *Session) RemoveVariable(id string) {
	s.mutate(OpRemoveVariable, func(cur []models.Segment) []models.Segment {
		return RemoveVariable(cur, id)
	})
}

// mutate applies fn under the lock, then notifies observers
func (s *Session) mutate(op string, fn func([]models.Segment) []models.Segment) {
	s.mu.Lock()
	s.segments = fn(s.segments)
	s.version++
	change := Change{Op: op, Version: s.version, Segments: copySegments(s.segments)}
	observers := make([]func(Change), 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	s.mu.Unlock()

	for _, obs := range observers {
		obs(change)
	}
}

func copySegments(segments []models.Segment) []models.Segment {
	out := make([]models.Segment, len(segments))
	copy(out, segments)
	return out
}
