// ABOUTME: In-memory registry of open editing sessions
// ABOUTME: Each entry pairs a core.Session with the template it was opened from
package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harper/letterkit/internal/core"
)

// sessionEntry is one open editing session
type sessionEntry struct {
	ID         string
	Session    *core.Session
	CreatedAt  time.Time
	closed     chan struct{}
	mu         sync.Mutex
	templateID string
}

// TemplateID returns the template the session saves to, if any
func (e *sessionEntry) TemplateID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.templateID
}

func (e *sessionEntry) setTemplateID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templateID = id
}

// Done is closed when the session is deleted
func (e *sessionEntry) Done() <-chan struct{} {
	return e.closed
}

// SessionRegistry holds open sessions by id
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry
	now      func() time.Time
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(now func() time.Time) *SessionRegistry {
	if now == nil {
		now = time.Now
	}
	return &SessionRegistry{
		sessions: make(map[string]*sessionEntry),
		now:      now,
	}
}

// Add registers a session and returns its entry
func (r *SessionRegistry) Add(session *core.Session, templateID string) *sessionEntry {
	entry := &sessionEntry{
		ID:         uuid.New().String(),
		Session:    session,
		CreatedAt:  r.now(),
		closed:     make(chan struct{}),
		templateID: templateID,
	}

	r.mu.Lock()
	r.sessions[entry.ID] = entry
	r.mu.Unlock()
	return entry
}

// Get looks up a session by id
func (r *SessionRegistry) Get(id string) (*sessionEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	return entry, ok
}

// Remove deletes a session and closes its Done channel
func (r *SessionRegistry) Remove(id string) bool {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		close(entry.closed)
	}
	return ok
}

// Len returns the number of open sessions
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
