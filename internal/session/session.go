// Package session implements spec §4.L: the Service's SessionId → Session
// table, per-session key dispatch atop internal/engine, and the
// notification fan-out and resource resolution a host frontend needs.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/engine"
)

// ID is a session handle, a random UUID per spec's replacement of the
// original's hand-rolled session-id counters (SPEC_FULL ambient stack).
type ID = uuid.UUID

// Session owns one Engine and the commit text buffer accumulated since
// the host last drained it (spec §4.L).
type Session struct {
	mu sync.Mutex

	id         ID
	engine     *engine.Engine
	schemaID   string
	lastActive time.Time
	commitBuf  []byte
}

func newSession(id ID, schemaID string, eng *engine.Engine) *Session {
	return &Session{id: id, schemaID: schemaID, engine: eng, lastActive: time.Now()}
}

// ID returns the session's handle.
func (s *Session) ID() ID { return s.id }

// SchemaID returns the schema this session's engine was built from.
func (s *Session) SchemaID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schemaID
}

// Engine returns the underlying pipeline engine.
func (s *Session) Engine() *engine.Engine { return s.engine }

// LastActive returns the time of the most recent ProcessKey call.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// ProcessKey dispatches event to the session's engine, appending any
// commit text produced to the session's buffer and touching
// lastActive.
func (s *Session) ProcessKey(event engine.KeyEvent) engine.ProcessResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()

	result := s.engine.ProcessKey(event)
	if result.CommitText != "" {
		s.commitBuf = append(s.commitBuf, s.engine.Format(result.CommitText)...)
	}
	return result
}

// GetCommit drains and returns the session's pending commit text,
// the role the host's `get_commit(session)` ABI call plays (spec §6.1).
func (s *Session) GetCommit() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := string(s.commitBuf)
	s.commitBuf = s.commitBuf[:0]
	return text
}

// GetContext returns the live composition/menu state for rendering
// (spec §6.1's `get_context`).
func (s *Session) GetContext() *composition.Context { return s.engine.Context() }
