package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/username/imecore/internal/engine"
	"golang.org/x/sync/singleflight"
)

// NotificationType names the event kinds a Service fans out to its host
// (spec §6.1: `type ∈ {"schema","option","property","deploy"}`).
type NotificationType string

const (
	NotifySchema   NotificationType = "schema"
	NotifyOption   NotificationType = "option"
	NotifyProperty NotificationType = "property"
	NotifyDeploy   NotificationType = "deploy"
)

// NotificationHandler receives one fanned-out event at a time; the
// Service serializes calls to it so a host sees one message at a time
// (spec §5).
type NotificationHandler func(session ID, eventType NotificationType, value string)

// EngineBuilder cheaply assembles a fresh *engine.Engine (its own
// Context, its own mutable Engine fields) on top of one schema's shared,
// immutable compiled resources (Prism/Table/UserDb, translators,
// processors). It holds no mutable state itself, so calling it
// concurrently from multiple CreateSession calls is safe and gives each
// session its own Engine.
type EngineBuilder func() *engine.Engine

// SchemaLoader compiles (or opens a cached build of) schemaID's
// dictionary and wires the shared, immutable resources an EngineBuilder
// needs. CreateSession calls it at most once concurrently per schemaID
// via singleflight — so the expensive compile/open is shared — but
// calls the EngineBuilder it returns once per session, so no two
// sessions ever end up sharing one Engine/Context (spec §5: sessions
// share immutable dictionary data, not mutable per-session state).
type SchemaLoader func(schemaID string) (EngineBuilder, error)

// Service maintains the SessionId → Session table and serializes
// notification delivery (spec §4.L, §5).
type Service struct {
	mu       sync.Mutex
	sessions map[ID]*Session

	notifyMu sync.Mutex
	notify   NotificationHandler

	loader SchemaLoader
	group  singleflight.Group
}

// New builds a Service that uses loader to build each session's Engine.
func New(loader SchemaLoader) *Service {
	return &Service{sessions: make(map[ID]*Session), loader: loader}
}

// SetNotificationHandler installs the callback that receives fanned-out
// engine messages.
func (svc *Service) SetNotificationHandler(h NotificationHandler) {
	svc.notifyMu.Lock()
	defer svc.notifyMu.Unlock()
	svc.notify = h
}

// notifyHost serializes one notification through the installed handler,
// a no-op if none is set.
func (svc *Service) notifyHost(session ID, eventType NotificationType, value string) {
	svc.notifyMu.Lock()
	defer svc.notifyMu.Unlock()
	if svc.notify != nil {
		svc.notify(session, eventType, value)
	}
}

// CreateSession builds a new session against schemaID. The schema's
// compiled resources are loaded at most once concurrently (shared with
// any other in-flight CreateSession call for the same schema id via
// singleflight), but every call gets its own freshly built Engine.
func (svc *Service) CreateSession(schemaID string) (ID, error) {
	builderVal, err, _ := svc.group.Do(schemaID, func() (any, error) {
		return svc.loader(schemaID)
	})
	if err != nil {
		return ID{}, fmt.Errorf("session: load schema %q: %w", schemaID, err)
	}
	builder := builderVal.(EngineBuilder)

	id := uuid.New()
	sess := newSession(id, schemaID, builder())

	svc.mu.Lock()
	svc.sessions[id] = sess
	svc.mu.Unlock()

	svc.notifyHost(id, NotifySchema, schemaID)
	return id, nil
}

// GetSession looks up a session by id.
func (svc *Service) GetSession(id ID) (*Session, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	sess, ok := svc.sessions[id]
	return sess, ok
}

// DestroySession removes a session from the table.
func (svc *Service) DestroySession(id ID) bool {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if _, ok := svc.sessions[id]; !ok {
		return false
	}
	delete(svc.sessions, id)
	return true
}

// CleanupStaleSessions destroys every session whose LastActive predates
// now-maxIdle.
func (svc *Service) CleanupStaleSessions(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	removed := 0
	for id, sess := range svc.sessions {
		if sess.LastActive().Before(cutoff) {
			delete(svc.sessions, id)
			removed++
		}
	}
	return removed
}

// CleanupAllSessions destroys every session, returning how many there
// were.
func (svc *Service) CleanupAllSessions() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	n := len(svc.sessions)
	svc.sessions = make(map[ID]*Session)
	return n
}

// SessionCount reports how many sessions are currently live.
func (svc *Service) SessionCount() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return len(svc.sessions)
}
