// Package logging provides the structured logger shared by every
// component of the engine core.
package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
)

// SetOutput redirects every subsequent log record to w, formatted as
// newline-delimited JSON (used when the host wants a log file rather than
// a console stream).
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = zerolog.New(w).With().Timestamp().Logger()
}

// SetLevel adjusts the minimum severity recorded.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(level)
}

// For returns a logger scoped to a named component, e.g. "userdb" or
// "session". Per-session loggers additionally carry a "session" field.
func For(component string) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log.With().Str("component", component).Logger()
}

// ForSession returns a logger scoped to a component and a session id.
func ForSession(component string, sessionID fmt.Stringer) zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log.With().Str("component", component).Str("session", sessionID.String()).Logger()
}
