package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"
	"github.com/username/imecore/internal/bootstrap"
	"github.com/username/imecore/internal/engine"
	"github.com/username/imecore/internal/logging"
	"github.com/username/imecore/internal/session"
)

const (
	serviceName = "com.github.goviet.ime"
	objectPath  = "/Engine"
)

var log = logging.For("daemon")

// InputEngine is the D-Bus object Fcitx5 (or any other frontend speaking
// the same ABI) talks to. It holds one active session at a time; the
// schema it composes against is whatever the last ProcessKey call named.
type InputEngine struct {
	svc    *session.Service
	active session.ID
	hasOne bool
}

func newInputEngine(svc *session.Service) *InputEngine {
	return &InputEngine{svc: svc}
}

// ensureSession lazily opens a session against schemaID the first time
// it's needed, or reuses the active one if schemaID is unchanged.
func (e *InputEngine) ensureSession(schemaID string) (*session.Session, error) {
	if e.hasOne {
		if sess, ok := e.svc.GetSession(e.active); ok && sess.SchemaID() == schemaID {
			return sess, nil
		}
	}
	id, err := e.svc.CreateSession(schemaID)
	if err != nil {
		return nil, err
	}
	e.active = id
	e.hasOne = true
	sess, _ := e.svc.GetSession(id)
	return sess, nil
}

// ProcessKey handles key events from the frontend.
// Input: keysym (X11 keycode), modifiers (Shift/Ctrl/Alt state), schemaID
// (the schema the frontend currently has selected).
// Output: handled (was key consumed), commitText (text to commit), preeditText (composition).
func (e *InputEngine) ProcessKey(keysym uint32, modifiers uint32, schemaID string) (bool, string, string, *dbus.Error) {
	sess, err := e.ensureSession(schemaID)
	if err != nil {
		log.Error().Err(err).Str("schema", schemaID).Msg("load schema")
		return false, "", "", dbus.MakeFailedError(err)
	}

	result := sess.ProcessKey(engine.KeyEvent{KeySym: keysym, Modifiers: modifiers})

	commit := result.CommitText
	if commit != "" {
		commit = sess.GetCommit()
	}

	log.Debug().
		Uint32("keysym", keysym).
		Uint32("mods", modifiers).
		Bool("handled", result.Handled).
		Str("preedit", result.Preedit).
		Str("commit", commit).
		Msg("process_key")

	return result.Handled, commit, result.Preedit, nil
}

// Reset clears the active session's composition state.
func (e *InputEngine) Reset() *dbus.Error {
	if !e.hasOne {
		return nil
	}
	if sess, ok := e.svc.GetSession(e.active); ok {
		sess.Engine().Context().Clear()
	}
	return nil
}

// GetPreedit returns the active session's current preedit string.
func (e *InputEngine) GetPreedit() (string, *dbus.Error) {
	if !e.hasOne {
		return "", nil
	}
	sess, ok := e.svc.GetSession(e.active)
	if !ok {
		return "", nil
	}
	return sess.Engine().Context().GetPreedit(), nil
}

func main() {
	schemaPath := flag.String("schema", "", "path to the schema YAML file to preload at startup")
	dataDir := flag.String("data-dir", ".", "directory holding schema and dict YAML sources")
	buildDir := flag.String("build-dir", "build", "directory compiled Prism/Table/ReverseDb artifacts are written to")
	userDataDir := flag.String("user-data-dir", "", "directory holding the user dictionary sqlite file")
	logFile := flag.String("log-file", "", "path to write newline-delimited JSON logs to (stderr console output if unset)")
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logging.SetOutput(f)
		log = logging.For("daemon")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		log.Fatal().Err(err).Msg("connect to session bus")
	}
	defer conn.Close()

	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("request bus name")
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		log.Fatal().Msg("bus name already taken, another instance may be running")
	}

	paths := bootstrap.Paths{DataDir: *dataDir, BuildDir: *buildDir, UserDataDir: *userDataDir}
	svc := session.New(paths.SchemaLoader())
	svc.SetNotificationHandler(func(id session.ID, eventType session.NotificationType, value string) {
		log.Info().Str("session", id.String()).Str("type", string(eventType)).Str("value", value).Msg("notify")
	})

	inputEngine := newInputEngine(svc)
	if err := conn.Export(inputEngine, dbus.ObjectPath(objectPath), serviceName); err != nil {
		log.Fatal().Err(err).Msg("export object")
	}

	if *schemaPath != "" {
		if _, err := svc.CreateSession(bootstrap.SchemaIDFromPath(*schemaPath)); err != nil {
			log.Warn().Err(err).Str("schema", *schemaPath).Msg("preload schema at startup")
		}
	}

	log.Info().Str("service", serviceName).Str("object_path", objectPath).Msg("ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info().Int("sessions", svc.CleanupAllSessions()).Msg("shutting down")
}
