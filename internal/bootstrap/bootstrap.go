// Package bootstrap assembles a session.SchemaLoader from a schema's YAML
// file: compiling (or loading a cached build of) its dictionary, then
// wiring the Processor/Segmentor/Translator/Filter/Formatter stack an
// internal/engine.Engine needs. Both cmd/daemon and cmd/imeutil's console
// share this so a schema loads identically under either frontend.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/username/imecore/internal/compiler"
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/config"
	"github.com/username/imecore/internal/dictionary"
	"github.com/username/imecore/internal/engine"
	"github.com/username/imecore/internal/keybind"
	"github.com/username/imecore/internal/logging"
	"github.com/username/imecore/internal/session"
	"github.com/username/imecore/internal/switcher"
	"github.com/username/imecore/internal/syllabify"
	"github.com/username/imecore/internal/userdb"
)

var log = logging.For("bootstrap")

// Paths names the directories a deployment's schemas, compiled artifacts
// and user dictionaries live under.
type Paths struct {
	DataDir     string // schema + dict YAML sources
	BuildDir    string // compiled Prism/Table/ReverseDb output
	UserDataDir string // user dictionary sqlite files; empty disables user-dict learning
}

// SchemaLoader returns a session.SchemaLoader over these paths.
func (p Paths) SchemaLoader() session.SchemaLoader {
	return func(schemaID string) (session.EngineBuilder, error) {
		schemaPath := filepath.Join(p.DataDir, schemaID+".schema.yaml")
		cfg, err := config.LoadSchema(schemaPath)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load schema %q: %w", schemaID, err)
		}
		res, err := p.prepareSchema(cfg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: compile schema %q: %w", schemaID, err)
		}
		return res.newEngine, nil
	}
}

// schemaResources holds the pieces one compiled schema contributes to
// every session's Engine. None of them carry session-local mutable
// state (the Table/Prism they wrap are read-only once built, the user
// dictionary is shared by every session of the schema and written on
// commit under its own lock, and the keybind Processors only hold parsed
// config), so a schemaResources
// value is safe to share across as many concurrently-built Engines as
// CreateSession asks for — only newEngine's own *composition.Context and
// the Engine struct it returns are per-session.
type schemaResources struct {
	tableSeg    *engine.TableSegmentor
	segmentors  []engine.Segmentor
	translators []engine.Translator
	filters     []engine.Filter
	formatters  []engine.Formatter
	processors  []engine.Processor
}

// newEngine builds a brand new Engine (and its Context) over r's shared
// resources. Safe to call concurrently and repeatedly for the same
// schema — that's the whole point: session.Service's singleflight
// dedupes the (expensive) call to prepareSchema, not this.
func (r *schemaResources) newEngine() *engine.Engine {
	ctx := composition.New()
	return engine.New(ctx, r.processors, r.tableSeg, r.segmentors, r.translators, r.filters, r.formatters)
}

func (p Paths) prepareSchema(cfg *config.SchemaConfig) (*schemaResources, error) {
	schemaID := cfg.Schema.SchemaID
	artifacts, err := p.compileSchema(cfg)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schemaID, err)
	}

	dict := dictionary.New(artifacts.Table)

	var userTranslator *engine.UserDictTranslator
	if cfg.Translator != nil && cfg.Translator.UserDict != "" && p.UserDataDir != "" {
		dbPath := filepath.Join(p.UserDataDir, cfg.Translator.UserDict+".userdb.sqlite")
		db, err := userdb.OpenSqlDb(dbPath)
		if err != nil {
			log.Warn().Err(err).Str("schema", schemaID).Msg("open user dictionary, continuing without it")
		} else {
			backupPath := filepath.Join(p.UserDataDir, cfg.Translator.UserDict+".userdb.txt")
			userTranslator = engine.NewUserDictTranslator(userdb.NewUserDictionary(db, backupPath))
		}
	}

	delimiters := ""
	enableCompletion := false
	if cfg.Speller != nil {
		delimiters = cfg.Speller.Delimiters
	}
	if cfg.Translator != nil {
		enableCompletion = cfg.Translator.EnableCompletion
	}
	syl := &syllabify.Syllabifier{Delimiters: delimiters, EnableCompletion: enableCompletion}
	tableSeg := engine.NewTableSegmentor(syl, artifacts.Prism)

	segmentors := []engine.Segmentor{tableSeg, engine.FallbackSegmentor{}}

	translators := []engine.Translator{engine.NewTableTranslator(dict)}
	if userTranslator != nil {
		translators = append(translators, userTranslator)
	}

	filters := []engine.Filter{engine.UniquifierFilter{}}
	formatters := []engine.Formatter{engine.IdentityFormatter{}}

	var processors []engine.Processor
	if cfg.Speller != nil {
		processors = append(processors, keybind.NewSpeller(*cfg.Speller))
	}
	if cfg.KeyBinder != nil {
		processors = append(processors, keybind.NewKeyBinder(*cfg.KeyBinder, DefaultKeyNamer))
	}
	processors = append(processors,
		keybind.NewSelector(cfg.Menu, ""),
		keybind.NewEditor(),
	)

	return &schemaResources{
		tableSeg:    tableSeg,
		segmentors:  segmentors,
		translators: translators,
		filters:     filters,
		formatters:  formatters,
		processors:  processors,
	}, nil
}

// compileSchema resolves the schema's dictionary source files relative to
// DataDir and runs the compiler, reusing a cached build under BuildDir
// when the sources haven't changed (spec §8 property 7).
func (p Paths) compileSchema(cfg *config.SchemaConfig) (*compiler.Artifacts, error) {
	job := compiler.Job{
		SchemaID:   cfg.Schema.SchemaID,
		SchemaFile: filepath.Join(p.DataDir, cfg.Schema.SchemaID+".schema.yaml"),
		OutputDir:  p.BuildDir,
	}
	if cfg.Speller != nil {
		job.Algebra = cfg.Speller.Algebra
	}
	if cfg.Translator != nil {
		if cfg.Translator.Dictionary != "" {
			job.DictFiles = append(job.DictFiles, filepath.Join(p.DataDir, cfg.Translator.Dictionary+".dict.yaml"))
		}
		for _, imp := range cfg.Translator.ImportTables {
			job.DictFiles = append(job.DictFiles, filepath.Join(p.DataDir, imp+".dict.yaml"))
		}
	}
	if len(job.DictFiles) == 0 {
		return nil, fmt.Errorf("schema %q names no translator/dictionary", cfg.Schema.SchemaID)
	}
	return compiler.Compile(job)
}

// SchemaIDFromPath derives a schema id from the file name a --schema flag
// names, e.g. "/etc/ime/pinyin.schema.yaml" -> "pinyin".
func SchemaIDFromPath(path string) string {
	base := filepath.Base(path)
	for _, suffix := range []string{".schema.yaml", ".yaml"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return base[:len(base)-len(suffix)]
		}
	}
	return base
}

// DefaultKeyNamer resolves the key names a schema's key_binder section
// uses (e.g. "Control+grave", "Page_Up", "space") to the engine.KeyEvent
// the dispatcher compares events against.
func DefaultKeyNamer(name string) (engine.KeyEvent, bool) {
	var mods uint32
	base := name
	for {
		cut := -1
		for i := 0; i < len(base); i++ {
			if base[i] == '+' {
				cut = i
				break
			}
		}
		if cut < 0 {
			break
		}
		switch base[:cut] {
		case "Control":
			mods |= engine.ModControl
		case "Shift":
			mods |= engine.ModShift
		case "Alt":
			mods |= engine.ModMod1
		case "Super":
			mods |= engine.ModSuper
		default:
			return engine.KeyEvent{}, false
		}
		base = base[cut+1:]
	}

	keysym, ok := namedKeysyms[base]
	if !ok && len(base) == 1 {
		keysym, ok = uint32(base[0]), true
	}
	if !ok {
		return engine.KeyEvent{}, false
	}
	return engine.KeyEvent{KeySym: keysym, Modifiers: mods}, true
}

// LoadSwitcher builds a switcher.Switcher for schemaID: the available
// schema list is every *.schema.yaml under DataDir, and the switches come
// from schemaID's own config (spec §4.K's menu is schema-scoped).
func (p Paths) LoadSwitcher(schemaID string) (*switcher.Switcher, error) {
	cfg, err := config.LoadSchema(filepath.Join(p.DataDir, schemaID+".schema.yaml"))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load schema %q: %w", schemaID, err)
	}

	entries, err := os.ReadDir(p.DataDir)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: list schemas in %q: %w", p.DataDir, err)
	}
	var schemas []switcher.SchemaEntry
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".schema.yaml")
		if !ok {
			continue
		}
		entryCfg, err := config.LoadSchema(filepath.Join(p.DataDir, e.Name()))
		if err != nil {
			log.Warn().Err(err).Str("schema", name).Msg("skip unreadable schema in switcher menu")
			continue
		}
		schemas = append(schemas, switcher.SchemaEntry{SchemaID: name, Name: entryCfg.Schema.Name})
	}

	return switcher.New(schemas, cfg.Switches), nil
}

var namedKeysyms = map[string]uint32{
	"space":     engine.KeySpace,
	"Return":    engine.KeyReturn,
	"Escape":    engine.KeyEscape,
	"BackSpace": engine.KeyBackSpace,
	"Tab":       engine.KeyTab,
	"Delete":    engine.KeyDelete,
	"Home":      engine.KeyHome,
	"End":       engine.KeyEnd,
	"Left":      engine.KeyLeft,
	"Right":     engine.KeyRight,
	"Up":        engine.KeyUp,
	"Down":      engine.KeyDown,
	"Page_Up":   engine.KeyPrior,
	"Page_Down": engine.KeyNext,
	"Caps_Lock": engine.KeyCapsLock,
	"minus":     uint32('-'),
	"equal":     uint32('='),
	"grave":     uint32('`'),
	"comma":     uint32(','),
	"period":    uint32('.'),
	"slash":     uint32('/'),
	"semicolon": uint32(';'),
}
