package keybind

import (
	"sort"

	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/config"
	"github.com/username/imecore/internal/engine"
)

// whenStrictness orders `when` clauses from loosest to strictest so
// bindings of the same key are tried strictest-first (spec §4.M:
// "paging < has_menu < composing < always").
var whenStrictness = map[string]int{
	"paging":    0,
	"has_menu":  1,
	"composing": 2,
	"always":    3,
}

// rule is a parsed config.KeyBindingRule paired with its accept keysym,
// resolved once at construction so Process doesn't re-parse key names.
type rule struct {
	when      string
	accept    engine.KeyEvent
	send      *engine.KeyEvent
	toggle    string
	set       string
	unset     string
	selectIdx int
	hasSelect bool
}

// KeyBinder dispatches declarative {when, accept, send|toggle|set_option|
// unset_option|select} rules against the current Context state (spec
// §4.M). KeyNamer resolves a rule's key-name strings (e.g. "Page_Up") to
// engine.KeyEvent values; callers supply it since key-name tables are
// schema/frontend specific.
type KeyBinder struct {
	rules    []rule
	keyNamer func(name string) (engine.KeyEvent, bool)
}

// NewKeyBinder parses cfg's bindings, ordering them strictest-`when`
// first so a more specific rule shadows a looser one bound to the same
// key.
func NewKeyBinder(cfg config.KeyBinderConfig, keyNamer func(name string) (engine.KeyEvent, bool)) *KeyBinder {
	kb := &KeyBinder{keyNamer: keyNamer}
	for _, r := range cfg.Bindings {
		accept, ok := keyNamer(r.Accept)
		if !ok {
			continue
		}
		parsed := rule{when: r.When, accept: accept, toggle: r.Toggle, set: r.SetOption, unset: r.UnsetOption}
		if r.Send != "" {
			if sendEvent, ok := keyNamer(r.Send); ok {
				parsed.send = &sendEvent
			}
		}
		if r.Select != "" {
			if n, ok := parseIndex(r.Select); ok {
				parsed.selectIdx = n
				parsed.hasSelect = true
			}
		}
		kb.rules = append(kb.rules, parsed)
	}
	sort.SliceStable(kb.rules, func(i, j int) bool {
		return whenStrictness[kb.rules[i].when] > whenStrictness[kb.rules[j].when]
	})
	return kb
}

func parseIndex(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, true
}

func (kb *KeyBinder) Name() string { return "key_binder" }

func (kb *KeyBinder) Process(ctx *composition.Context, event engine.KeyEvent) engine.ProcessStatus {
	for _, r := range kb.rules {
		if r.accept != event {
			continue
		}
		if !whenMatches(ctx, r.when) {
			continue
		}
		return kb.apply(ctx, r)
	}
	return engine.Noop
}

func whenMatches(ctx *composition.Context, when string) bool {
	switch when {
	case "always", "":
		return true
	case "composing":
		return ctx.IsComposing()
	case "has_menu":
		return ctx.HasMenu()
	case "paging":
		back := ctx.Composition().Back()
		return back != nil && back.HasMenu()
	default:
		return false
	}
}

func (kb *KeyBinder) apply(ctx *composition.Context, r rule) engine.ProcessStatus {
	switch {
	case r.set != "":
		ctx.SetOption(r.set, true)
	case r.unset != "":
		ctx.SetOption(r.unset, false)
	case r.toggle != "":
		ctx.SetOption(r.toggle, !ctx.GetOption(r.toggle))
	case r.hasSelect:
		if !ctx.Select(r.selectIdx) {
			return engine.Noop
		}
	case r.send != nil:
		// A "send" rule returns Noop: the original event goes on to the
		// remaining processors, and the key named by *r.send is not
		// dispatched by the binder or by Engine.ProcessKey.
		return engine.Noop
	default:
		return engine.Noop
	}
	return engine.Accepted
}
