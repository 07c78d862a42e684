// Package keybind implements spec §4.M: the speller, selector, editor
// and declarative key binder that turn keystrokes into Context edits atop
// the internal/engine pipeline. Each type here satisfies
// engine.Processor.
package keybind

import (
	"regexp"

	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/config"
	"github.com/username/imecore/internal/engine"
)

// Speller routes printable ASCII into input, respecting the schema's
// alphabet/initials/finals/delimiters/max_code_length and the
// auto_select family of behaviors (spec §4.M).
type Speller struct {
	alphabet          map[rune]bool
	delimiters        map[rune]bool
	maxCodeLength     int
	autoSelect        bool
	autoSelectPattern *regexp.Regexp
}

// NewSpeller builds a Speller from a schema's speller config. An empty
// Alphabet means "accept any printable ASCII byte".
func NewSpeller(cfg config.SpellerConfig) *Speller {
	s := &Speller{maxCodeLength: cfg.MaxCodeLength, autoSelect: cfg.AutoSelect}
	s.alphabet = runeSet(cfg.Alphabet + cfg.Initials + cfg.Finals)
	s.delimiters = runeSet(cfg.Delimiters)
	if cfg.AutoSelectPattern != "" {
		if re, err := regexp.Compile(cfg.AutoSelectPattern); err == nil {
			s.autoSelectPattern = re
		}
	}
	return s
}

func runeSet(s string) map[rune]bool {
	if s == "" {
		return nil
	}
	m := make(map[rune]bool, len(s))
	for _, r := range s {
		m[r] = true
	}
	return m
}

func (s *Speller) accepts(r rune) bool {
	if s.alphabet == nil {
		return true
	}
	return s.alphabet[r]
}

func (s *Speller) Name() string { return "speller" }

// Process implements engine.Processor: printable runes accepted by the
// alphabet are appended to input; a non-delimiter rune rejected by the
// alphabet is Noop (let later processors, or pass-through, handle it).
func (s *Speller) Process(ctx *composition.Context, event engine.KeyEvent) engine.ProcessStatus {
	if !engine.IsPrintable(event.KeySym) {
		return engine.Noop
	}
	r := engine.KeysymToRune(event.KeySym)
	if r == 0 {
		return engine.Noop
	}
	if s.delimiters[r] {
		ctx.PushInput(string(r))
		return engine.Accepted
	}
	if !s.accepts(r) {
		return engine.Noop
	}
	ctx.PushInput(string(r))

	if s.maxCodeLength > 0 && len(ctx.Input()) >= s.maxCodeLength {
		s.maybeAutoSelect(ctx, true)
	} else if s.autoSelect {
		s.maybeAutoSelect(ctx, false)
	}
	return engine.Accepted
}

// maybeAutoSelect implements auto-commit-at-max-length and
// auto-select-unique-candidate: forceCommit is set once input has hit
// max_code_length regardless of menu shape; otherwise a segment is only
// auto-selected when its menu has exactly one candidate (or matches
// auto_select_pattern).
func (s *Speller) maybeAutoSelect(ctx *composition.Context, forceCommit bool) {
	back := ctx.Composition().Back()
	if back == nil || !back.HasMenu() {
		return
	}
	switch {
	case forceCommit:
		ctx.Select(0)
	case len(back.Menu) == 1:
		ctx.Select(0)
	case s.autoSelectPattern != nil && s.autoSelectPattern.MatchString(ctx.Input()):
		ctx.Select(0)
	}
}
