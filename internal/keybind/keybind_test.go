package keybind

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/imecore/internal/candidate"
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/config"
	"github.com/username/imecore/internal/engine"
)

func TestSpellerPushesAlphabetOnly(t *testing.T) {
	s := NewSpeller(config.SpellerConfig{Alphabet: "abc"})
	ctx := composition.New()

	status := s.Process(ctx, engine.KeyEvent{KeySym: uint32('a')})
	require.Equal(t, engine.Accepted, status)
	require.Equal(t, "a", ctx.Input())

	status = s.Process(ctx, engine.KeyEvent{KeySym: uint32('z')})
	require.Equal(t, engine.Noop, status)
	require.Equal(t, "a", ctx.Input())
}

func TestSpellerAutoSelectsUniqueCandidate(t *testing.T) {
	s := NewSpeller(config.SpellerConfig{AutoSelect: true})
	ctx := composition.New()
	ctx.PushInput("n")
	seg := &composition.Segment{Start: 0, End: 1, Menu: []*candidate.Candidate{{Text: "你"}}}
	*ctx.Composition() = composition.Composition{seg}

	s.Process(ctx, engine.KeyEvent{KeySym: uint32('i')})
	require.Equal(t, composition.Selected, seg.Status)
}

func TestSpellerMaxCodeLengthForcesSelect(t *testing.T) {
	s := NewSpeller(config.SpellerConfig{MaxCodeLength: 2})
	ctx := composition.New()
	ctx.PushInput("n")
	seg := &composition.Segment{Start: 0, End: 1, Menu: []*candidate.Candidate{{Text: "你"}, {Text: "您"}}}
	*ctx.Composition() = composition.Composition{seg}

	s.Process(ctx, engine.KeyEvent{KeySym: uint32('i')})
	require.Equal(t, composition.Selected, seg.Status)
}

func TestSelectorDigitSelectsCandidate(t *testing.T) {
	sel := NewSelector(config.MenuConfig{PageSize: 5}, "")
	ctx := composition.New()
	ctx.PushInput("a")
	seg := &composition.Segment{Start: 0, End: 1, Menu: []*candidate.Candidate{{Text: "A"}, {Text: "a"}}}
	*ctx.Composition() = composition.Composition{seg}

	status := sel.Process(ctx, engine.KeyEvent{KeySym: uint32('2')})
	require.Equal(t, engine.Accepted, status)
	require.Equal(t, composition.Selected, seg.Status)
	require.Equal(t, "a", seg.SelectedCandidate().Text)
}

func TestSelectorNoopWithoutMenu(t *testing.T) {
	sel := NewSelector(config.MenuConfig{}, "")
	ctx := composition.New()
	require.Equal(t, engine.Noop, sel.Process(ctx, engine.KeyEvent{KeySym: uint32('1')}))
}

func TestEditorConfirmsSelection(t *testing.T) {
	e := NewEditor()
	ctx := composition.New()
	ctx.PushInput("a")
	seg := &composition.Segment{Start: 0, End: 1, Menu: []*candidate.Candidate{{Text: "A"}}}
	*ctx.Composition() = composition.Composition{seg}
	ctx.Select(0)

	status := e.Process(ctx, engine.KeyEvent{KeySym: engine.KeyReturn})
	require.Equal(t, engine.Accepted, status)
	require.Equal(t, composition.Confirmed, seg.Status)
}

func TestEditorCancelAbortsComposition(t *testing.T) {
	e := NewEditor()
	ctx := composition.New()
	ctx.PushInput("abc")

	status := e.Process(ctx, engine.KeyEvent{KeySym: engine.KeyEscape})
	require.Equal(t, engine.Accepted, status)
	require.False(t, ctx.IsComposing())
}

func TestEditorUnboundKeyIsNoop(t *testing.T) {
	e := NewEditor()
	ctx := composition.New()
	require.Equal(t, engine.Noop, e.Process(ctx, engine.KeyEvent{KeySym: uint32('x')}))
}

func testKeyNamer(name string) (engine.KeyEvent, bool) {
	switch name {
	case "Page_Up":
		return engine.KeyEvent{KeySym: engine.KeyPrior}, true
	case "minus":
		return engine.KeyEvent{KeySym: uint32('-')}, true
	case "Control+grave":
		return engine.KeyEvent{KeySym: uint32('`'), Modifiers: engine.ModControl}, true
	}
	return engine.KeyEvent{}, false
}

func TestKeyBinderSetsOption(t *testing.T) {
	kb := NewKeyBinder(config.KeyBinderConfig{Bindings: []config.KeyBindingRule{
		{When: "always", Accept: "Control+grave", SetOption: "ascii_mode"},
	}}, testKeyNamer)
	ctx := composition.New()

	status := kb.Process(ctx, engine.KeyEvent{KeySym: uint32('`'), Modifiers: engine.ModControl})
	require.Equal(t, engine.Accepted, status)
	require.True(t, ctx.GetOption("ascii_mode"))
}

func TestKeyBinderOrdersStrictestFirst(t *testing.T) {
	kb := NewKeyBinder(config.KeyBinderConfig{Bindings: []config.KeyBindingRule{
		{When: "paging", Accept: "minus"},
		{When: "always", Accept: "minus", SetOption: "caught_by_always"},
	}}, testKeyNamer)
	require.Equal(t, "always", kb.rules[0].when)
}

func TestKeyBinderRespectsWhenComposing(t *testing.T) {
	kb := NewKeyBinder(config.KeyBinderConfig{Bindings: []config.KeyBindingRule{
		{When: "composing", Accept: "minus", SetOption: "seen"},
	}}, testKeyNamer)
	ctx := composition.New()

	status := kb.Process(ctx, engine.KeyEvent{KeySym: uint32('-')})
	require.Equal(t, engine.Noop, status)

	ctx.PushInput("a")
	status = kb.Process(ctx, engine.KeyEvent{KeySym: uint32('-')})
	require.Equal(t, engine.Accepted, status)
	require.True(t, ctx.GetOption("seen"))
}
