package keybind

import (
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/engine"
)

// Action names the Editor's named operations (spec §4.M).
type Action string

const (
	ActionConfirm         Action = "confirm"
	ActionRevert          Action = "revert"
	ActionBack            Action = "back"
	ActionBackSyllable    Action = "back_syllable"
	ActionDeleteChar      Action = "delete_char"
	ActionDeleteCandidate Action = "delete_candidate"
	ActionCancel          Action = "cancel"
	ActionCommitRaw       Action = "commit_raw"
	ActionCommitComposed  Action = "commit_composed"
)

// Editor binds key events to named actions and a char_handler for plain
// characters that aren't claimed by any binding.
type Editor struct {
	bindings map[engine.KeyEvent]Action
	// DirectCommit, when true, makes the char_handler commit each
	// accepted character immediately instead of adding it to input —
	// the "direct commit vs add-to-input" choice spec §4.M describes.
	DirectCommit bool
}

// NewEditor builds an Editor with the default bindings: Return confirms,
// Escape cancels, BackSpace deletes the character before the caret (or,
// with the caret at the start, removes the highlighted candidate), Delete removes the highlighted candidate.
func NewEditor() *Editor {
	e := &Editor{bindings: make(map[engine.KeyEvent]Action)}
	e.Bind(engine.KeyEvent{KeySym: engine.KeyReturn}, ActionConfirm)
	e.Bind(engine.KeyEvent{KeySym: engine.KeyEscape}, ActionCancel)
	e.Bind(engine.KeyEvent{KeySym: engine.KeyBackSpace}, ActionDeleteChar)
	e.Bind(engine.KeyEvent{KeySym: engine.KeyDelete}, ActionDeleteCandidate)
	return e
}

// Bind registers (or replaces) the action triggered by event.
func (e *Editor) Bind(event engine.KeyEvent, action Action) {
	e.bindings[event] = action
}

func (e *Editor) Name() string { return "editor" }

func (e *Editor) Process(ctx *composition.Context, event engine.KeyEvent) engine.ProcessStatus {
	action, bound := e.bindings[event]
	if !bound {
		return engine.Noop
	}
	if e.apply(ctx, action) {
		return engine.Accepted
	}
	return engine.Rejected
}

func (e *Editor) apply(ctx *composition.Context, action Action) bool {
	switch action {
	case ActionConfirm:
		return ctx.ConfirmCurrentSelection() || ctx.Commit()
	case ActionRevert:
		return ctx.ReopenPreviousSelection()
	case ActionBack:
		return ctx.ReopenPreviousSegment()
	case ActionBackSyllable:
		return ctx.ClearPreviousSegment()
	case ActionDeleteChar:
		if !ctx.IsComposing() {
			return false
		}
		if ctx.CaretPos() > 0 {
			return ctx.PopInput(1)
		}
		return ctx.DeleteCurrentSelection()
	case ActionDeleteCandidate:
		return ctx.DeleteCurrentSelection()
	case ActionCancel:
		ctx.AbortComposition()
		return true
	case ActionCommitRaw:
		if !ctx.IsComposing() {
			return false
		}
		return ctx.Commit()
	case ActionCommitComposed:
		if !ctx.HasMenu() {
			return false
		}
		ctx.Select(0)
		return ctx.Commit()
	default:
		return false
	}
}
