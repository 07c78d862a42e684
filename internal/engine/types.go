// Package engine implements the processor/segmentor/translator/filter
// pipeline that turns key events into a composition with a candidate menu.
package engine

// KeyEvent represents a keyboard event delivered by the host frontend.
type KeyEvent struct {
	KeySym    uint32 // X11 keysym value
	Modifiers uint32 // modifier state (Shift, Control, Alt, ...)
}

// ProcessResult reports how a key event was handled, collapsed from the
// three-way ProcessStatus outcome to what a host needs: whether the key
// was consumed, and the commit/preedit text to display afterwards.
type ProcessResult struct {
	Handled    bool
	CommitText string
	Preedit    string
}

// ProcessStatus is the three-way outcome of a single Processor handling
// one key event (spec §4.J).
type ProcessStatus int

const (
	// Noop means the processor did not recognize the key; dispatch
	// continues to the next processor.
	Noop ProcessStatus = iota
	// Accepted means the key was consumed; dispatch stops.
	Accepted
	// Rejected means dispatch stops but the key counts as handled-not-
	// consumed (unhandled-key listeners fire; no commit history is kept).
	Rejected
)

// Modifier flags for keyboard state, matching the X11 modifier bit layout
// referenced by spec §6.1.
const (
	ModNone    uint32 = 0
	ModShift   uint32 = 1 << 0
	ModLock    uint32 = 1 << 1 // Caps Lock
	ModControl uint32 = 1 << 2
	ModMod1    uint32 = 1 << 3 // Alt
	ModSuper   uint32 = 1 << 6 // Super/Windows key
	ModRelease uint32 = 1 << 30
)

// X11 keysym constants used by the default Processors.
const (
	KeyBackSpace  uint32 = 0xff08
	KeyTab        uint32 = 0xff09
	KeyReturn     uint32 = 0xff0d
	KeyEscape     uint32 = 0xff1b
	KeyDelete     uint32 = 0xffff
	KeyHome       uint32 = 0xff50
	KeyLeft       uint32 = 0xff51
	KeyUp         uint32 = 0xff52
	KeyRight      uint32 = 0xff53
	KeyDown       uint32 = 0xff54
	KeyPrior      uint32 = 0xff55 // Page Up
	KeyNext       uint32 = 0xff56 // Page Down
	KeyEnd        uint32 = 0xff57
	KeySpace      uint32 = 0x0020
	KeyCapsLock   uint32 = 0xffe5
	KeyEisuToggle uint32 = 0xff2f

	Key0 uint32 = 0x0030
	Key9 uint32 = 0x0039

	KeyA uint32 = 0x0061
	KeyZ uint32 = 0x007a
)

// KeysymToRune converts an X11 keysym into the rune it denotes, or 0 if
// the keysym has no direct character representation.
func KeysymToRune(keysym uint32) rune {
	if keysym >= 0x0020 && keysym <= 0x007e {
		return rune(keysym)
	}
	if keysym >= 0x00a0 && keysym <= 0x00ff {
		return rune(keysym)
	}
	if keysym >= 0x01000000 {
		return rune(keysym - 0x01000000)
	}
	return 0
}

// IsPrintable reports whether the keysym denotes an ordinary printable
// ASCII character eligible for a Speller to consume.
func IsPrintable(keysym uint32) bool {
	return keysym >= 0x0020 && keysym <= 0x007e
}
