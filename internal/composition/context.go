package composition

// Context is the live editing state a keystroke mutates: raw input,
// caret position, the segmented Composition, session options and
// properties, and the notifier broadcasters other components subscribe
// to (spec §4.I).
type Context struct {
	input       string
	caretPos    int
	composition Composition
	options     map[string]bool
	properties  map[string]string

	Commit         Notifier[*Context]
	Select         Notifier[*Context]
	Update         Notifier[*Context]
	Delete         Notifier[*Context]
	Abort          Notifier[*Context]
	OptionUpdate   Notifier[OptionEvent]
	PropertyUpdate Notifier[PropertyEvent]
	UnhandledKey   Notifier[UnhandledKeyEvent]
}

// OptionEvent is the payload of an OptionUpdate notification.
type OptionEvent struct {
	Context *Context
	Name    string
}

// PropertyEvent is the payload of a PropertyUpdate notification.
type PropertyEvent struct {
	Context *Context
	Name    string
}

// New returns an empty Context.
func New() *Context {
	return &Context{
		options:    make(map[string]bool),
		properties: make(map[string]string),
	}
}

func (c *Context) Input() string             { return c.input }
func (c *Context) CaretPos() int             { return c.caretPos }
func (c *Context) Composition() *Composition { return &c.composition }

// IsComposing reports whether there is any input to act on.
func (c *Context) IsComposing() bool { return c.input != "" }

// HasMenu reports whether the last segment has candidates.
func (c *Context) HasMenu() bool {
	back := c.composition.Back()
	return back != nil && back.HasMenu()
}

// GetSelectedCandidate returns the currently highlighted candidate of
// the last segment.
func (c *Context) GetSelectedCandidate() any {
	back := c.composition.Back()
	if back == nil {
		return nil
	}
	return back.SelectedCandidate()
}

// GetPreedit renders the raw input with every confirmed/selected
// segment replaced by its candidate text.
func (c *Context) GetPreedit() string {
	return c.composition.GetCommitText(c.input)
}

// GetCommitText is the text a Commit() call would produce right now.
func (c *Context) GetCommitText() string {
	return c.composition.GetCommitText(c.input)
}

// SetInput replaces the raw input outright, clearing the composition so
// the next Compose pass rebuilds it from scratch.
func (c *Context) SetInput(value string) {
	c.input = value
	if c.caretPos > len(value) {
		c.caretPos = len(value)
	}
	c.composition = nil
}

// PushInput appends s at the caret and advances it.
func (c *Context) PushInput(s string) bool {
	if s == "" {
		return false
	}
	c.input = c.input[:c.caretPos] + s + c.input[c.caretPos:]
	c.caretPos += len(s)
	return true
}

// PopInput deletes n bytes before the caret.
func (c *Context) PopInput(n int) bool {
	if n <= 0 || c.caretPos == 0 {
		return false
	}
	if n > c.caretPos {
		n = c.caretPos
	}
	c.input = c.input[:c.caretPos-n] + c.input[c.caretPos:]
	c.caretPos -= n
	return true
}

// DeleteInput deletes n bytes after the caret.
func (c *Context) DeleteInput(n int) bool {
	if n <= 0 || c.caretPos >= len(c.input) {
		return false
	}
	end := c.caretPos + n
	if end > len(c.input) {
		end = len(c.input)
	}
	c.input = c.input[:c.caretPos] + c.input[end:]
	return true
}

// SetCaretPos moves the caret, clamped to the input's extent.
func (c *Context) SetCaretPos(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.input) {
		pos = len(c.input)
	}
	c.caretPos = pos
}

// SetComposition replaces the segmentation outright — called by the
// engine's segment/translate pass once it has rebuilt it.
func (c *Context) SetComposition(comp Composition) {
	c.composition = comp
}

// Select resolves the segment ending the composition to candidate
// index, returning false if no such candidate exists.
func (c *Context) Select(index int) bool {
	back := c.composition.Back()
	if back == nil || index < 0 || index >= len(back.Menu) {
		return false
	}
	back.SelectedIndex = index
	back.Status = Selected
	c.Select.Notify(c)
	return true
}

// Highlight moves the highlighted index without confirming a selection,
// returning false if the index is unchanged.
func (c *Context) Highlight(index int) bool {
	back := c.composition.Back()
	if back == nil || index < 0 || index >= len(back.Menu) {
		return false
	}
	if back.SelectedIndex == index {
		return false
	}
	back.SelectedIndex = index
	return true
}

// DeleteCandidate removes a candidate from the last segment's menu
// (e.g. a user-dictionary "forget this word" action), shifting the
// selected index to stay in range.
func (c *Context) DeleteCandidate(index int) bool {
	back := c.composition.Back()
	if back == nil || index < 0 || index >= len(back.Menu) {
		return false
	}
	back.Menu = append(back.Menu[:index], back.Menu[index+1:]...)
	if back.SelectedIndex >= len(back.Menu) {
		back.SelectedIndex = len(back.Menu) - 1
	}
	c.Delete.Notify(c)
	return true
}

// ConfirmCurrentSelection marks the last segment Confirmed, returning
// false if it has no candidate to confirm.
func (c *Context) ConfirmCurrentSelection() bool {
	back := c.composition.Back()
	if back == nil || back.SelectedCandidate() == nil {
		return false
	}
	back.Status = Confirmed
	return true
}

// DeleteCurrentSelection removes the selected candidate from the menu.
func (c *Context) DeleteCurrentSelection() bool {
	back := c.composition.Back()
	if back == nil {
		return false
	}
	return c.DeleteCandidate(back.SelectedIndex)
}

// BeginEditing resets the composition so the engine recomposes from the
// currently confirmed prefix.
func (c *Context) BeginEditing() {
	for len(c.composition) > 0 && c.composition.Back().Status != Confirmed {
		c.composition = c.composition[:len(c.composition)-1]
	}
}

// ReopenPreviousSegment drops the last segment so it is retranslated.
func (c *Context) ReopenPreviousSegment() bool {
	if len(c.composition) == 0 {
		return false
	}
	c.composition = c.composition[:len(c.composition)-1]
	return true
}

// ClearPreviousSegment clears the last segment's selection, keeping its
// span but resetting status to Guess.
func (c *Context) ClearPreviousSegment() bool {
	back := c.composition.Back()
	if back == nil {
		return false
	}
	back.Status = Guess
	back.SelectedIndex = 0
	return true
}

// ReopenPreviousSelection undoes the last Confirmed segment's selection
// back to Selected, so Highlight/Select can act on it again.
func (c *Context) ReopenPreviousSelection() bool {
	back := c.composition.Back()
	if back == nil || back.Status != Confirmed {
		return false
	}
	back.Status = Selected
	return true
}

// ClearNonConfirmedComposition drops every segment past the last
// Confirmed one.
func (c *Context) ClearNonConfirmedComposition() bool {
	i := len(c.composition)
	for i > 0 && c.composition[i-1].Status != Confirmed {
		i--
	}
	if i == len(c.composition) {
		return false
	}
	c.composition = c.composition[:i]
	return true
}

// RefreshNonConfirmedComposition clears every non-confirmed segment's
// menu so the next Compose pass retranslates it from scratch.
func (c *Context) RefreshNonConfirmedComposition() bool {
	changed := false
	for _, seg := range c.composition {
		if seg.Status != Confirmed {
			seg.Menu = nil
			seg.SelectedIndex = 0
			seg.Status = Void
			changed = true
		}
	}
	return changed
}

// Commit assembles the commit text, notifies, then clears.
func (c *Context) Commit() bool {
	if !c.IsComposing() {
		return false
	}
	c.Commit.Notify(c)
	c.Clear()
	return true
}

// Clear empties the input, caret, and composition without notifying.
func (c *Context) Clear() {
	c.input = ""
	c.caretPos = 0
	c.composition = nil
}

// AbortComposition clears the context and fires the abort notifier.
func (c *Context) AbortComposition() {
	c.Clear()
	c.Abort.Notify(c)
}

func isLocalName(name string) bool { return len(name) > 0 && name[0] == '_' }

// SetOption sets a session (or, if name starts with '_', schema-local)
// boolean option and fires the option-update notifier.
func (c *Context) SetOption(name string, value bool) {
	c.options[name] = value
	c.OptionUpdate.Notify(OptionEvent{Context: c, Name: name})
}

// GetOption reads a boolean option, defaulting to false if unset.
func (c *Context) GetOption(name string) bool { return c.options[name] }

// SetProperty sets a string property and fires the property-update
// notifier.
func (c *Context) SetProperty(name, value string) {
	c.properties[name] = value
	c.PropertyUpdate.Notify(PropertyEvent{Context: c, Name: name})
}

// GetProperty reads a string property, defaulting to "" if unset.
func (c *Context) GetProperty(name string) string { return c.properties[name] }

// ClearTransientOptions drops every session-scoped (non '_'-prefixed)
// option and property, keeping schema-local ones.
func (c *Context) ClearTransientOptions() {
	for name := range c.options {
		if !isLocalName(name) {
			delete(c.options, name)
		}
	}
	for name := range c.properties {
		if !isLocalName(name) {
			delete(c.properties, name)
		}
	}
}
