package keybind

import (
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/config"
	"github.com/username/imecore/internal/engine"
)

// Selector handles page navigation and digit/select-key candidate
// selection atop a segment's menu (spec §4.M). Layout (horizontal vs.
// vertical, stacked vs. linear) is a rendering concern outside the core;
// here Selector only resolves a keystroke to a menu index or a page move.
type Selector struct {
	pageSize      int
	selectKeys    []rune
	pageDownCycle bool
}

// NewSelector builds a Selector from the schema's menu config and an
// optional custom select_keys string (falls back to "1234567890").
func NewSelector(menu config.MenuConfig, selectKeys string) *Selector {
	if selectKeys == "" {
		selectKeys = "1234567890"
	}
	pageSize := menu.PageSize
	if pageSize <= 0 {
		pageSize = len(selectKeys)
	}
	return &Selector{
		pageSize:      pageSize,
		selectKeys:    []rune(selectKeys),
		pageDownCycle: menu.PageDownCycle,
	}
}

func (s *Selector) Name() string { return "selector" }

func (s *Selector) Process(ctx *composition.Context, event engine.KeyEvent) engine.ProcessStatus {
	if !ctx.HasMenu() {
		return engine.Noop
	}
	switch event.KeySym {
	case engine.KeyPrior:
		return s.page(ctx, -1)
	case engine.KeyNext:
		return s.page(ctx, 1)
	}

	r := engine.KeysymToRune(event.KeySym)
	for i, key := range s.selectKeys {
		if r == key {
			if ctx.Select(i) {
				return engine.Accepted
			}
			return engine.Noop
		}
	}
	return engine.Noop
}

// page shifts the highlighted index by one page (dir = ±1), wrapping
// around per page_down_cycle when moving past the last page.
func (s *Selector) page(ctx *composition.Context, dir int) engine.ProcessStatus {
	back := ctx.Composition().Back()
	if back == nil || !back.HasMenu() {
		return engine.Noop
	}
	n := len(back.Menu)
	next := back.SelectedIndex + dir*s.pageSize
	if next < 0 {
		if !s.pageDownCycle {
			return engine.Noop
		}
		next = 0
	}
	if next >= n {
		if !s.pageDownCycle {
			return engine.Noop
		}
		next = 0
	}
	if !ctx.Highlight(next) {
		return engine.Noop
	}
	return engine.Accepted
}
