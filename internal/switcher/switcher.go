// Package switcher implements spec §4.K: a secondary, hot-key-activated
// engine that presents schemas and user-facing option switches as a menu
// of candidates, and applies whichever one the user picks.
package switcher

import (
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/config"
)

// SchemaEntry names a schema the switcher can activate.
type SchemaEntry struct {
	SchemaID string
	Name     string
}

// Item is one entry of the switcher's menu: either a schema to activate
// or an option/state to set.
type Item struct {
	Text string

	// IsSchema distinguishes a schema-selection item from an
	// option-toggle item.
	IsSchema bool
	SchemaID string

	OptionName  string
	OptionValue bool
}

// Switcher builds the schema/option menu and applies a choice from it.
// It does not own an Engine; Apply mutates the session Context's options
// and reports which schema (if any) the caller should now load.
type Switcher struct {
	schemas  []SchemaEntry
	switches []config.SwitchConfig
	active   bool
}

// New builds a Switcher over the schemas and switches a deployment
// config names.
func New(schemas []SchemaEntry, switches []config.SwitchConfig) *Switcher {
	return &Switcher{schemas: schemas, switches: switches}
}

// Activate marks the switcher's menu as the one currently displayed.
func (s *Switcher) Activate() { s.active = true }

// IsActive reports whether the switcher's menu is currently showing.
func (s *Switcher) IsActive() bool { return s.active }

// Deactivate dismisses the switcher's menu without applying a choice.
func (s *Switcher) Deactivate() { s.active = false }

// Menu builds the candidate list: one item per schema, then one item per
// switch state (for a multi-state switch, one item per state; for a
// plain boolean switch, one item toggling it), read against ctx's
// current option values so the menu reflects which state is active.
func (s *Switcher) Menu(ctx *composition.Context) []Item {
	items := make([]Item, 0, len(s.schemas)+len(s.switches))
	for _, sc := range s.schemas {
		items = append(items, Item{Text: sc.Name, IsSchema: true, SchemaID: sc.SchemaID})
	}
	for _, sw := range s.switches {
		items = append(items, switchItems(ctx, sw)...)
	}
	return items
}

func switchItems(ctx *composition.Context, sw config.SwitchConfig) []Item {
	switch {
	case len(sw.Options) > 1 && len(sw.Options) == len(sw.States):
		items := make([]Item, 0, len(sw.Options))
		for i, opt := range sw.Options {
			items = append(items, Item{Text: sw.States[i], OptionName: opt, OptionValue: true})
		}
		return items
	case sw.Name != "":
		label := sw.Name
		current := ctx.GetOption(sw.Name)
		if len(sw.States) == 2 {
			if current {
				label = sw.States[1]
			} else {
				label = sw.States[0]
			}
		}
		return []Item{{Text: label, OptionName: sw.Name, OptionValue: !current}}
	default:
		return nil
	}
}

// Apply deactivates the switcher and applies item's effect: for a
// schema item it returns the schema id for the caller to load; for an
// option item it sets ctx's option directly and clears every sibling
// option in the same radio group (exclusive options), returning "".
func (s *Switcher) Apply(ctx *composition.Context, item Item) (schemaID string) {
	s.Deactivate()
	if item.IsSchema {
		return item.SchemaID
	}
	if item.OptionName == "" {
		return ""
	}
	s.clearSiblingOptions(ctx, item.OptionName)
	ctx.SetOption(item.OptionName, item.OptionValue)
	return ""
}

// clearSiblingOptions unsets every other boolean option in the
// radio-group switch item.OptionName belongs to, so selecting e.g.
// "full_shape" implicitly deselects "half_shape".
func (s *Switcher) clearSiblingOptions(ctx *composition.Context, optionName string) {
	for _, sw := range s.switches {
		if len(sw.Options) <= 1 {
			continue
		}
		for _, opt := range sw.Options {
			if opt == optionName {
				for _, sibling := range sw.Options {
					if sibling != optionName {
						ctx.SetOption(sibling, false)
					}
				}
				return
			}
		}
	}
}
