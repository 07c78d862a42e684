package switcher

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/config"
)

func TestMenuListsSchemasAndSwitches(t *testing.T) {
	s := New(
		[]SchemaEntry{{SchemaID: "pinyin_simp", Name: "Pinyin"}},
		[]config.SwitchConfig{{Name: "ascii_mode", States: []string{"中文", "西文"}}},
	)
	ctx := composition.New()
	items := s.Menu(ctx)
	require.Len(t, items, 2)
	require.True(t, items[0].IsSchema)
	require.Equal(t, "中文", items[1].Text)
}

func TestApplySchemaReturnsSchemaID(t *testing.T) {
	s := New([]SchemaEntry{{SchemaID: "wubi", Name: "Wubi"}}, nil)
	ctx := composition.New()
	s.Activate()

	id := s.Apply(ctx, Item{IsSchema: true, SchemaID: "wubi"})
	require.Equal(t, "wubi", id)
	require.False(t, s.IsActive())
}

func TestApplyOptionTogglesContext(t *testing.T) {
	s := New(nil, []config.SwitchConfig{{Name: "ascii_mode", States: []string{"中文", "西文"}}})
	ctx := composition.New()

	id := s.Apply(ctx, Item{OptionName: "ascii_mode", OptionValue: true})
	require.Empty(t, id)
	require.True(t, ctx.GetOption("ascii_mode"))
}

func TestApplyRadioGroupClearsSiblings(t *testing.T) {
	s := New(nil, []config.SwitchConfig{
		{Options: []string{"full_shape", "half_shape"}, States: []string{"Full", "Half"}},
	})
	ctx := composition.New()
	ctx.SetOption("half_shape", true)

	s.Apply(ctx, Item{OptionName: "full_shape", OptionValue: true})
	require.True(t, ctx.GetOption("full_shape"))
	require.False(t, ctx.GetOption("half_shape"))
}
