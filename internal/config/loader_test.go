package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleSchema = `
schema:
  schema_id: pinyin_simp
  name: "Pinyin Simplified"
engine:
  processors: [ascii_composer, key_binder, speller]
  segmentors: [ascii_segmentor, matcher]
  translators: [punct_translator, table_translator]
  filters: [uniquifier]
speller:
  alphabet: zyxwvutsrqponmlkjihgfedcba
  delimiters: " '"
  max_code_length: 10
  auto_select: true
key_binder:
  bindings:
    - {when: paging, accept: Page_Up, send: Page_Up}
    - {when: has_menu, accept: minus, send: Page_Up}
switches:
  - name: ascii_mode
    states: ["中文", "西文"]
menu:
  page_size: 5
`

func TestLoadSchemaFromReader(t *testing.T) {
	cfg, err := LoadSchemaFromReader(strings.NewReader(sampleSchema))
	require.NoError(t, err)
	require.Equal(t, "pinyin_simp", cfg.Schema.SchemaID)
	require.Equal(t, []string{"punct_translator", "table_translator"}, cfg.Engine.Translators)
	require.NotNil(t, cfg.Speller)
	require.Equal(t, 10, cfg.Speller.MaxCodeLength)
	require.Len(t, cfg.KeyBinder.Bindings, 2)
	require.Equal(t, "paging", cfg.KeyBinder.Bindings[0].When)
	require.Equal(t, 5, cfg.Menu.PageSize)
	require.Len(t, cfg.Switches, 1)
	require.Equal(t, []string{"中文", "西文"}, cfg.Switches[0].States)
}

func TestLoadSchemaMissingSchemaIDFails(t *testing.T) {
	_, err := LoadSchemaFromReader(strings.NewReader(`
engine:
  translators: [table_translator]
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "schema_id")
}

func TestLoadSchemaNoTranslatorsFails(t *testing.T) {
	_, err := LoadSchemaFromReader(strings.NewReader(`
schema:
  schema_id: empty
engine:
  processors: [speller]
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "translators")
}

func TestLoadSchemaInvalidWhenFails(t *testing.T) {
	_, err := LoadSchemaFromReader(strings.NewReader(`
schema:
  schema_id: bad_binder
engine:
  translators: [table_translator]
key_binder:
  bindings:
    - {when: sometimes, accept: Escape}
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid")
}

func TestLoadSchemaMismatchedSwitchFails(t *testing.T) {
	_, err := LoadSchemaFromReader(strings.NewReader(`
schema:
  schema_id: bad_switch
engine:
  translators: [table_translator]
switches:
  - options: [full_shape, half_shape]
    states: ["only one"]
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "matching length")
}
