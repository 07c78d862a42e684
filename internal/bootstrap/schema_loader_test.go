package bootstrap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/imecore/internal/composition"
)

const testSchemaYAML = `
schema:
  schema_id: pinyin_test
engine:
  processors: [speller]
  segmentors: [table_segmentor]
  translators: [table_translator]
  filters: [uniquifier]
speller:
  alphabet: "abcdefghijklmnopqrstuvwxyz"
  max_code_length: 0
translator:
  dictionary: pinyin_test
`

const testDictYAML = `name: pinyin_test
version: "1.0"
...
你	ni	500
好	hao	300
`

func TestSchemaLoaderBuildsQueryableEngine(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pinyin_test.schema.yaml"), []byte(testSchemaYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pinyin_test.dict.yaml"), []byte(testDictYAML), 0o644))

	paths := Paths{DataDir: dir, BuildDir: filepath.Join(dir, "build")}
	loader := paths.SchemaLoader()

	build, err := loader("pinyin_test")
	require.NoError(t, err)
	require.NotNil(t, build)

	eng := build()
	require.NotNil(t, eng)

	ctx := eng.Context()
	for _, r := range "ni" {
		ctx.PushInput(string(r))
	}
	eng.Compose()
	require.True(t, ctx.HasMenu())
}

// TestSchemaLoaderBuilderProducesIndependentEngines pins the bug fix:
// the EngineBuilder singleflight dedupes must return must be callable
// more than once, handing back a distinct Engine (and Context) each
// time rather than the same shared instance, so two sessions opened
// for the same schema never alias each other's composition state.
func TestSchemaLoaderBuilderProducesIndependentEngines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pinyin_test.schema.yaml"), []byte(testSchemaYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pinyin_test.dict.yaml"), []byte(testDictYAML), 0o644))

	paths := Paths{DataDir: dir, BuildDir: filepath.Join(dir, "build")}
	build, err := paths.SchemaLoader()("pinyin_test")
	require.NoError(t, err)

	engA := build()
	engB := build()
	require.NotSame(t, engA, engB)
	require.NotSame(t, engA.Context(), engB.Context())

	engA.Context().PushInput("n")
	require.Equal(t, "n", engA.Context().Input())
	require.Equal(t, "", engB.Context().Input())
}

const testSchemaYAMLWithSwitch = `
schema:
  schema_id: pinyin_test
  name: Pinyin Test
engine:
  processors: [speller]
  segmentors: [table_segmentor]
  translators: [table_translator]
  filters: [uniquifier]
speller:
  alphabet: "abcdefghijklmnopqrstuvwxyz"
  max_code_length: 0
translator:
  dictionary: pinyin_test
switches:
  - name: ascii_mode
    states: ["中文", "西文"]
`

func TestLoadSwitcherListsSiblingSchemasAndSwitches(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pinyin_test.schema.yaml"), []byte(testSchemaYAMLWithSwitch), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pinyin_test.dict.yaml"), []byte(testDictYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wubi_test.schema.yaml"), []byte(strings.Replace(testSchemaYAMLWithSwitch, "pinyin_test", "wubi_test", -1)), 0o644))

	paths := Paths{DataDir: dir, BuildDir: filepath.Join(dir, "build")}
	sw, err := paths.LoadSwitcher("pinyin_test")
	require.NoError(t, err)

	ctx := composition.New()
	items := sw.Menu(ctx)
	require.Len(t, items, 3)
}
