package config

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustTree(t *testing.T, doc string) *Tree {
	t.Helper()
	var root any
	require.NoError(t, yaml.Unmarshal([]byte(doc), &root))
	return NewTree(root)
}

func TestTraverseNestedPath(t *testing.T) {
	tr := mustTree(t, `
punctuator:
  half_shape:
    ",": "，"
style:
  page_size: 5
`)
	v, ok := tr.Traverse("punctuator/half_shape/,")
	require.True(t, ok)
	require.Equal(t, "，", v)

	n, ok := tr.GetInt("style/page_size")
	require.True(t, ok)
	require.Equal(t, 5, n)
}

func TestTraverseMissingSegmentFails(t *testing.T) {
	tr := mustTree(t, `a: {b: 1}`)
	_, ok := tr.Traverse("a/c")
	require.False(t, ok)
	_, ok = tr.Traverse("a/b/c")
	require.False(t, ok)
}

func TestGetListAndMap(t *testing.T) {
	tr := mustTree(t, `
engine:
  translators: [one, two]
  options: {foo: bar}
`)
	list, ok := tr.GetList("engine/translators")
	require.True(t, ok)
	require.Len(t, list, 2)

	m, ok := tr.GetMap("engine/options")
	require.True(t, ok)
	require.Equal(t, "bar", m["foo"])
}

func TestIsNull(t *testing.T) {
	tr := mustTree(t, `a: null`)
	require.True(t, tr.IsNull("a"))
	require.True(t, tr.IsNull("missing"))
}

func TestSetValueCreatesIntermediateMaps(t *testing.T) {
	tr := NewTree(nil)
	require.NoError(t, tr.SetValue("switcher/ascii_mode", true))
	b, ok := tr.GetBool("switcher/ascii_mode")
	require.True(t, ok)
	require.True(t, b)
}

func TestMarshalRoundTrip(t *testing.T) {
	tr := NewTree(nil)
	require.NoError(t, tr.SetValue("a/b", 42))
	out, err := tr.Marshal()
	require.NoError(t, err)

	reloaded := mustTree(t, string(out))
	n, ok := reloaded.GetInt("a/b")
	require.True(t, ok)
	require.Equal(t, 42, n)
}
