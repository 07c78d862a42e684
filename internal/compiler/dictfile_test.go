package compiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDictYAML = `name: pinyin_simp
version: "1.0"
sort: by_weight
...
你好	ni hao	100
你	ni	500
好	hao	300
`

func writeTempDict(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseDictFile(t *testing.T) {
	path := writeTempDict(t, sampleDictYAML)
	df, err := ParseDictFile(path)
	require.NoError(t, err)
	require.Equal(t, "pinyin_simp", df.Name)
	require.Equal(t, "by_weight", df.Sort)
	require.Len(t, df.Entries, 3)
	require.Equal(t, SourceEntry{Text: "你好", Code: "ni hao", Weight: "100"}, df.Entries[0])
}

func TestParseDictFileRequiresName(t *testing.T) {
	path := writeTempDict(t, "version: \"1.0\"\n...\na\tb\tc\n")
	_, err := ParseDictFile(path)
	require.Error(t, err)
}

func TestParseDictFileRequiresSeparator(t *testing.T) {
	path := writeTempDict(t, "name: x\nversion: \"1.0\"\n")
	_, err := ParseDictFile(path)
	require.Error(t, err)
}

func TestResolveWeight(t *testing.T) {
	v, err := resolveWeight("", 10)
	require.NoError(t, err)
	require.Equal(t, 10.0, v)

	v, err = resolveWeight("50%", 10)
	require.NoError(t, err)
	require.Equal(t, 5.0, v)

	v, err = resolveWeight("7", 10)
	require.NoError(t, err)
	require.Equal(t, 7.0, v)

	_, err = resolveWeight("bogus", 10)
	require.Error(t, err)
}
