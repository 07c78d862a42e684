package compiler

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const pinyinDictYAML = `name: pinyin_test
version: "1.0"
...
你	ni	500
好	hao	300
你好	ni hao	100
`

func writeDict(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCompileBuildsQueryableArtifacts(t *testing.T) {
	dir := t.TempDir()
	dictPath := writeDict(t, dir, "pinyin_test.dict.yaml", pinyinDictYAML)

	job := Job{
		SchemaID:  "pinyin_test",
		DictFiles: []string{dictPath},
		OutputDir: filepath.Join(dir, "build"),
	}
	art, err := Compile(job)
	require.NoError(t, err)
	require.NotNil(t, art.Prism)
	require.NotNil(t, art.Table)
	require.NotNil(t, art.Reverse)

	sid, ok := art.Table.SyllableId("ni")
	require.True(t, ok)
	acc := art.Table.QueryWords(sid)
	require.False(t, acc.Exhausted())
	require.Equal(t, "你", acc.Entry().Text)

	codes, ok := art.Reverse.Lookup("你好")
	require.True(t, ok)
	require.Contains(t, codes, "ni hao")

	matches := art.Prism.CommonPrefixSearch("ni")
	require.NotEmpty(t, matches)
}

func TestCompileChecksumGatingSkipsRebuild(t *testing.T) {
	dir := t.TempDir()
	dictPath := writeDict(t, dir, "pinyin_test.dict.yaml", pinyinDictYAML)
	outDir := filepath.Join(dir, "build")

	job := Job{SchemaID: "pinyin_test", DictFiles: []string{dictPath}, OutputDir: outDir}
	_, err := Compile(job)
	require.NoError(t, err)

	tableInfo, err := os.Stat(job.tablePath())
	require.NoError(t, err)
	prismInfo, err := os.Stat(job.prismPath())
	require.NoError(t, err)
	reverseInfo, err := os.Stat(job.reversePath())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	_, err = Compile(job)
	require.NoError(t, err)

	tableInfo2, err := os.Stat(job.tablePath())
	require.NoError(t, err)
	prismInfo2, err := os.Stat(job.prismPath())
	require.NoError(t, err)
	reverseInfo2, err := os.Stat(job.reversePath())
	require.NoError(t, err)

	require.Equal(t, tableInfo.ModTime(), tableInfo2.ModTime())
	require.Equal(t, prismInfo.ModTime(), prismInfo2.ModTime())
	require.Equal(t, reverseInfo.ModTime(), reverseInfo2.ModTime())
}

func TestCompileRebuildsWhenDictChanges(t *testing.T) {
	dir := t.TempDir()
	dictPath := writeDict(t, dir, "pinyin_test.dict.yaml", pinyinDictYAML)
	outDir := filepath.Join(dir, "build")

	job := Job{SchemaID: "pinyin_test", DictFiles: []string{dictPath}, OutputDir: outDir}
	_, err := Compile(job)
	require.NoError(t, err)

	tableInfo, err := os.Stat(job.tablePath())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	writeDict(t, dir, "pinyin_test.dict.yaml", pinyinDictYAML+"新\txin\t10\n")

	_, err = Compile(job)
	require.NoError(t, err)

	tableInfo2, err := os.Stat(job.tablePath())
	require.NoError(t, err)
	require.NotEqual(t, tableInfo.ModTime(), tableInfo2.ModTime())
}

func TestDecompileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	dictPath := writeDict(t, dir, "pinyin_test.dict.yaml", pinyinDictYAML)
	job := Job{SchemaID: "pinyin_test", DictFiles: []string{dictPath}, OutputDir: filepath.Join(dir, "build")}
	_, err := Compile(job)
	require.NoError(t, err)

	lines, err := Decompile(job.tablePath())
	require.NoError(t, err)
	require.Len(t, lines, 3)
}
