package table

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/imecore/internal/prism"
)

func TestBuildQueryWords(t *testing.T) {
	syllabary := []string{"ni", "hao"}
	vocab := NewVocabulary([]RawDictEntry{
		{Text: "你", Code: []prism.SyllableId{0}, Weight: 10},
		{Text: "尼", Code: []prism.SyllableId{0}, Weight: 1},
	})
	tbl, err := Build(syllabary, vocab, vocab.NumEntries(), 0xabc)
	require.NoError(t, err)

	acc := tbl.QueryWords(0)
	require.False(t, acc.Exhausted())
	require.Equal(t, "你", acc.Entry().Text) // higher weight sorts first
	require.True(t, acc.Next())
	require.Equal(t, "尼", acc.Entry().Text)
	require.False(t, acc.Next())
	require.True(t, acc.Exhausted())
}

func TestQueryPhrasesExactCode(t *testing.T) {
	syllabary := []string{"ni", "hao"}
	vocab := NewVocabulary([]RawDictEntry{
		{Text: "你好", Code: []prism.SyllableId{0, 1}, Weight: 5},
	})
	tbl, err := Build(syllabary, vocab, vocab.NumEntries(), 0)
	require.NoError(t, err)

	acc := tbl.QueryPhrases([]prism.SyllableId{0, 1})
	require.False(t, acc.Exhausted())
	require.Equal(t, "你好", acc.Entry().Text)

	missing := tbl.QueryPhrases([]prism.SyllableId{1, 0})
	require.True(t, missing.Exhausted())
}

func TestTableQueryAdvanceBackdateReset(t *testing.T) {
	syllabary := []string{"ni", "hao", "ma"}
	vocab := NewVocabulary([]RawDictEntry{
		{Text: "你", Code: []prism.SyllableId{0}, Weight: 1},
		{Text: "你好", Code: []prism.SyllableId{0, 1}, Weight: 1},
		{Text: "你好吗", Code: []prism.SyllableId{0, 1, 2}, Weight: 1},
	})
	tbl, err := Build(syllabary, vocab, vocab.NumEntries(), 0)
	require.NoError(t, err)

	q := NewTableQuery(tbl)
	require.Equal(t, 0, q.Level())

	acc := q.Access(0)
	require.False(t, acc.Exhausted())
	require.Equal(t, "你", acc.Entry().Text)

	require.True(t, q.Advance(0))
	require.Equal(t, 1, q.Level())

	acc = q.Access(1)
	require.Equal(t, "你好", acc.Entry().Text)

	require.True(t, q.Advance(1))
	require.Equal(t, 2, q.Level())
	acc = q.Access(2)
	require.Equal(t, "你好吗", acc.Entry().Text)

	require.True(t, q.Backdate())
	require.Equal(t, 1, q.Level())

	require.False(t, q.Advance(99))

	q.Reset()
	require.Equal(t, 0, q.Level())
	require.False(t, q.Backdate())
}

func TestBuildRejectsEmptySyllabary(t *testing.T) {
	_, err := Build(nil, nil, 0, 0)
	require.Error(t, err)
}
