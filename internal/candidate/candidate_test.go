package candidate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSliceTranslationIterates(t *testing.T) {
	items := []*Candidate{
		{Kind: Simple, Text: "a"},
		{Kind: Phrase, Text: "ab"},
	}
	tr := NewSliceTranslation(items)

	require.Nil(t, tr.Candidate())
	require.True(t, tr.Next())
	require.Equal(t, "a", tr.Candidate().Text)
	require.True(t, tr.Next())
	require.Equal(t, "ab", tr.Candidate().Text)
	require.False(t, tr.Next())
	require.Nil(t, tr.Candidate())
}

func TestCollect(t *testing.T) {
	items := []*Candidate{{Text: "x"}, {Text: "y"}, {Text: "z"}}
	out := Collect(NewSliceTranslation(items))
	require.Len(t, out, 3)
	require.Equal(t, "z", out[2].Text)
}

func TestKindString(t *testing.T) {
	require.Equal(t, "sentence", Sentence.String())
	require.Equal(t, "unknown", Kind(99).String())
}
