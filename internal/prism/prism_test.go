package prism

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildNoScriptExactMatch(t *testing.T) {
	syllabary := []string{"a", "an", "ang", "b"}
	p, err := Build(syllabary, nil, 0xdead, 0xbeef)
	require.NoError(t, err)

	for i, s := range syllabary {
		id, ok := p.ExactMatch(s)
		require.True(t, ok, "expected %q to match", s)
		descs := p.QuerySpelling(id)
		require.Len(t, descs, 1)
		require.Equal(t, SyllableId(i), descs[0].SyllableId)
	}

	_, ok := p.ExactMatch("zzz")
	require.False(t, ok)
}

func TestCommonPrefixSearch(t *testing.T) {
	syllabary := []string{"a", "an", "ang"}
	p, err := Build(syllabary, nil, 0, 0)
	require.NoError(t, err)

	matches := p.CommonPrefixSearch("angle")
	require.Len(t, matches, 3)
	require.Equal(t, 1, matches[0].Length)
	require.Equal(t, 2, matches[1].Length)
	require.Equal(t, 3, matches[2].Length)

	for _, m := range matches {
		descs := p.QuerySpelling(m.SpellingId)
		require.Len(t, descs, 1)
	}
}

func TestExpandSearch(t *testing.T) {
	syllabary := []string{"ba", "bai", "ban", "bang", "bo"}
	p, err := Build(syllabary, nil, 0, 0)
	require.NoError(t, err)

	matches := p.ExpandSearch("ba", 10)
	require.True(t, len(matches) >= 3)
	lengths := make(map[int]bool)
	for _, m := range matches {
		lengths[m.Length] = true
	}
	require.True(t, lengths[2]) // "ba" itself accepts
	require.True(t, lengths[3]) // "bai"/"ban"
	require.True(t, lengths[4]) // "bang"
}

func TestExpandSearchRespectsLimit(t *testing.T) {
	syllabary := []string{"ba", "bai", "ban", "bang", "bao", "bei"}
	p, err := Build(syllabary, nil, 0, 0)
	require.NoError(t, err)

	matches := p.ExpandSearch("b", 2)
	require.LessOrEqual(t, len(matches), 2)
}

func TestBuildWithScriptAlgebra(t *testing.T) {
	syllabary := []string{"zhong"}
	xform, err := ParseFormula("xform/^zh/z/")
	require.NoError(t, err)
	script := BuildScript(syllabary, []Calculation{xform})

	p, err := Build(syllabary, script, 0, 0)
	require.NoError(t, err)

	id, ok := p.ExactMatch("zong")
	require.True(t, ok)
	descs := p.QuerySpelling(id)
	require.Len(t, descs, 1)
	require.Equal(t, SyllableId(0), descs[0].SyllableId)

	// the original spelling should no longer resolve, since xform rewrites
	// in place rather than deriving an alternate.
	_, ok = p.ExactMatch("zhong")
	require.False(t, ok)
}

func TestBuildWithFuzzDerivesAlternate(t *testing.T) {
	syllabary := []string{"shi"}
	fuzz, err := ParseFormula("fuzz/^sh/s/")
	require.NoError(t, err)
	script := BuildScript(syllabary, []Calculation{fuzz})

	p, err := Build(syllabary, script, 0, 0)
	require.NoError(t, err)

	_, ok := p.ExactMatch("shi")
	require.True(t, ok, "original spelling must survive a fuzz rule")

	id, ok := p.ExactMatch("si")
	require.True(t, ok, "fuzzed spelling must be derived")
	descs := p.QuerySpelling(id)
	require.Len(t, descs, 1)
	require.Equal(t, Fuzzy, descs[0].Properties.Type)
	require.Less(t, descs[0].Properties.Credibility, 0.0)
}

func TestMetadataChecksumsRoundTrip(t *testing.T) {
	p, err := Build([]string{"a"}, nil, 111, 222)
	require.NoError(t, err)
	meta := p.Metadata()
	require.Equal(t, uint32(111), meta.DictFileChecksum)
	require.Equal(t, uint32(222), meta.SchemaFileChecksum)
	require.Equal(t, formatString, meta.Format)
	require.Equal(t, "a", meta.Alphabet)
}

func TestBuildRejectsEmptySyllabary(t *testing.T) {
	_, err := Build(nil, nil, 0, 0)
	require.Error(t, err)
}
