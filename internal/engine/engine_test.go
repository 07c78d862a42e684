package engine

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/imecore/internal/candidate"
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/dictionary"
	"github.com/username/imecore/internal/prism"
	"github.com/username/imecore/internal/syllabify"
	"github.com/username/imecore/internal/table"
	"github.com/username/imecore/internal/userdb"
)

// asciiPushProcessor routes printable ASCII into input, the minimal
// stand-in for internal/keybind's Speller used while testing the
// pipeline in isolation.
type asciiPushProcessor struct{}

func (asciiPushProcessor) Name() string { return "ascii_push" }

func (asciiPushProcessor) Process(ctx *composition.Context, event KeyEvent) ProcessStatus {
	r := KeysymToRune(event.KeySym)
	if r == 0 || !IsPrintable(event.KeySym) {
		return Noop
	}
	ctx.PushInput(string(r))
	return Accepted
}

func buildTestPipeline(t *testing.T) *Engine {
	t.Helper()

	syllabary := []string{"ni", "hao"}
	p, err := prism.Build(syllabary, nil, 0, 0)
	require.NoError(t, err)

	vocab := table.NewVocabulary([]table.RawDictEntry{
		{Text: "你", Code: []prism.SyllableId{0}, Weight: 1},
		{Text: "你好", Code: []prism.SyllableId{0, 1}, Weight: 5},
	})
	tbl, err := table.Build(syllabary, vocab, vocab.NumEntries(), 0)
	require.NoError(t, err)

	dict := dictionary.New(tbl)
	syl := &syllabify.Syllabifier{}

	dbPath := filepath.Join(t.TempDir(), "user.txt")
	db, err := userdb.OpenTextDb(dbPath)
	require.NoError(t, err)
	userDict := userdb.NewUserDictionary(db, "")

	ctx := composition.New()
	tableSeg := NewTableSegmentor(syl, p)
	return New(
		ctx,
		[]Processor{asciiPushProcessor{}},
		tableSeg,
		[]Segmentor{tableSeg, FallbackSegmentor{}},
		[]Translator{NewTableTranslator(dict), NewUserDictTranslator(userDict)},
		[]Filter{UniquifierFilter{}},
		[]Formatter{IdentityFormatter{}},
	)
}

func pressRune(e *Engine, r rune) ProcessResult {
	return e.ProcessKey(KeyEvent{KeySym: uint32(r)})
}

func TestComposeBuildsMenuFromTable(t *testing.T) {
	e := buildTestPipeline(t)

	pressRune(e, 'n')
	pressRune(e, 'i')
	result := pressRune(e, 'h')

	require.True(t, result.Handled)
	comp := *e.Context().Composition()
	require.NotEmpty(t, comp)
	require.True(t, comp[0].HasMenu())

	var texts []string
	for _, c := range comp[0].Menu {
		texts = append(texts, c.Text)
	}
	require.Contains(t, texts, "你")
}

func TestComposeBuildsPhraseCandidateAcrossMultipleSyllables(t *testing.T) {
	e := buildTestPipeline(t)

	for _, r := range "nihao" {
		pressRune(e, r)
	}

	comp := *e.Context().Composition()
	require.NotEmpty(t, comp)
	require.True(t, comp[0].HasMenu())
	require.Equal(t, 0, comp[0].Start)
	require.Equal(t, 5, comp[0].End)

	var texts []string
	for _, c := range comp[0].Menu {
		texts = append(texts, c.Text)
	}
	require.Contains(t, texts, "你好")
}

func TestSelectAndCommitProducesCommitText(t *testing.T) {
	e := buildTestPipeline(t)
	pressRune(e, 'n')
	pressRune(e, 'i')

	e.Context().SetOption("_auto_commit", true)
	comp := *e.Context().Composition()
	require.NotEmpty(t, comp)
	require.True(t, e.Select(0))
	require.False(t, e.Context().IsComposing())
}

func TestCommitRecordsSelectedCandidateInUserDictionary(t *testing.T) {
	syllabary := []string{"ni", "hao"}
	p, err := prism.Build(syllabary, nil, 0, 0)
	require.NoError(t, err)

	vocab := table.NewVocabulary([]table.RawDictEntry{
		{Text: "你", Code: []prism.SyllableId{0}, Weight: 1},
	})
	tbl, err := table.Build(syllabary, vocab, vocab.NumEntries(), 0)
	require.NoError(t, err)

	dict := dictionary.New(tbl)
	syl := &syllabify.Syllabifier{}

	dbPath := filepath.Join(t.TempDir(), "user.txt")
	db, err := userdb.OpenTextDb(dbPath)
	require.NoError(t, err)
	userDict := userdb.NewUserDictionary(db, "")

	ctx := composition.New()
	tableSeg := NewTableSegmentor(syl, p)
	e := New(
		ctx,
		[]Processor{asciiPushProcessor{}},
		tableSeg,
		[]Segmentor{tableSeg, FallbackSegmentor{}},
		[]Translator{NewTableTranslator(dict), NewUserDictTranslator(userDict)},
		[]Filter{UniquifierFilter{}},
		[]Formatter{IdentityFormatter{}},
	)

	pressRune(e, 'n')
	pressRune(e, 'i')
	ctx.SetOption("_auto_commit", true)
	require.True(t, e.Select(0))
	require.False(t, ctx.IsComposing())

	hits, err := userDict.Query("ni")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "你", hits[0].Text)
}

func TestUniquifierFilterCollapsesDuplicateText(t *testing.T) {
	menu := []*candidate.Candidate{
		{Text: "你", Quality: 5},
		{Text: "你", Quality: 1},
		{Text: "好", Quality: 3},
	}
	out := UniquifierFilter{}.Filter(menu)
	require.Len(t, out, 3)
	require.Equal(t, candidate.Uniquified, out[1].Kind)
	require.Same(t, out[0], out[1].Shadowed)
}

func TestFallbackSegmentorAdvancesOneByte(t *testing.T) {
	e := buildTestPipeline(t)
	pressRune(e, '!')

	comp := *e.Context().Composition()
	require.Len(t, comp, 1)
	require.Equal(t, 0, comp[0].Start)
	require.Equal(t, 1, comp[0].End)
}
