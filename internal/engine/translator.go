package engine

import (
	"sort"

	"github.com/username/imecore/internal/candidate"
	"github.com/username/imecore/internal/dictionary"
	"github.com/username/imecore/internal/syllabify"
	"github.com/username/imecore/internal/userdb"
)

// Translator builds a Translation for one segment (spec §4.J step 3c).
type Translator interface {
	Name() string
	Translate(input string, seg segmentSpan, graph *syllabify.SyllableGraph) candidate.Translation
}

// segmentSpan is the [start,end) a Translator is asked to cover; kept
// local rather than importing composition.Segment's full shape so
// Translators don't need a live Context to be unit tested.
type segmentSpan struct {
	Start, End int
}

// TableTranslator turns Dictionary hits at a segment's end position into
// Phrase candidates.
type TableTranslator struct {
	dict *dictionary.Dictionary
}

// NewTableTranslator wraps a compiled Dictionary.
func NewTableTranslator(d *dictionary.Dictionary) *TableTranslator {
	return &TableTranslator{dict: d}
}

func (t *TableTranslator) Name() string { return "table_translator" }

func (t *TableTranslator) Translate(input string, seg segmentSpan, graph *syllabify.SyllableGraph) candidate.Translation {
	collector := t.dict.Lookup(graph, seg.Start)
	entries := collector[seg.End]
	items := make([]*candidate.Candidate, 0, len(entries))
	for _, e := range entries {
		items = append(items, &candidate.Candidate{
			Kind:    candidate.Phrase,
			Text:    e.Text,
			Start:   seg.Start,
			End:     seg.End,
			Quality: e.Weight,
		})
	}
	return candidate.NewSliceTranslation(items)
}

// UserDictTranslator queries the learned UserDictionary for phrases
// whose code is the literal input slice of the segment, matching the
// plain-text code convention internal/userdb uses.
type UserDictTranslator struct {
	dict *userdb.UserDictionary
}

// NewUserDictTranslator wraps a UserDictionary.
func NewUserDictTranslator(d *userdb.UserDictionary) *UserDictTranslator {
	return &UserDictTranslator{dict: d}
}

func (t *UserDictTranslator) Name() string { return "user_dict_translator" }

func (t *UserDictTranslator) Translate(input string, seg segmentSpan, graph *syllabify.SyllableGraph) candidate.Translation {
	if seg.Start < 0 || seg.End > len(input) || seg.Start >= seg.End {
		return candidate.NewSliceTranslation(nil)
	}
	code := input[seg.Start:seg.End]
	hits, err := t.dict.Query(code)
	if err != nil {
		return candidate.NewSliceTranslation(nil)
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Weight > hits[j].Weight })

	items := make([]*candidate.Candidate, 0, len(hits))
	for _, h := range hits {
		if h.Code != code {
			continue
		}
		items = append(items, &candidate.Candidate{
			Kind:    candidate.Simple,
			Text:    h.Text,
			Start:   seg.Start,
			End:     seg.End,
			Quality: h.Weight,
		})
	}
	return candidate.NewSliceTranslation(items)
}
