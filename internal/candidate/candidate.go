// Package candidate implements the tagged-variant Candidate described
// in spec §9's design notes: rather than a class hierarchy, one struct
// carries a Kind discriminant plus the fields every kind shares, and a
// Translation is an iterator that replenishes candidates lazily.
package candidate

// Kind discriminates what produced a Candidate, replacing the class
// hierarchy (SimpleCandidate, ShadowCandidate, ...) the original uses.
type Kind int

const (
	Simple Kind = iota
	Shadow
	Uniquified
	Phrase
	Sentence
	Punct
)

func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Shadow:
		return "shadow"
	case Uniquified:
		return "uniquified"
	case Phrase:
		return "phrase"
	case Sentence:
		return "sentence"
	case Punct:
		return "punct"
	default:
		return "unknown"
	}
}

// Candidate is one entry of a segment's menu.
type Candidate struct {
	Kind    Kind
	Text    string
	Comment string
	Preedit string
	Start   int
	End     int
	Quality float64

	// Shadowed is the candidate a Shadow or Uniquified candidate stands
	// in for (e.g. the earlier same-text candidate a uniquified duplicate
	// hides behind), nil for every other kind.
	Shadowed *Candidate
}

// Translation is a lazily-replenished sequence of candidates, the role
// Translator implementations fill for one segment.
type Translation interface {
	// Next advances the translation, returning false once exhausted.
	Next() bool
	// Candidate returns the candidate at the current position.
	Candidate() *Candidate
}

// SliceTranslation adapts a pre-computed slice to the Translation
// interface — the common case once a Translator has finished scoring.
type SliceTranslation struct {
	items []*Candidate
	idx   int
}

// NewSliceTranslation wraps items as a Translation, starting before the
// first element.
func NewSliceTranslation(items []*Candidate) *SliceTranslation {
	return &SliceTranslation{items: items, idx: -1}
}

func (t *SliceTranslation) Next() bool {
	t.idx++
	return t.idx < len(t.items)
}

func (t *SliceTranslation) Candidate() *Candidate {
	if t.idx < 0 || t.idx >= len(t.items) {
		return nil
	}
	return t.items[t.idx]
}

// Collect drains a Translation into a slice, useful for filters that
// need random access (e.g. to drop duplicates).
func Collect(tr Translation) []*Candidate {
	var out []*Candidate
	for tr.Next() {
		out = append(out, tr.Candidate())
	}
	return out
}
