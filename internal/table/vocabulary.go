// Package table implements the hierarchical phrase index described in
// spec §4.D: entries are grouped by their syllable code into a tree
// (head syllable -> trunk syllables -> tail), queried through a
// TableQuery that walks the tree one syllable at a time exactly the way
// a segmentation graph is walked.
package table

import (
	"sort"

	"github.com/username/imecore/internal/prism"
)

// Entry is one phrase: its text and a relative weight (log frequency or
// raw count, interpretation left to the caller).
type Entry struct {
	Text   string
	Weight float64
}

// RawDictEntry is one source-dictionary row collected before encoding:
// a phrase, its weight, and the syllable code spelling it (already
// resolved to syllable ids by the caller).
type RawDictEntry struct {
	Text   string
	Code   []prism.SyllableId
	Weight float64
}

// Vocabulary is a trie over RawDictEntry.Code: Entries holds every
// phrase whose code ends exactly at this node, Next descends one more
// syllable. It plays the role of the original's Vocabulary/DictEntryList
// grouping in entry_collector.cc, built once per compilation pass.
type Vocabulary struct {
	Entries []Entry
	Next    map[prism.SyllableId]*Vocabulary
}

// NewVocabulary groups entries by their code into a Vocabulary trie.
// Entries are stable-sorted by descending weight within each node so
// TableAccessor iterates highest-frequency phrases first.
func NewVocabulary(entries []RawDictEntry) *Vocabulary {
	root := &Vocabulary{}
	for _, e := range entries {
		root.insert(e.Code, Entry{Text: e.Text, Weight: e.Weight})
	}
	root.sortAll()
	return root
}

func (v *Vocabulary) insert(code []prism.SyllableId, entry Entry) {
	if len(code) == 0 {
		v.Entries = append(v.Entries, entry)
		return
	}
	if v.Next == nil {
		v.Next = make(map[prism.SyllableId]*Vocabulary)
	}
	head := code[0]
	child, ok := v.Next[head]
	if !ok {
		child = &Vocabulary{}
		v.Next[head] = child
	}
	child.insert(code[1:], entry)
}

func (v *Vocabulary) sortAll() {
	sort.SliceStable(v.Entries, func(i, j int) bool { return v.Entries[i].Weight > v.Entries[j].Weight })
	for _, child := range v.Next {
		child.sortAll()
	}
}

// NumEntries counts every entry reachable from v, used to size the
// metadata num_entries field at build time.
func (v *Vocabulary) NumEntries() int {
	n := len(v.Entries)
	for _, child := range v.Next {
		n += child.NumEntries()
	}
	return n
}
