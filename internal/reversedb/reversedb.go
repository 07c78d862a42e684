// Package reversedb implements the code-of-text reverse index (spec
// §4.E addendum): given a phrase, return every code known to produce
// it, used by reverse-lookup schemas and UI hinting.
package reversedb

import (
	"sort"
	"strings"
)

const formatString = "Ime::Reverse/1.0"

// Metadata is the header, matching the mapped-file metadata convention
// other compiled artifacts (Prism, Table) carry.
type Metadata struct {
	Format string
}

// ReverseDb maps text to the sorted, deduplicated set of codes (and
// stems) known to encode it.
type ReverseDb struct {
	meta   Metadata
	byText map[string][]string
}

// Build collects, for every (text, code) pair observed during dict
// compilation, the full set of codes a text resolves from — plus any
// known stems, which are merged in as additional codes for the same
// text the same way the original's reverse-lookup build folds stems in.
func Build(pairs map[string][]string, stems map[string][]string) *ReverseDb {
	r := &ReverseDb{meta: Metadata{Format: formatString}, byText: make(map[string][]string, len(pairs))}
	for text, codes := range pairs {
		r.byText[text] = dedupSorted(codes)
	}
	for text, codes := range stems {
		r.byText[text] = dedupSorted(append(r.byText[text], codes...))
	}
	return r
}

func dedupSorted(codes []string) []string {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Metadata returns the ReverseDb's header.
func (r *ReverseDb) Metadata() Metadata { return r.meta }

// Lookup returns every code known to produce text.
func (r *ReverseDb) Lookup(text string) ([]string, bool) {
	codes, ok := r.byText[text]
	return codes, ok
}

// LookupString is a convenience that joins the codes space-separated,
// matching the on-disk value encoding spec §6.2 describes.
func (r *ReverseDb) LookupString(text string) (string, bool) {
	codes, ok := r.byText[text]
	if !ok {
		return "", false
	}
	return strings.Join(codes, " "), true
}

// Size reports the number of distinct texts indexed.
func (r *ReverseDb) Size() int { return len(r.byText) }
