package table

import (
	"fmt"

	"github.com/username/imecore/internal/prism"
)

const formatString = "Ime::Table/2.0"

// Metadata mirrors the mapped-file header spec §6.2 describes: a format
// tag, the checksum of the source dictionary the table was compiled
// from (gating incremental rebuilds, §4.H), and summary counts.
type Metadata struct {
	Format           string
	DictFileChecksum uint32
	NumSyllables     int
	NumEntries       int
}

// indexNode is one node of the phrase index tree: Entries are phrases
// whose code ends here, Next descends one more syllable. This collapses
// the original's three-tier HeadIndex/TrunkIndex/TailIndex union into a
// single recursive shape, since Go has no need for the mapped-file
// union trick the original used to keep the on-disk layout compact.
type indexNode struct {
	entries []Entry
	next    map[prism.SyllableId]*indexNode
}

func buildIndex(v *Vocabulary) *indexNode {
	if v == nil {
		return &indexNode{}
	}
	n := &indexNode{entries: v.Entries}
	if len(v.Next) > 0 {
		n.next = make(map[prism.SyllableId]*indexNode, len(v.Next))
		for sid, child := range v.Next {
			n.next[sid] = buildIndex(child)
		}
	}
	return n
}

// Table is the compiled phrase index over a syllabary and vocabulary.
// Persistence to *.table.bin is handled by internal/compiler, which
// stores the syllabary and the raw entries the Table was built from and
// calls Build again when it loads them.
type Table struct {
	meta      Metadata
	syllabary []string
	bySyll    map[string]prism.SyllableId
	root      *indexNode
}

// Build compiles a syllabary and vocabulary into a queryable Table.
func Build(syllabary []string, vocabulary *Vocabulary, numEntries int, dictChecksum uint32) (*Table, error) {
	if len(syllabary) == 0 {
		return nil, fmt.Errorf("table: empty syllabary")
	}
	t := &Table{
		meta: Metadata{
			Format:           formatString,
			DictFileChecksum: dictChecksum,
			NumSyllables:     len(syllabary),
			NumEntries:       numEntries,
		},
		syllabary: append([]string(nil), syllabary...),
		bySyll:    make(map[string]prism.SyllableId, len(syllabary)),
		root:      buildIndex(vocabulary),
	}
	for i, s := range syllabary {
		t.bySyll[s] = prism.SyllableId(i)
	}
	return t, nil
}

// Metadata returns the Table's header.
func (t *Table) Metadata() Metadata { return t.meta }

// GetSyllableById returns the syllable text for a syllable_id.
func (t *Table) GetSyllableById(id prism.SyllableId) (string, bool) {
	if id < 0 || int(id) >= len(t.syllabary) {
		return "", false
	}
	return t.syllabary[id], true
}

// SyllableId resolves a syllable string back to its id.
func (t *Table) SyllableId(syllable string) (prism.SyllableId, bool) {
	id, ok := t.bySyll[syllable]
	return id, ok
}

// QueryWords returns every single-syllable entry for syllable_id.
func (t *Table) QueryWords(id prism.SyllableId) *TableAccessor {
	node, ok := t.root.next[id]
	if !ok {
		return &TableAccessor{}
	}
	return &TableAccessor{entries: node.entries}
}

// QueryPhrases returns every entry whose code exactly equals code.
func (t *Table) QueryPhrases(code []prism.SyllableId) *TableAccessor {
	node := t.root
	for _, sid := range code {
		if node.next == nil {
			return &TableAccessor{}
		}
		next, ok := node.next[sid]
		if !ok {
			return &TableAccessor{}
		}
		node = next
	}
	return &TableAccessor{entries: node.entries, code: append([]prism.SyllableId(nil), code...)}
}

// TableAccessor iterates the entries found at one index node, in
// descending-weight order (spec §4.D).
type TableAccessor struct {
	entries []Entry
	code    []prism.SyllableId
	cursor  int
}

// Exhausted reports whether iteration is complete.
func (a *TableAccessor) Exhausted() bool { return a.cursor >= len(a.entries) }

// Remaining returns the number of entries left to iterate.
func (a *TableAccessor) Remaining() int { return len(a.entries) - a.cursor }

// Entry returns the current entry, or nil if exhausted.
func (a *TableAccessor) Entry() *Entry {
	if a.Exhausted() {
		return nil
	}
	return &a.entries[a.cursor]
}

// Code returns the full syllable code this accessor was queried with.
func (a *TableAccessor) Code() []prism.SyllableId { return a.code }

// Next advances to the following entry, returning false once exhausted.
func (a *TableAccessor) Next() bool {
	if a.Exhausted() {
		return false
	}
	a.cursor++
	return !a.Exhausted()
}

// TableQuery walks the index tree one syllable at a time, tracking the
// path taken so Backdate can retreat without re-walking from the root —
// the same incremental-descent shape the original's syllable-graph-driven
// table lookup relies on in dict_compiler.cc and table.cc.
type TableQuery struct {
	root []*indexNode // path[0] is always the table root
}

// NewTableQuery creates a query positioned at the table root.
func NewTableQuery(t *Table) *TableQuery {
	q := &TableQuery{}
	q.root = []*indexNode{t.root}
	return q
}

// Level reports the current depth (0 at the root).
func (q *TableQuery) Level() int { return len(q.root) - 1 }

// Access returns an accessor over the entries reachable by descending
// one more syllable from the current position, without moving it.
func (q *TableQuery) Access(syllableID prism.SyllableId) *TableAccessor {
	cur := q.root[len(q.root)-1]
	if cur.next == nil {
		return &TableAccessor{}
	}
	next, ok := cur.next[syllableID]
	if !ok {
		return &TableAccessor{}
	}
	return &TableAccessor{entries: next.entries}
}

// Advance descends one syllable, returning false if no such transition
// exists (the query position is left unchanged on failure).
func (q *TableQuery) Advance(syllableID prism.SyllableId) bool {
	cur := q.root[len(q.root)-1]
	if cur.next == nil {
		return false
	}
	next, ok := cur.next[syllableID]
	if !ok {
		return false
	}
	q.root = append(q.root, next)
	return true
}

// Backdate retreats one level, returning false if already at the root.
func (q *TableQuery) Backdate() bool {
	if len(q.root) <= 1 {
		return false
	}
	q.root = q.root[:len(q.root)-1]
	return true
}

// Reset returns the query to the table root.
func (q *TableQuery) Reset() {
	q.root = q.root[:1]
}
