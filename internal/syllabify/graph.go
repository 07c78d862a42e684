// Package syllabify builds the segmentation graph a composition is
// translated against: a priority-queue breadth-first walk of the input
// through a Prism, described in spec §4.G.
package syllabify

import (
	"github.com/username/imecore/internal/prism"
)

// VertexType mirrors prism.SpellingType: the best (lowest) quality of
// spelling known to reach a vertex, used to prefer normal spellings over
// corrections or completions when the same position is reached twice.
type VertexType = prism.SpellingType

// SpellingMap maps a syllable to the properties of the edge it realizes.
type SpellingMap map[prism.SyllableId]prism.SpellingProperties

// SyllableGraph is the output of BuildSyllableGraph: a DAG over byte
// positions of the input, where an edge (start, end) carries every
// (syllable_id, properties) pair reachable by spellings consuming
// exactly input[start:end].
type SyllableGraph struct {
	InputLength       int
	InterpretedLength int
	Vertices          map[int]VertexType
	Edges             map[int]map[int]SpellingMap // start -> end -> spellings
}

// vertex is one entry of the priority queue: position and spelling
// quality, ordered by (pos, type) ascending so normal spellings at an
// earlier position are always preferred.
type vertex struct {
	pos int
	typ VertexType
}

type vertexHeap []vertex

func (h vertexHeap) Len() int { return len(h) }
func (h vertexHeap) Less(i, j int) bool {
	if h[i].pos != h[j].pos {
		return h[i].pos < h[j].pos
	}
	return h[i].typ < h[j].typ
}
func (h vertexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x any)        { *h = append(*h, x.(vertex)) }
func (h *vertexHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}
