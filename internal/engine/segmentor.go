package engine

import (
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/prism"
	"github.com/username/imecore/internal/syllabify"
)

// Segmentor extends the segmentation built for the active input prefix
// (spec §4.J step 3b). It is handed the full SyllableGraph (rebuilt once
// per Compose) and the segment currently being extended, and returns the
// new end position, or ok=false if it has nothing to add.
type Segmentor interface {
	Name() string
	Segment(graph *syllabify.SyllableGraph, seg *composition.Segment) (end int, ok bool)
}

// TableSegmentor extends a segment to every vertex the SyllableGraph
// reaches from its start, preferring the farthest one a path supports —
// matching "each Segmentor may extend the current segment's end" (spec
// §4.J) against the graph built from a schema's Prism.
type TableSegmentor struct {
	graphBuilder func(input string) *syllabify.SyllableGraph
}

// NewTableSegmentor builds a TableSegmentor that syllabifies input
// against p using syl.
func NewTableSegmentor(syl *syllabify.Syllabifier, p *prism.Prism) *TableSegmentor {
	return &TableSegmentor{
		graphBuilder: func(input string) *syllabify.SyllableGraph {
			return syl.BuildSyllableGraph(input, p)
		},
	}
}

func (s *TableSegmentor) Name() string { return "table_segmentor" }

// Segment reports the farthest vertex reachable from seg.Start by
// following any path of edges in graph, not just a single hop — a
// multi-syllable DictEntry (e.g. a two-syllable Phrase) only becomes a
// candidate once its whole code is inside one segment's span.
func (s *TableSegmentor) Segment(graph *syllabify.SyllableGraph, seg *composition.Segment) (int, bool) {
	farthest := -1
	visited := map[int]bool{seg.Start: true}
	queue := []int{seg.Start}
	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]
		for end := range graph.Edges[pos] {
			if end > farthest {
				farthest = end
			}
			if !visited[end] {
				visited[end] = true
				queue = append(queue, end)
			}
		}
	}
	if farthest <= seg.Start {
		return 0, false
	}
	return farthest, true
}

// BuildGraph syllabifies input, the entry point Engine.Compose uses
// before running Segmentors.
func (s *TableSegmentor) BuildGraph(input string) *syllabify.SyllableGraph {
	return s.graphBuilder(input)
}

// FallbackSegmentor advances a single byte at a time so untranslatable
// input (e.g. stray punctuation) still makes segmentation progress,
// matching the original's "one segment past the caret" guarantee when no
// table segmentor claims a span.
type FallbackSegmentor struct{}

func (FallbackSegmentor) Name() string { return "fallback_segmentor" }

func (FallbackSegmentor) Segment(graph *syllabify.SyllableGraph, seg *composition.Segment) (int, bool) {
	if seg.Start >= graph.InputLength {
		return 0, false
	}
	if seg.End > seg.Start {
		return 0, false
	}
	return seg.Start + 1, true
}
