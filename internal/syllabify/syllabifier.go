package syllabify

import (
	"container/heap"
	"strings"

	"github.com/username/imecore/internal/prism"
)

const expandSearchLimit = 512

// Corrector proposes additional (lower-credibility) spellings for a
// position, e.g. fuzzy-matching common typos; installed edges carry
// prism.Correction type. Implementations are schema-supplied; nil means
// no correction hypotheses are added.
type Corrector interface {
	// Corrections returns (spelling_id, credibility-offset) pairs for
	// input[pos:], interpreted the same way Prism.CommonPrefixSearch
	// results are.
	Corrections(input string, pos int) []prism.Match
}

// Syllabifier builds a SyllableGraph over an input string given a Prism.
type Syllabifier struct {
	Delimiters       string
	EnableCompletion bool
	Corrector        Corrector
}

// BuildSyllableGraph implements spec §4.G: a priority-queue BFS over
// input positions that prefers normal spellings over corrections or
// completions, followed by a backward pruning pass that drops anything
// not on a path to the farthest reached position, and an optional
// completion-edge expansion past that point.
func (s *Syllabifier) BuildSyllableGraph(input string, p *prism.Prism) *SyllableGraph {
	graph := &SyllableGraph{
		Vertices: make(map[int]VertexType),
		Edges:    make(map[int]map[int]SpellingMap),
	}
	if input == "" {
		return graph
	}

	farthest := 0
	pq := &vertexHeap{{pos: 0, typ: prism.Normal}}
	heap.Init(pq)

	for pq.Len() > 0 {
		v := heap.Pop(pq).(vertex)
		pos := v.pos

		if cur, ok := graph.Vertices[pos]; !ok || v.typ < cur {
			graph.Vertices[pos] = v.typ
		}

		matches := p.CommonPrefixSearch(input[pos:])
		if s.Corrector != nil {
			matches = append(matches, s.Corrector.Corrections(input, pos)...)
		}
		if len(matches) == 0 {
			continue
		}
		endVertices := graph.Edges[pos]
		if endVertices == nil {
			endVertices = make(map[int]SpellingMap)
			graph.Edges[pos] = endVertices
		}
		for _, m := range matches {
			if m.Length == 0 {
				continue
			}
			endPos := pos + m.Length
			for endPos < len(input) && strings.IndexByte(s.Delimiters, input[endPos]) >= 0 {
				endPos++
			}
			if endPos > farthest {
				farthest = endPos
			}
			spellings := endVertices[endPos]
			if spellings == nil {
				spellings = make(SpellingMap)
				endVertices[endPos] = spellings
			}
			for _, desc := range p.QuerySpelling(m.SpellingId) {
				props := desc.Properties
				if existing, ok := spellings[desc.SyllableId]; !ok || props.Type < existing.Type {
					spellings[desc.SyllableId] = props
				}
			}
			edgeType := bestType(spellings)
			heap.Push(pq, vertex{pos: endPos, typ: edgeType})
		}
	}

	prune(graph, farthest)

	if s.EnableCompletion && farthest < len(input) {
		s.expand(graph, input, p, farthest)
	} else {
		graph.InterpretedLength = farthest
	}
	graph.InputLength = len(input)
	return graph
}

func bestType(spellings SpellingMap) VertexType {
	best := prism.Invalid
	for _, props := range spellings {
		if props.Type < best {
			best = props.Type
		}
	}
	return best
}

// prune drops vertices and edges that cannot reach farthest, and, among
// the survivors, edges whose best spelling type is worse than the
// vertex's own best type — matching the backward pass in the original's
// BuildSyllableGraph.
func prune(graph *SyllableGraph, farthest int) {
	good := map[int]bool{farthest: true}
	lastType, ok := graph.Vertices[farthest]
	if !ok {
		lastType = prism.Invalid
	}

	for i := farthest - 1; i >= 0; i-- {
		if _, ok := graph.Vertices[i]; !ok {
			continue
		}
		endVertices := graph.Edges[i]
		for end, spellings := range endVertices {
			if !good[end] {
				delete(endVertices, end)
				continue
			}
			for sid, props := range spellings {
				if props.Type > lastType {
					delete(spellings, sid)
				}
			}
			if len(spellings) == 0 {
				delete(endVertices, end)
			}
		}
		if len(endVertices) == 0 {
			delete(graph.Edges, i)
		}
		if graph.Vertices[i] > lastType || len(endVertices) == 0 {
			delete(graph.Vertices, i)
			delete(graph.Edges, i)
			continue
		}
		good[i] = true
		if graph.Vertices[i] < lastType {
			lastType = graph.Vertices[i]
		}
	}
}

// expand adds completion edges from farthest to the end of input using
// Prism.ExpandSearch, the way spec §4.G step 6 describes.
func (s *Syllabifier) expand(graph *SyllableGraph, input string, p *prism.Prism, farthest int) {
	codeLength := len(input) - farthest
	keys := p.ExpandSearch(input[farthest:], expandSearchLimit)
	if len(keys) == 0 {
		graph.InterpretedLength = farthest
		return
	}
	endVertices := graph.Edges[farthest]
	if endVertices == nil {
		endVertices = make(map[int]SpellingMap)
		graph.Edges[farthest] = endVertices
	}
	endPos := farthest
	for _, m := range keys {
		if m.Length < codeLength {
			continue
		}
		endPos = len(input)
		spellings := endVertices[endPos]
		if spellings == nil {
			spellings = make(SpellingMap)
			endVertices[endPos] = spellings
		}
		for _, desc := range p.QuerySpelling(m.SpellingId) {
			spellings[desc.SyllableId] = prism.SpellingProperties{
				Type:        prism.Completion,
				Credibility: desc.Properties.Credibility - 0.5,
			}
		}
	}
	graph.InterpretedLength = endPos
}
