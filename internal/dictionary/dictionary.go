// Package dictionary implements spec §4.F: combining a syllable graph
// with a compiled Table to produce, for every reachable end position,
// the phrases that position's code resolves to.
package dictionary

import (
	"sort"

	"github.com/username/imecore/internal/syllabify"
	"github.com/username/imecore/internal/table"
)

// DictEntry is one table hit, with the accumulated spelling credibility
// of the path that reached it folded into its weight.
type DictEntry struct {
	Text   string
	Weight float64
}

// DictEntryCollector maps end_pos to the entries reachable there, kept
// in descending-weight order, matching "homophones at the same code
// are kept in sorted order by weight".
type DictEntryCollector map[int][]DictEntry

// Dictionary issues TableQuery.Advance calls following each edge of a
// SyllableGraph, emitting entries at every accepting level.
type Dictionary struct {
	table *table.Table
}

// New wraps a compiled Table for graph-driven lookup.
func New(t *table.Table) *Dictionary {
	return &Dictionary{table: t}
}

// Lookup walks graph from startPos, returning every phrase reachable by
// following a path of edges, each entry's weight including the
// cumulative spelling credibility of the path that reached it.
func (d *Dictionary) Lookup(graph *syllabify.SyllableGraph, startPos int) DictEntryCollector {
	collector := make(DictEntryCollector)
	q := table.NewTableQuery(d.table)
	d.walk(q, graph, startPos, 0, collector)
	for end := range collector {
		sort.SliceStable(collector[end], func(i, j int) bool {
			return collector[end][i].Weight > collector[end][j].Weight
		})
	}
	return collector
}

func (d *Dictionary) walk(q *table.TableQuery, graph *syllabify.SyllableGraph, pos int, credibility float64, collector DictEntryCollector) {
	edges, ok := graph.Edges[pos]
	if !ok {
		return
	}
	for end, spellings := range edges {
		for sid, props := range spellings {
			pathCredibility := credibility + props.Credibility

			for acc := q.Access(sid); !acc.Exhausted(); acc.Next() {
				e := acc.Entry()
				collector[end] = append(collector[end], DictEntry{
					Text:   e.Text,
					Weight: e.Weight + pathCredibility,
				})
			}

			if q.Advance(sid) {
				d.walk(q, graph, end, pathCredibility, collector)
				q.Backdate()
			}
		}
	}
}
