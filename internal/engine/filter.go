package engine

import "github.com/username/imecore/internal/candidate"

// Filter rewrites a segment's assembled menu before it is shown (spec
// §4.J step 3c).
type Filter interface {
	Name() string
	Filter(menu []*candidate.Candidate) []*candidate.Candidate
}

// UniquifierFilter collapses candidates with identical text, keeping the
// first (highest-quality, since menus arrive sorted descending) one and
// turning later duplicates into Uniquified candidates whose Shadowed
// field points back at it — mirroring the original's "ShadowCandidate hides the duplicate but
// keeps it reachable" behavior instead of dropping it outright.
type UniquifierFilter struct{}

func (UniquifierFilter) Name() string { return "uniquifier" }

func (UniquifierFilter) Filter(menu []*candidate.Candidate) []*candidate.Candidate {
	primary := make(map[string]*candidate.Candidate, len(menu))
	out := make([]*candidate.Candidate, 0, len(menu))
	for _, c := range menu {
		if winner, ok := primary[c.Text]; ok {
			out = append(out, &candidate.Candidate{
				Kind:     candidate.Uniquified,
				Text:     c.Text,
				Start:    c.Start,
				End:      c.End,
				Quality:  c.Quality,
				Shadowed: winner,
			})
			continue
		}
		primary[c.Text] = c
		out = append(out, c)
	}
	return out
}
