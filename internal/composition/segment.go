// Package composition implements the Context/Segmentation/Composition
// state machine described in spec §4.I: the live editing buffer a
// keystroke mutates, plus the in-process notifier broadcasters other
// components subscribe to.
package composition

import "github.com/username/imecore/internal/candidate"

// Status is a segment's progress through the translate pipeline.
type Status int

const (
	Void Status = iota
	Guess
	Selected
	Confirmed
)

// Segment is one span of input, its candidate menu, and which candidate
// (if any) has been picked.
type Segment struct {
	Start         int
	End           int
	Status        Status
	Menu          []*candidate.Candidate
	SelectedIndex int
	Prompt        string
}

// HasMenu reports whether the segment has any candidates to select from.
func (s *Segment) HasMenu() bool { return len(s.Menu) > 0 }

// SelectedCandidate returns the candidate the segment is currently
// resolved to, or nil if none is selected yet.
func (s *Segment) SelectedCandidate() *candidate.Candidate {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Menu) {
		return nil
	}
	return s.Menu[s.SelectedIndex]
}

// Text returns the segment's display text: the selected candidate's
// text if any, else the raw input slice it spans.
func (s *Segment) Text(rawInput string) string {
	if c := s.SelectedCandidate(); c != nil {
		return c.Text
	}
	if s.Start >= 0 && s.End <= len(rawInput) && s.Start <= s.End {
		return rawInput[s.Start:s.End]
	}
	return ""
}

// Composition is an ordered sequence of segments spanning (a prefix of)
// the input.
type Composition []*Segment

// Empty reports whether the composition has no segments.
func (c Composition) Empty() bool { return len(c) == 0 }

// Back returns the last segment, or nil if the composition is empty.
func (c Composition) Back() *Segment {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}

// Trim drops trailing segments with no extent (Start == End), the way
// the segmentation pass retires an empty current segment before
// advancing.
func (c Composition) Trim() Composition {
	for len(c) > 0 && c[len(c)-1].Start == c[len(c)-1].End {
		c = c[:len(c)-1]
	}
	return c
}

// HasFinishedSegmentation reports whether every segment already has a
// status of at least Selected — i.e. nothing is left in Guess/Void that
// a translator still needs to fill in.
func (c Composition) HasFinishedSegmentation() bool {
	for _, seg := range c {
		if seg.Status < Selected {
			return false
		}
	}
	return true
}

// GetCommitText concatenates every segment's resolved text against
// rawInput, followed by any raw input past the last segment's end — the
// role Context.GetCommitText plays before a commit.
func (c Composition) GetCommitText(rawInput string) string {
	var out []byte
	end := 0
	for _, seg := range c {
		out = append(out, seg.Text(rawInput)...)
		end = seg.End
	}
	if end < len(rawInput) {
		out = append(out, rawInput[end:]...)
	}
	return string(out)
}
