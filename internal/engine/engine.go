package engine

import (
	"sort"

	"github.com/username/imecore/internal/candidate"
	"github.com/username/imecore/internal/composition"
	"github.com/username/imecore/internal/logging"
	"github.com/username/imecore/internal/syllabify"
)

var log = logging.For("engine")

// Engine wires the Processor → Segmentor → Translator → Filter →
// Formatter pipeline (spec §4.J) around one session's Context.
type Engine struct {
	ctx *composition.Context

	processors  []Processor
	tableSeg    *TableSegmentor
	segmentors  []Segmentor
	translators []Translator
	filters     []Filter
	formatters  []Formatter

	graph          *syllabify.SyllableGraph
	pendingCommit  string
	hasPendingText bool

	userDict *UserDictTranslator
}

// New assembles an Engine. tableSeg supplies the SyllableGraph Compose
// rebuilds from; segmentors (which may include tableSeg itself) extend
// each segment's span against that graph.
func New(ctx *composition.Context, processors []Processor, tableSeg *TableSegmentor, segmentors []Segmentor, translators []Translator, filters []Filter, formatters []Formatter) *Engine {
	e := &Engine{
		ctx:         ctx,
		processors:  processors,
		tableSeg:    tableSeg,
		segmentors:  segmentors,
		translators: translators,
		filters:     filters,
		formatters:  formatters,
	}
	for _, tr := range translators {
		if ud, ok := tr.(*UserDictTranslator); ok {
			e.userDict = ud
			break
		}
	}
	ctx.Commit.Subscribe(func(c *composition.Context) composition.ControlFlow {
		e.learnFromCommit(c)
		e.pendingCommit = c.GetCommitText()
		e.hasPendingText = true
		return composition.Continue
	})
	ctx.Select.Subscribe(func(c *composition.Context) composition.ControlFlow {
		if c.GetOption("_auto_commit") && c.Composition().HasFinishedSegmentation() {
			c.Commit()
		} else {
			e.Compose()
		}
		return composition.Continue
	})
	return e
}

// Context returns the engine's live editing state.
func (e *Engine) Context() *composition.Context { return e.ctx }

// ProcessKey runs event through the configured Processors in order (spec
// §4.J step 1). The first Accepted/Rejected stops dispatch; a Rejected
// key, or one every Processor returns Noop for, is unhandled and the
// unhandled_key notifier fires.
func (e *Engine) ProcessKey(event KeyEvent) ProcessResult {
	for _, p := range e.processors {
		switch p.Process(e.ctx, event) {
		case Accepted:
			e.Compose()
			return e.drainResult(true)
		case Rejected:
			e.Compose()
			e.ctx.UnhandledKey.Notify(composition.UnhandledKeyEvent{
				KeySym:    event.KeySym,
				Modifiers: event.Modifiers,
			})
			return e.drainResult(false)
		case Noop:
			continue
		}
	}
	e.ctx.UnhandledKey.Notify(composition.UnhandledKeyEvent{
		KeySym:    event.KeySym,
		Modifiers: event.Modifiers,
	})
	return e.drainResult(false)
}

func (e *Engine) drainResult(handled bool) ProcessResult {
	result := ProcessResult{Handled: handled, Preedit: e.ctx.GetPreedit()}
	if e.hasPendingText {
		result.CommitText = e.pendingCommit
		e.pendingCommit = ""
		e.hasPendingText = false
		result.Preedit = ""
	}
	return result
}

// Compose rebuilds the segmentation from the confirmed prefix onward and
// translates every not-yet-guessed segment (spec §4.J steps 3a–3c).
func (e *Engine) Compose() {
	input := e.ctx.Input()
	graph := e.tableSeg.BuildGraph(input)
	e.graph = graph

	comp := e.confirmedPrefix()
	comp = e.extendSegmentation(comp, graph, input)
	e.ctx.SetComposition(comp)
	e.translateSegments(comp, input, graph)
}

// confirmedPrefix drops every trailing segment that isn't Confirmed,
// keeping the settled part of the composition (spec §4.J step 3a).
func (e *Engine) confirmedPrefix() composition.Composition {
	comp := *e.ctx.Composition()
	i := len(comp)
	for i > 0 && comp[i-1].Status != composition.Confirmed {
		i--
	}
	out := make(composition.Composition, i)
	copy(out, comp[:i])
	return out
}

// extendSegmentation appends segments from the end of comp to the input
// boundary (or one segment past the caret, whichever comes first),
// running every Segmentor to a fixed point per segment.
func (e *Engine) extendSegmentation(comp composition.Composition, graph *syllabify.SyllableGraph, input string) composition.Composition {
	pos := 0
	if back := comp.Back(); back != nil {
		pos = back.End
	}
	caret := e.ctx.CaretPos()

	for pos < len(input) {
		seg := &composition.Segment{Start: pos, End: pos}
		for changed := true; changed; {
			changed = false
			for _, sgr := range e.segmentors {
				if end, ok := sgr.Segment(graph, seg); ok && end > seg.End {
					seg.End = end
					changed = true
				}
			}
		}
		if seg.End <= seg.Start {
			break
		}
		comp = append(comp, seg)
		pos = seg.End
		if pos > caret {
			break
		}
	}
	return comp
}

// translateSegments builds a Menu for every segment whose status hasn't
// reached Guess yet (spec §4.J step 3c).
func (e *Engine) translateSegments(comp composition.Composition, input string, graph *syllabify.SyllableGraph) {
	for _, seg := range comp {
		if seg.Status >= composition.Guess {
			continue
		}
		var menu []*candidate.Candidate
		for _, tr := range e.translators {
			menu = append(menu, candidate.Collect(tr.Translate(input, segmentSpan{seg.Start, seg.End}, graph))...)
		}
		sort.SliceStable(menu, func(i, j int) bool { return menu[i].Quality > menu[j].Quality })
		for _, f := range e.filters {
			menu = f.Filter(menu)
		}
		seg.Menu = menu
		seg.SelectedIndex = 0
		seg.Status = composition.Guess
	}
}

// learnFromCommit records each selected candidate's (code, text) pair
// into the user dictionary at +1 (spec §4.E testable property 6 /
// scenario E), run just before the commit text is read so the
// composition is still intact.
func (e *Engine) learnFromCommit(c *composition.Context) {
	if e.userDict == nil {
		return
	}
	input := c.Input()
	for _, seg := range *c.Composition() {
		cand := seg.SelectedCandidate()
		if cand == nil || seg.Start < 0 || seg.End > len(input) || seg.Start >= seg.End {
			continue
		}
		code := input[seg.Start:seg.End]
		if err := e.userDict.dict.Update(code, cand.Text, 1); err != nil {
			log.Warn().Err(err).Str("code", code).Str("text", cand.Text).Msg("record commit in user dictionary")
		}
	}
}

// Select resolves the active segment's menu to index, matching step 4's
// "engine advances or commits per option _auto_commit" via the Select
// notifier registered in New.
func (e *Engine) Select(index int) bool {
	return e.ctx.Select(index)
}

// Format runs text through every configured Formatter in order, the
// final step of a Commit (spec §4.J).
func (e *Engine) Format(text string) string {
	for _, f := range e.formatters {
		text = f.Format(text)
	}
	return text
}
