package composition

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/imecore/internal/candidate"
)

func TestPushPopDeleteInput(t *testing.T) {
	c := New()
	require.True(t, c.PushInput("nihao"))
	require.Equal(t, "nihao", c.Input())
	require.Equal(t, 5, c.CaretPos())

	c.SetCaretPos(2)
	require.True(t, c.PopInput(1))
	require.Equal(t, "nhao", c.Input())
	require.Equal(t, 1, c.CaretPos())

	require.True(t, c.DeleteInput(1))
	require.Equal(t, "nao", c.Input())
}

func TestSelectAndConfirm(t *testing.T) {
	c := New()
	c.PushInput("a")
	seg := &Segment{Start: 0, End: 1, Status: Guess, Menu: []*candidate.Candidate{
		{Text: "A"}, {Text: "a"},
	}}
	*c.Composition() = Composition{seg}

	require.False(t, c.Select(5))
	require.True(t, c.Select(1))
	require.Equal(t, Selected, seg.Status)
	require.Equal(t, "a", seg.SelectedCandidate().Text)

	require.True(t, c.ConfirmCurrentSelection())
	require.Equal(t, Confirmed, seg.Status)
}

func TestCommitNotifiesAndClears(t *testing.T) {
	c := New()
	c.PushInput("hi")
	notified := false
	c.Commit.Subscribe(func(ctx *Context) ControlFlow {
		notified = true
		require.Equal(t, "hi", ctx.GetCommitText())
		return Continue
	})
	require.True(t, c.Commit())
	require.True(t, notified)
	require.False(t, c.IsComposing())
}

func TestNotifierStopsOnBreak(t *testing.T) {
	var n Notifier[int]
	var calls []int
	n.Subscribe(func(v int) ControlFlow {
		calls = append(calls, v)
		return Break
	})
	n.Subscribe(func(v int) ControlFlow {
		calls = append(calls, -v)
		return Continue
	})
	n.Notify(7)
	require.Equal(t, []int{7}, calls)
}

func TestClearTransientOptionsKeepsLocal(t *testing.T) {
	c := New()
	c.SetOption("ascii_mode", true)
	c.SetOption("_local_only", true)
	c.ClearTransientOptions()
	require.False(t, c.GetOption("ascii_mode"))
	require.True(t, c.GetOption("_local_only"))
}

func TestCompositionTrimDropsEmptyTrailingSegment(t *testing.T) {
	comp := Composition{
		{Start: 0, End: 2},
		{Start: 2, End: 2},
	}
	trimmed := comp.Trim()
	require.Len(t, trimmed, 1)
}
