package timeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerzada/portfolio/internal/motion"
)

const frame = 1.0 / 60

var approx = cmpopts.EquateApprox(0, 1e-9)

func fade(t *testing.T, target motion.Target, duration float64) motion.Spec {
	t.Helper()
	spec, err := motion.NewSpec(target,
		motion.Style{"opacity": 0, "y": 50},
		motion.Style{"opacity": 1, "y": 0},
		duration, motion.Power2Out)
	require.NoError(t, err)
	return spec
}

func heroEntries(t *testing.T) ([]Entry, []*motion.Element) {
	t.Helper()
	els := []*motion.Element{
		motion.NewElement("title", nil),
		motion.NewElement("subtitle", nil),
		motion.NewElement("cta", nil),
	}
	return []Entry{
		{Spec: fade(t, els[0], 1.0), Offset: After(0)},
		{Spec: fade(t, els[1], 0.8), Offset: After(-0.5)},
		{Spec: fade(t, els[2], 0.6), Offset: After(-0.3)},
	}, els
}

func TestResolveRelativeOffsets(t *testing.T) {
	entries, _ := heroEntries(t)
	tl, err := New(motion.NewLoop(), entries)
	require.NoError(t, err)

	if diff := cmp.Diff([]float64{0, 0.5, 1.0}, tl.StartTimes(), approx); diff != "" {
		t.Errorf("start times mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 1.6, tl.Duration(), 1e-9)
}

func TestResolveClampsAndAbsolute(t *testing.T) {
	el := motion.NewElement("x", nil)
	slots, err := Resolve([]Entry{
		{Spec: fade(t, el, 1), Offset: After(-5)},
		{Spec: fade(t, el, 1), Offset: At(3)},
		{Spec: fade(t, el, 1), Offset: After(0.5)},
	})
	require.NoError(t, err)

	want := []Slot{{0, 1}, {3, 1}, {4.5, 1}}
	if diff := cmp.Diff(want, slots, approx); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveRejectsEmptyAndEndless(t *testing.T) {
	_, err := Resolve(nil)
	assert.ErrorIs(t, err, ErrEmpty)

	orb := fade(t, motion.NewElement("orb", nil), 4).WithRepeat(-1)
	_, err = Resolve([]Entry{{Spec: orb}})
	assert.ErrorIs(t, err, ErrEndless)
}

func TestStagger(t *testing.T) {
	var specs []motion.Spec
	for i := 0; i < 4; i++ {
		specs = append(specs, fade(t, motion.NewElement("card", nil), 0.8))
	}
	slots, err := Resolve(Stagger(specs, 0.2, After(0)))
	require.NoError(t, err)

	var starts []float64
	for _, s := range slots {
		starts = append(starts, s.Start)
	}
	if diff := cmp.Diff([]float64{0, 0.2, 0.4, 0.6}, starts, approx); diff != "" {
		t.Errorf("stagger mismatch (-want +got):\n%s", diff)
	}
}

func TestPlayRendersFromThenTo(t *testing.T) {
	loop := motion.NewLoop()
	entries, els := heroEntries(t)
	tl, err := New(loop, entries)
	require.NoError(t, err)

	completed := 0
	tl.OnComplete(func() { completed++ })
	tl.Play()

	for _, el := range els {
		assert.Equal(t, 0.0, el.Style()["opacity"], el.Name())
	}

	loop.Run(0.5, frame)
	assert.Greater(t, els[0].Style()["opacity"], 0.0)
	assert.Equal(t, 0.0, els[2].Style()["opacity"], "cta waits for its slot")

	loop.Run(1.1, frame)
	for _, el := range els {
		assert.True(t, el.Style().ApproxEqual(motion.Style{"opacity": 1, "y": 0}, 1e-9), el.Name())
	}
	assert.Equal(t, 1, completed)
	assert.False(t, tl.Playing())
	assert.Equal(t, 0, loop.Pending())
}

func TestPlayWhilePlayingRestarts(t *testing.T) {
	loop := motion.NewLoop()
	entries, els := heroEntries(t)
	tl, err := New(loop, entries)
	require.NoError(t, err)

	tl.Play()
	loop.Run(0.7, frame)
	tl.Play()

	assert.Equal(t, 0.0, tl.Time())
	assert.Equal(t, 0.0, els[0].Style()["opacity"])
	assert.Equal(t, 1, loop.Pending(), "one run at a time")

	completed := 0
	tl.OnComplete(func() { completed++ })
	loop.Run(1.6, frame)
	assert.Equal(t, 1, completed)
}

func TestReverseReturnsToFrom(t *testing.T) {
	loop := motion.NewLoop()
	entries, els := heroEntries(t)
	tl, err := New(loop, entries)
	require.NoError(t, err)

	reversed := 0
	tl.OnReverseComplete(func() { reversed++ })

	tl.Play()
	loop.Run(1.6, frame)
	tl.Reverse()
	assert.True(t, tl.Reversing())
	loop.Run(1.6, frame)

	assert.Equal(t, 1, reversed)
	for _, el := range els {
		assert.True(t, el.Style().ApproxEqual(motion.Style{"opacity": 0, "y": 50}, 1e-9), el.Name())
	}
}

func TestResumeContinuesFromPlayhead(t *testing.T) {
	loop := motion.NewLoop()
	entries, _ := heroEntries(t)
	tl, err := New(loop, entries)
	require.NoError(t, err)

	completed := 0
	tl.OnComplete(func() { completed++ })

	tl.Play()
	loop.Run(1.6, frame)
	tl.Reverse()
	loop.Run(0.5, frame)
	mid := tl.Time()
	require.InDelta(t, 1.1, mid, 1e-6)

	tl.Resume()
	assert.False(t, tl.Reversing())
	assert.InDelta(t, mid, tl.Time(), 1e-9)
	loop.Run(0.5, frame)
	assert.Equal(t, 2, completed)
}

func TestDelayHoldsPlayback(t *testing.T) {
	loop := motion.NewLoop()
	entries, els := heroEntries(t)
	tl, err := New(loop, entries, WithDelay(4))
	require.NoError(t, err)

	tl.Play()
	loop.Run(3.9, frame)
	assert.Equal(t, 0.0, els[0].Style()["opacity"])
	assert.Less(t, tl.Time(), 0.0)

	loop.Run(0.1+1.6, frame)
	assert.Equal(t, 1.0, els[2].Style()["opacity"])
}

func TestReverseDuringDelay(t *testing.T) {
	loop := motion.NewLoop()
	entries, _ := heroEntries(t)
	tl, err := New(loop, entries, WithDelay(1))
	require.NoError(t, err)

	reversed := false
	tl.OnReverseComplete(func() { reversed = true })
	tl.Play()
	loop.Run(0.5, frame)
	tl.Reverse()

	assert.True(t, reversed)
	assert.False(t, tl.Playing())
}

func TestYieldDropsOnlyClaimedTarget(t *testing.T) {
	loop := motion.NewLoop()
	entries, els := heroEntries(t)
	tl, err := New(loop, entries)
	require.NoError(t, err)

	tl.Play()
	loop.Run(0.2, frame)

	hover, err := motion.NewHover(loop, els[2], motion.Style{"opacity": 0, "y": 50}, motion.Style{"opacity": 0.5, "y": 50}, 0.3, nil)
	require.NoError(t, err)
	hover.Enter()
	assert.NotSame(t, tl, loop.Owner(els[2]))

	loop.Run(1.4, frame)

	assert.False(t, tl.Playing())
	assert.Equal(t, 1.0, els[0].Style()["opacity"])
	assert.InDelta(t, 0.5, els[2].Style()["opacity"], 1e-9, "hover owns the cta")
}

func TestAllTargetsUnmountedInterrupts(t *testing.T) {
	loop := motion.NewLoop()
	entries, els := heroEntries(t)
	tl, err := New(loop, entries)
	require.NoError(t, err)

	interrupted := false
	tl.OnInterrupt(func() { interrupted = true })
	tl.Play()
	loop.Run(0.2, frame)

	writes := els[0].Writes()
	for _, el := range els {
		el.Unmount()
	}
	loop.Run(0.5, frame)

	assert.True(t, interrupted)
	assert.Equal(t, writes, els[0].Writes())
	assert.Equal(t, 0, loop.Pending())
}
