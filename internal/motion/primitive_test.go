package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

func fadeUp(t *testing.T, target Target, duration float64) Spec {
	t.Helper()
	spec, err := NewSpec(target,
		Style{"opacity": 0, "y": 50, "blur": 10},
		Style{"opacity": 1, "y": 0, "blur": 0},
		duration, Power2Out)
	require.NoError(t, err)
	return spec
}

func TestNewSpecValidation(t *testing.T) {
	el := NewElement("card", nil)

	_, err := NewSpec(el, Style{"opacity": 0}, Style{"opacity": 1, "y": 0}, 1, nil)
	require.ErrorIs(t, err, ErrPropertyMismatch)

	_, err = NewSpec(el, Style{"opacity": 0}, Style{"opacity": 1}, -1, nil)
	require.ErrorIs(t, err, ErrNegativeDuration)
}

func TestSpecIsNotAliasedToCallerStyles(t *testing.T) {
	el := NewElement("card", nil)
	from, to := Style{"opacity": 0}, Style{"opacity": 1}
	spec, err := NewSpec(el, from, to, 1, nil)
	require.NoError(t, err)

	from["opacity"] = 0.5
	spec.To()["opacity"] = 3
	assert.Equal(t, 0.0, spec.From()["opacity"])
	assert.Equal(t, 1.0, spec.To()["opacity"])
}

func TestPrimitivePlayReachesTo(t *testing.T) {
	loop := NewLoop()
	el := NewElement("title", nil)
	spec := fadeUp(t, el, 1.5)
	p := NewPrimitive(loop, spec)

	completed := 0
	p.OnComplete(func() { completed++ })
	p.Play()
	assert.True(t, el.Style().ApproxEqual(spec.From(), 1e-9), "from is rendered on play")

	loop.Run(1.5, frame)

	assert.True(t, el.Style().ApproxEqual(spec.To(), 1e-9), "got %v", el.Style())
	assert.Equal(t, 1, completed)
	assert.False(t, p.Playing())
	assert.Nil(t, loop.Owner(el))
	assert.Equal(t, 0, loop.Pending())
}

func TestPrimitivePlayIsIdempotentWhilePlaying(t *testing.T) {
	loop := NewLoop()
	el := NewElement("title", nil)
	p := NewPrimitive(loop, fadeUp(t, el, 1))

	p.Play()
	loop.Run(0.5, frame)
	before := p.Elapsed()
	p.Play()

	assert.InDelta(t, before, p.Elapsed(), 1e-9)
	assert.Equal(t, 1, loop.Pending())
}

func TestSecondPrimitiveOnSameTargetWins(t *testing.T) {
	loop := NewLoop()
	el := NewElement("cta", nil)
	first := NewPrimitive(loop, fadeUp(t, el, 1))
	second := NewPrimitive(loop, fadeUp(t, el, 1))

	interrupted := false
	first.OnInterrupt(func() { interrupted = true })

	first.Play()
	loop.Run(0.3, frame)
	second.Play()

	for i := 0; i < 60; i++ {
		active := 0
		for _, p := range []*Primitive{first, second} {
			if p.Playing() {
				active++
			}
		}
		require.LessOrEqual(t, active, 1, "frame %d", i)
		loop.Advance(frame)
	}

	assert.True(t, interrupted)
	assert.False(t, first.Playing())
	assert.True(t, el.Style().ApproxEqual(second.Spec().To(), 1e-9))
}

func TestPrimitiveCancelLeavesStyle(t *testing.T) {
	loop := NewLoop()
	el := NewElement("card", nil)
	p := NewPrimitive(loop, fadeUp(t, el, 1))

	p.Play()
	loop.Run(0.5, frame)
	mid := el.Style()
	p.Cancel()
	loop.Run(1, frame)

	assert.Equal(t, mid, el.Style())
	assert.False(t, p.Playing())
	assert.Nil(t, loop.Owner(el))
}

func TestPrimitiveReverseFromMidpoint(t *testing.T) {
	loop := NewLoop()
	el := NewElement("card", nil)
	spec := fadeUp(t, el, 1)
	p := NewPrimitive(loop, spec)

	reversed := 0
	p.OnReverseComplete(func() { reversed++ })

	p.Play()
	loop.Run(0.4, frame)
	p.Reverse()
	assert.True(t, p.Reversing())

	// Only the 0.4s already played needs to be unwound.
	loop.Run(0.4, frame)

	assert.Equal(t, 1, reversed)
	assert.True(t, el.Style().ApproxEqual(spec.From(), 1e-9), "got %v", el.Style())
}

func TestPrimitiveMissingTargetIsNoop(t *testing.T) {
	loop := NewLoop()
	spec := fadeUp(t, nil, 1)
	p := NewPrimitive(loop, spec)

	assert.NotPanics(t, func() {
		p.Play()
		p.Reverse()
		p.Cancel()
		p.Restart()
	})
	assert.Equal(t, 0, loop.Pending())

	el := NewElement("gone", nil)
	el.Unmount()
	q := NewPrimitive(loop, fadeUp(t, el, 1))
	q.Play()
	assert.Equal(t, 0, el.Writes())
}

func TestPrimitiveStopsWhenTargetUnmounts(t *testing.T) {
	loop := NewLoop()
	el := NewElement("card", nil)
	p := NewPrimitive(loop, fadeUp(t, el, 1))
	interrupted := false
	p.OnInterrupt(func() { interrupted = true })

	p.Play()
	loop.Run(0.2, frame)
	writes := el.Writes()
	el.Unmount()
	loop.Run(0.5, frame)

	assert.Equal(t, writes, el.Writes(), "no mutation after unmount")
	assert.True(t, interrupted)
	assert.Equal(t, 0, loop.Pending())
}

func TestPrimitiveZeroDuration(t *testing.T) {
	loop := NewLoop()
	el := NewElement("modal", nil)
	spec, err := NewSpec(el, Style{"opacity": 0}, Style{"opacity": 1}, 0, nil)
	require.NoError(t, err)
	p := NewPrimitive(loop, spec)

	done := 0
	p.OnComplete(func() { done++ })
	p.Play()
	assert.Equal(t, 1.0, el.Style()["opacity"])
	assert.Equal(t, 1, done)

	p.Play()
	assert.Equal(t, 1, done, "already at the end")

	p.Reverse()
	assert.Equal(t, 0.0, el.Style()["opacity"])
}

func TestPrimitiveRestart(t *testing.T) {
	loop := NewLoop()
	el := NewElement("card", nil)
	p := NewPrimitive(loop, fadeUp(t, el, 1))

	p.Play()
	loop.Run(1, frame)
	p.Restart()

	assert.True(t, p.Playing())
	assert.InDelta(t, 0, p.Elapsed(), 1e-9)
	assert.Equal(t, 0.0, el.Style()["opacity"])
}

func TestPrimitiveYoyoRepeat(t *testing.T) {
	loop := NewLoop()
	el := NewElement("submit", nil)
	spec, err := NewSpec(el, Style{"scale": 1}, Style{"scale": 0.95}, 0.1, Power2Out)
	require.NoError(t, err)
	p := NewPrimitive(loop, spec.WithRepeat(1).WithYoyo(true))

	done := false
	p.OnComplete(func() { done = true })
	p.Play()

	loop.Run(0.1, 0.01)
	assert.InDelta(t, 0.95, el.Style()["scale"], 1e-6)
	assert.False(t, done)

	loop.Run(0.1, 0.01)
	assert.InDelta(t, 1, el.Style()["scale"], 1e-6)
	assert.True(t, done)
}

func TestPrimitiveEndlessLoopKeepsRunning(t *testing.T) {
	loop := NewLoop()
	orb := NewElement("glow-orb", nil)
	spec, err := NewSpec(orb, Style{"x": 0, "y": 0}, Style{"x": 20, "y": -30}, 4, Power1InOut)
	require.NoError(t, err)
	p := NewPrimitive(loop, spec.WithRepeat(-1).WithYoyo(true))

	p.Play()
	loop.Run(60, 0.5)
	assert.True(t, p.Playing())

	p.Cancel()
	assert.Equal(t, 0, loop.Pending())
	assert.Nil(t, loop.Owner(orb))
}
