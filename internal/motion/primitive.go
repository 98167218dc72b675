package motion

import "math"

// TimeEpsilon absorbs float drift from summing frame deltas, so a run of
// frames totalling a duration lands exactly on it.
const TimeEpsilon = 1e-9

type direction int

const (
	still direction = iota
	forward
	backward
)

// Primitive plays one Spec on the loop. It is the only writer of its target
// while it plays; a later writer on the same target makes it yield.
type Primitive struct {
	loop    *Loop
	spec    Spec
	elapsed float64
	dir     direction
	hook    *Hook

	onComplete        func()
	onReverseComplete func()
	onInterrupt       func()
}

// NewPrimitive binds spec to loop. Nothing is rendered until Play.
func NewPrimitive(loop *Loop, spec Spec) *Primitive {
	return &Primitive{loop: loop, spec: spec}
}

// Spec returns the primitive's spec.
func (p *Primitive) Spec() Spec { return p.spec }

// OnComplete sets the callback fired when forward playback reaches the end.
func (p *Primitive) OnComplete(fn func()) { p.onComplete = fn }

// OnReverseComplete sets the callback fired when reverse playback reaches the start.
func (p *Primitive) OnReverseComplete(fn func()) { p.onReverseComplete = fn }

// OnInterrupt sets the callback fired when playback stops because another
// writer claimed the target or the target unmounted.
func (p *Primitive) OnInterrupt(fn func()) { p.onInterrupt = fn }

// Playing reports whether the primitive is advancing in either direction.
func (p *Primitive) Playing() bool { return p.dir != still }

// Reversing reports whether the primitive is playing backwards.
func (p *Primitive) Reversing() bool { return p.dir == backward }

// Progress returns linear progress within the current iteration.
func (p *Primitive) Progress() float64 { return p.spec.Progress(p.elapsed) }

// Elapsed returns the playhead position in seconds.
func (p *Primitive) Elapsed() float64 { return p.elapsed }

// Play starts or resumes forward playback from the current position.
func (p *Primitive) Play() {
	if !Alive(p.spec.target) || p.dir == forward {
		return
	}
	if p.atEnd() {
		return
	}
	p.start(forward)
}

// Reverse plays from the current position back to the from style.
func (p *Primitive) Reverse() {
	if !Alive(p.spec.target) || p.dir == backward {
		return
	}
	if p.elapsed <= 0 {
		return
	}
	if p.spec.repeat < 0 {
		period := p.spec.duration
		if p.spec.yoyo {
			period *= 2
		}
		p.elapsed = math.Mod(p.elapsed, period)
	}
	p.start(backward)
}

// Restart rewinds to the start and plays forward.
func (p *Primitive) Restart() {
	p.stop()
	p.elapsed = 0
	p.Play()
}

// Cancel stops playback where it is. The element keeps its current style.
func (p *Primitive) Cancel() {
	p.stop()
}

// Yield implements Writer.
func (p *Primitive) Yield(Target) {
	if p.dir == still {
		return
	}
	p.stop()
	if p.onInterrupt != nil {
		p.onInterrupt()
	}
}

func (p *Primitive) atEnd() bool {
	total := p.spec.TotalDuration()
	if total == 0 {
		return p.elapsed > 0
	}
	return p.elapsed >= total
}

func (p *Primitive) start(d direction) {
	p.loop.Claim(p.spec.target, p)
	p.dir = d

	if p.spec.TotalDuration() == 0 {
		p.elapsed = 0
		if d == forward {
			p.elapsed = 1
		}
		p.render()
		p.finish()
		return
	}

	p.render()
	if p.hook == nil {
		p.hook = p.loop.Schedule(PhaseAnimate, p.tick)
	}
}

func (p *Primitive) tick(dt float64) {
	if !Alive(p.spec.target) {
		p.Yield(p.spec.target)
		return
	}

	total := p.spec.TotalDuration()
	switch p.dir {
	case forward:
		p.elapsed += dt
		if p.elapsed >= total-TimeEpsilon {
			p.elapsed = total
		}
		p.render()
		if p.elapsed >= total {
			p.finish()
		}
	case backward:
		p.elapsed -= dt
		if p.elapsed <= TimeEpsilon {
			p.elapsed = 0
		}
		p.render()
		if p.elapsed <= 0 {
			p.finish()
		}
	}
}

func (p *Primitive) render() {
	p.spec.target.Apply(p.spec.StyleAtTime(p.elapsed))
}

func (p *Primitive) finish() {
	d := p.dir
	p.stop()
	switch d {
	case forward:
		if p.onComplete != nil {
			p.onComplete()
		}
	case backward:
		if p.onReverseComplete != nil {
			p.onReverseComplete()
		}
	}
}

func (p *Primitive) stop() {
	p.halt()
	p.loop.Release(p.spec.target, p)
}

func (p *Primitive) halt() {
	p.hook.Cancel()
	p.hook = nil
	p.dir = still
}
