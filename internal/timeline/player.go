package timeline

import "github.com/peerzada/portfolio/internal/motion"

type direction int

const (
	still direction = iota
	forward
	backward
)

// Option configures a Timeline.
type Option func(*Timeline)

// WithDelay holds playback for delay seconds after Play.
func WithDelay(delay float64) Option {
	return func(t *Timeline) { t.delay = max(0, delay) }
}

// Timeline plays resolved entries on a loop. It renders its children itself
// and is the single writer of every target it animates while playing.
type Timeline struct {
	loop     *motion.Loop
	entries  []Entry
	slots    []Slot
	first    []bool
	targets  []motion.Target
	duration float64
	delay    float64

	time    float64
	dir     direction
	hook    *motion.Hook
	yielded map[motion.Target]bool

	onComplete        func()
	onReverseComplete func()
	onInterrupt       func()
}

// New resolves entries once and returns an idle timeline.
func New(loop *motion.Loop, entries []Entry, opts ...Option) (*Timeline, error) {
	slots, err := Resolve(entries)
	if err != nil {
		return nil, err
	}

	t := &Timeline{
		loop:    loop,
		entries: append([]Entry(nil), entries...),
		slots:   slots,
		first:   make([]bool, len(entries)),
		yielded: make(map[motion.Target]bool),
	}
	seen := make(map[motion.Target]bool)
	for i, e := range entries {
		t.duration = max(t.duration, slots[i].End())
		target := e.Spec.Target()
		if target == nil || seen[target] {
			continue
		}
		seen[target] = true
		t.first[i] = true
		t.targets = append(t.targets, target)
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Slots returns the resolved placement of every entry.
func (t *Timeline) Slots() []Slot { return append([]Slot(nil), t.slots...) }

// StartTimes returns each entry's resolved start time.
func (t *Timeline) StartTimes() []float64 {
	out := make([]float64, len(t.slots))
	for i, s := range t.slots {
		out[i] = s.Start
	}
	return out
}

// Duration is the time at which the latest-ending entry finishes.
func (t *Timeline) Duration() float64 { return t.duration }

// Delay is the hold applied before playback.
func (t *Timeline) Delay() float64 { return t.delay }

// Time returns the playhead; negative while a delay is pending.
func (t *Timeline) Time() float64 { return t.time }

func (t *Timeline) Playing() bool   { return t.dir != still }
func (t *Timeline) Reversing() bool { return t.dir == backward }

func (t *Timeline) OnComplete(fn func())        { t.onComplete = fn }
func (t *Timeline) OnReverseComplete(fn func()) { t.onReverseComplete = fn }

// OnInterrupt sets the callback fired when playback stops because every
// target was claimed by another writer or unmounted.
func (t *Timeline) OnInterrupt(fn func()) { t.onInterrupt = fn }

// Play restarts the timeline from zero. Re-triggering a running timeline
// cancels the current run first, so runs never stack.
func (t *Timeline) Play() {
	t.stop()
	clear(t.yielded)
	t.time = -t.delay
	if !t.claim() {
		return
	}
	t.dir = forward
	t.render()

	if t.delay == 0 && t.duration == 0 {
		t.finish()
		return
	}
	t.schedule()
}

// Restart is Play; it exists so timelines and primitives share a vocabulary.
func (t *Timeline) Restart() { t.Play() }

// Resume plays forward from the current playhead. An idle timeline at zero,
// or one that already finished, starts over like Play.
func (t *Timeline) Resume() {
	if t.dir == forward {
		return
	}
	if t.time <= 0 || t.time >= t.duration {
		t.Play()
		return
	}
	t.stop()
	clear(t.yielded)
	if !t.claim() {
		return
	}
	t.dir = forward
	t.schedule()
}

// Reverse plays from the current time back to zero.
func (t *Timeline) Reverse() {
	if t.dir == backward {
		return
	}
	if t.time <= 0 {
		if t.dir == forward {
			t.stop()
			t.time = 0
			t.fire(t.onReverseComplete)
		}
		return
	}
	clear(t.yielded)
	if !t.claim() {
		return
	}
	t.dir = backward
	t.schedule()
}

// Cancel stops where it is. Elements keep their current styles.
func (t *Timeline) Cancel() { t.stop() }

// Yield implements motion.Writer. Only the claimed target drops out; the
// timeline keeps animating the rest.
func (t *Timeline) Yield(target motion.Target) {
	t.yielded[target] = true
	if t.dir != still && t.exhausted() {
		t.stop()
		t.fire(t.onInterrupt)
	}
}

func (t *Timeline) claim() bool {
	claimed := false
	for _, target := range t.targets {
		if t.yielded[target] || !motion.Alive(target) {
			continue
		}
		t.loop.Claim(target, t)
		claimed = true
	}
	return claimed
}

func (t *Timeline) exhausted() bool {
	for _, target := range t.targets {
		if !t.yielded[target] && motion.Alive(target) {
			return false
		}
	}
	return true
}

func (t *Timeline) schedule() {
	if t.hook == nil {
		t.hook = t.loop.Schedule(motion.PhaseAnimate, t.tick)
	}
}

func (t *Timeline) tick(dt float64) {
	if t.exhausted() {
		t.stop()
		t.fire(t.onInterrupt)
		return
	}

	switch t.dir {
	case forward:
		t.time += dt
		if t.time >= t.duration-motion.TimeEpsilon {
			t.time = t.duration
		}
		if t.time < 0 {
			return
		}
		t.render()
		if t.time >= t.duration {
			t.finish()
		}
	case backward:
		t.time -= dt
		if t.time <= motion.TimeEpsilon {
			t.time = 0
		}
		t.render()
		if t.time <= 0 {
			t.finish()
		}
	}
}

// render draws every entry at the current playhead in entry order, so a
// later entry on a shared target wins. Entries that have not started yet
// show their from style only if they are the target's first entry.
func (t *Timeline) render() {
	now := max(t.time, 0)
	for i, e := range t.entries {
		target := e.Spec.Target()
		if !motion.Alive(target) || t.yielded[target] {
			continue
		}
		slot := t.slots[i]
		local := now - slot.Start
		switch {
		case local < 0 || (local == 0 && slot.Duration > 0):
			if t.first[i] {
				target.Apply(e.Spec.StyleAt(0))
			}
		case slot.Duration == 0:
			target.Apply(e.Spec.StyleAt(1))
		default:
			target.Apply(e.Spec.StyleAtTime(min(local, slot.Duration)))
		}
	}
}

func (t *Timeline) finish() {
	d := t.dir
	t.stop()
	if d == forward {
		t.fire(t.onComplete)
	} else {
		t.fire(t.onReverseComplete)
	}
}

func (t *Timeline) stop() {
	t.hook.Cancel()
	t.hook = nil
	t.dir = still
	for _, target := range t.targets {
		t.loop.Release(target, t)
	}
}

func (t *Timeline) fire(fn func()) {
	if fn != nil {
		fn()
	}
}
