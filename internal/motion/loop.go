package motion

// Phase orders the work done inside one frame. Phases run in declaration
// order: the smoothed scroll position is published first, then observer
// callbacks fire, then animations advance. Trigger-then-react causality
// within a frame depends on this order.
type Phase int

const (
	PhaseScroll Phase = iota
	PhaseObserve
	PhaseAnimate

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseScroll:
		return "scroll"
	case PhaseObserve:
		return "observe"
	case PhaseAnimate:
		return "animate"
	}
	return "unknown"
}

// FrameFunc is called once per frame with the frame's delta in seconds.
type FrameFunc func(dt float64)

// Hook is a scheduled per-frame callback. Cancelling it stops further calls;
// the slot is reclaimed at the end of the current phase.
type Hook struct {
	fn     FrameFunc
	active bool
}

// Cancel stops the hook. It is safe to call on a nil or already cancelled hook.
func (h *Hook) Cancel() {
	if h == nil {
		return
	}
	h.active = false
}

// Active reports whether the hook is still scheduled.
func (h *Hook) Active() bool {
	return h != nil && h.active
}

// Writer is anything that mutates a Target's style over several frames.
// Yield is called when another writer claims the target.
type Writer interface {
	Yield(t Target)
}

// Loop is a single-threaded repaint cycle. Nothing in it is safe for
// concurrent use; drive it from one goroutine (see Runner).
type Loop struct {
	now    float64
	frame  uint64
	phases [phaseCount][]*Hook
	owners map[Target]Writer
}

// NewLoop returns an idle loop at time zero.
func NewLoop() *Loop {
	return &Loop{owners: make(map[Target]Writer)}
}

// Now returns the accumulated frame time in seconds.
func (l *Loop) Now() float64 { return l.now }

// Frame returns the number of frames advanced so far.
func (l *Loop) Frame() uint64 { return l.frame }

// Schedule registers fn to run every frame in the given phase. A hook added
// while its own phase is running first runs on the next frame; one added for
// a later phase runs in the current frame.
func (l *Loop) Schedule(phase Phase, fn FrameFunc) *Hook {
	h := &Hook{fn: fn, active: true}
	l.phases[phase] = append(l.phases[phase], h)
	return h
}

// Advance moves the clock forward by dt seconds and runs one frame.
func (l *Loop) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	l.now += dt
	l.frame++

	for p := range l.phases {
		hooks := l.phases[p]
		n := len(hooks)
		for i := 0; i < n; i++ {
			if h := hooks[i]; h.active {
				h.fn(dt)
			}
		}

		kept := l.phases[p][:0]
		for _, h := range l.phases[p] {
			if h.active {
				kept = append(kept, h)
			}
		}
		clear(l.phases[p][len(kept):])
		l.phases[p] = kept
	}
}

// Run advances the loop frame by frame at a fixed step until total seconds
// have elapsed. The last frame is shortened so the clock lands on total.
func (l *Loop) Run(total, step float64) {
	if step <= 0 {
		return
	}
	for total > TimeEpsilon {
		dt := min(step, total)
		l.Advance(dt)
		total -= dt
	}
}

// Pending returns the number of active hooks across all phases.
func (l *Loop) Pending() int {
	n := 0
	for p := range l.phases {
		for _, h := range l.phases[p] {
			if h.active {
				n++
			}
		}
	}
	return n
}

// Claim makes w the only writer of t. The previous writer, if any, is told to
// yield before w takes over.
func (l *Loop) Claim(t Target, w Writer) {
	if t == nil {
		return
	}
	prev, ok := l.owners[t]
	if ok && prev == w {
		return
	}
	delete(l.owners, t)
	if ok {
		prev.Yield(t)
	}
	l.owners[t] = w
}

// Release drops w's claim on t. Claims held by other writers are untouched.
func (l *Loop) Release(t Target, w Writer) {
	if t == nil {
		return
	}
	if l.owners[t] == w {
		delete(l.owners, t)
	}
}

// Owner returns the writer currently animating t, or nil.
func (l *Loop) Owner(t Target) Writer {
	if t == nil {
		return nil
	}
	return l.owners[t]
}
