// Package scroll turns scroll input into a smoothed position and fires
// edge-triggered threshold crossings for registered elements.
package scroll

import (
	"github.com/google/uuid"

	"github.com/peerzada/portfolio/internal/motion"
)

// Direction of a threshold crossing.
type Direction int

const (
	Enter Direction = iota
	Exit
)

func (d Direction) String() string {
	if d == Exit {
		return "exit"
	}
	return "enter"
}

// Policy decides which crossings a registration reports.
type Policy int

const (
	// ToggleOnce reports the first Enter and then retires.
	ToggleOnce Policy = iota
	// ToggleReversible reports every Enter and Exit.
	ToggleReversible
)

func (p Policy) String() string {
	if p == ToggleReversible {
		return "reversible"
	}
	return "once"
}

// Watchable is an element whose document position can be observed.
type Watchable interface {
	Mounted() bool
	Top() float64
}

func watching(t Watchable) bool {
	return t != nil && t.Mounted()
}

// Source is the shared, read-only scroll position registrations are
// evaluated against.
type Source interface {
	Position() float64
	ViewportHeight() float64
}

// Registration is one watched element. Unregister is idempotent.
type Registration struct {
	id        string
	obs       *Observer
	target    Watchable
	threshold float64
	policy    Policy
	callback  func(Direction)
	inside    bool
	active    bool
}

func (r *Registration) ID() string         { return r.id }
func (r *Registration) Threshold() float64 { return r.threshold }
func (r *Registration) Policy() Policy     { return r.policy }
func (r *Registration) Active() bool       { return r.active }

// Inside reports which side of the threshold the element was last seen on.
func (r *Registration) Inside() bool { return r.inside }

// Unregister stops all further callbacks, including later ones in a pass
// that is already running. It is safe on a nil registration.
func (r *Registration) Unregister() {
	if r != nil && r.active {
		r.active = false
		r.obs.dirtyRegs = true
	}
}

// Observer evaluates registrations once per frame in the observe phase, in
// registration order.
type Observer struct {
	src  Source
	hook *motion.Hook
	regs []*Registration

	last      float64
	evaluated bool
	pending   bool
	dirtyRegs bool
	updating  bool
	closed    bool
}

// NewObserver watches src on loop.
func NewObserver(loop *motion.Loop, src Source) *Observer {
	o := &Observer{src: src}
	o.hook = loop.Schedule(motion.PhaseObserve, o.tick)
	return o
}

// Observe registers target. threshold is a fraction of the viewport height
// measured from the top: 0.8 means "top 80%". The registration is first
// evaluated on the next frame.
func (o *Observer) Observe(target Watchable, threshold float64, policy Policy, cb func(Direction)) *Registration {
	r := &Registration{
		id:        uuid.NewString(),
		obs:       o,
		target:    target,
		threshold: threshold,
		policy:    policy,
		callback:  cb,
		active:    !o.closed,
	}
	if r.active {
		o.regs = append(o.regs, r)
		o.pending = true
	}
	return r
}

// Len returns the number of active registrations.
func (o *Observer) Len() int {
	n := 0
	for _, r := range o.regs {
		if r.active {
			n++
		}
	}
	return n
}

func (o *Observer) tick(float64) {
	pos := o.src.Position()
	if o.evaluated && !o.pending && pos == o.last {
		return
	}
	o.Update(pos)
}

// Update evaluates every registration against pos. Calls made from inside a
// callback are deferred to the next frame.
func (o *Observer) Update(pos float64) {
	if o.closed {
		return
	}
	if o.updating {
		o.pending = true
		return
	}
	o.updating = true
	defer func() { o.updating = false }()

	o.last = pos
	o.evaluated = true
	o.pending = false

	line := o.src.ViewportHeight()
	regs := o.regs
	for i := 0; i < len(regs); i++ {
		r := regs[i]
		if !r.active || !watching(r.target) {
			continue
		}
		inside := r.target.Top()-pos <= r.threshold*line
		if inside == r.inside {
			continue
		}
		r.inside = inside

		switch {
		case inside:
			if r.policy == ToggleOnce {
				r.Unregister()
			}
			r.fire(Enter)
		case r.policy == ToggleReversible:
			r.fire(Exit)
		}
	}
	o.compact()
}

func (r *Registration) fire(d Direction) {
	if r.callback != nil {
		r.callback(d)
	}
}

func (o *Observer) compact() {
	if !o.dirtyRegs {
		return
	}
	kept := o.regs[:0]
	for _, r := range o.regs {
		if r.active {
			kept = append(kept, r)
		}
	}
	clear(o.regs[len(kept):])
	o.regs = kept
	o.dirtyRegs = false
}

// Close unhooks the observer from the loop and drops every registration.
func (o *Observer) Close() {
	if o.closed {
		return
	}
	o.closed = true
	o.hook.Cancel()
	for _, r := range o.regs {
		r.active = false
	}
	o.regs = nil
}
