package motion

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrPropertyMismatch = errors.New("from and to styles define different properties")
	ErrNegativeDuration = errors.New("duration must not be negative")
)

// TriggerKind selects what starts a reveal.
type TriggerKind int

const (
	// TriggerMount starts the reveal a fixed delay after its section mounts.
	TriggerMount TriggerKind = iota
	// TriggerScroll starts the reveal when the element crosses a viewport threshold.
	TriggerScroll
)

func (k TriggerKind) String() string {
	if k == TriggerScroll {
		return "scroll"
	}
	return "mount"
}

// TriggerPolicy governs when a reveal starts and whether it reverses.
type TriggerPolicy struct {
	Kind          TriggerKind
	Delay         float64
	Threshold     float64
	ReverseOnExit bool
}

// OnMountDelayed starts delay seconds after mount.
func OnMountDelayed(delay float64) TriggerPolicy {
	return TriggerPolicy{Kind: TriggerMount, Delay: max(0, delay)}
}

// OnScrollEnter starts when the element's top crosses threshold (a fraction of
// the viewport height from the top) and optionally reverses on the way back.
func OnScrollEnter(threshold float64, reverseOnExit bool) TriggerPolicy {
	return TriggerPolicy{Kind: TriggerScroll, Threshold: threshold, ReverseOnExit: reverseOnExit}
}

// Spec describes one reveal: animate target from one style to another over
// duration seconds. A Spec is read-only; the With methods return copies.
type Spec struct {
	target   Target
	from     Style
	to       Style
	duration float64
	ease     Ease
	trigger  TriggerPolicy
	repeat   int
	yoyo     bool
}

// NewSpec validates and builds a Spec. A nil ease means Linear.
func NewSpec(target Target, from, to Style, duration float64, ease Ease) (Spec, error) {
	if !from.SameProperties(to) {
		return Spec{}, fmt.Errorf("%w: from=%v to=%v", ErrPropertyMismatch, from.Keys(), to.Keys())
	}
	if duration < 0 {
		return Spec{}, fmt.Errorf("%w: %v", ErrNegativeDuration, duration)
	}
	if ease == nil {
		ease = Linear
	}
	return Spec{
		target:   target,
		from:     from.Clone(),
		to:       to.Clone(),
		duration: duration,
		ease:     ease,
	}, nil
}

func (s Spec) Target() Target         { return s.target }
func (s Spec) From() Style            { return s.from.Clone() }
func (s Spec) To() Style              { return s.to.Clone() }
func (s Spec) Duration() float64      { return s.duration }
func (s Spec) Trigger() TriggerPolicy { return s.trigger }
func (s Spec) Repeat() int            { return s.repeat }
func (s Spec) Yoyo() bool             { return s.yoyo }

// WithTrigger returns a copy of s with the given trigger policy.
func (s Spec) WithTrigger(p TriggerPolicy) Spec {
	s.trigger = p
	return s
}

// WithTarget returns a copy of s bound to another element.
func (s Spec) WithTarget(t Target) Spec {
	s.target = t
	return s
}

// WithRepeat returns a copy of s that plays n extra iterations; n < 0 repeats forever.
func (s Spec) WithRepeat(n int) Spec {
	s.repeat = n
	return s
}

// WithYoyo returns a copy of s whose odd iterations run backwards.
func (s Spec) WithYoyo(yoyo bool) Spec {
	s.yoyo = yoyo
	return s
}

// TotalDuration is the playhead length including repeats; +Inf for endless repeats.
func (s Spec) TotalDuration() float64 {
	if s.duration == 0 {
		return 0
	}
	if s.repeat < 0 {
		return math.Inf(1)
	}
	return s.duration * float64(s.repeat+1)
}

// Progress maps a playhead time to linear progress within the current
// iteration, accounting for repeats and yoyo.
func (s Spec) Progress(elapsed float64) float64 {
	total := s.TotalDuration()
	if s.duration <= 0 {
		if elapsed > 0 {
			return 1
		}
		return 0
	}
	if elapsed <= 0 {
		return 0
	}

	iter := math.Floor(elapsed / s.duration)
	local := (elapsed - iter*s.duration) / s.duration
	if elapsed >= total {
		iter = float64(s.repeat)
		local = 1
	}
	if s.yoyo && math.Mod(iter, 2) == 1 {
		local = 1 - local
	}
	return local
}

// StyleAt returns the interpolated style for linear progress p.
func (s Spec) StyleAt(p float64) Style {
	return Interpolate(s.from, s.to, s.ease(clamp01(p)))
}

// StyleAtTime returns the interpolated style at playhead time elapsed.
func (s Spec) StyleAtTime(elapsed float64) Style {
	return s.StyleAt(s.Progress(elapsed))
}

func clamp01(v float64) float64 {
	return min(1, max(0, v))
}
