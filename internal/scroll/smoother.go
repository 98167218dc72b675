package scroll

import (
	"math"
	"slices"

	"github.com/peerzada/portfolio/internal/motion"
)

const (
	// DefaultDamping is the per-frame lerp factor toward the raw position.
	DefaultDamping = 0.1
	// snapDistance ends the lerp once the gap is visually nil.
	snapDistance = 0.01
)

// SmootherOption configures a Smoother.
type SmootherOption func(*Smoother)

// WithDamping sets the per-frame lerp factor, clamped to (0, 1].
func WithDamping(f float64) SmootherOption {
	return func(s *Smoother) {
		if f > 0 {
			s.damping = min(f, 1)
		}
	}
}

// WithLimit sets the maximum scroll position.
func WithLimit(limit float64) SmootherOption {
	return func(s *Smoother) { s.limit = max(0, limit) }
}

// WithSmoothing enables or disables damping at construction.
func WithSmoothing(enabled bool) SmootherOption {
	return func(s *Smoother) { s.smoothing = enabled }
}

// Smoother turns raw scroll input into a damped position. Only the smoothed
// value is ever published; it is updated in the scroll phase of each frame,
// ahead of observers and animations.
type Smoother struct {
	loop *motion.Loop
	hook *motion.Hook

	raw       float64
	smoothed  float64
	published float64
	viewport  float64
	limit     float64
	damping   float64
	smoothing bool
	announce  bool
	closed    bool

	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(float64)
}

// NewSmoother attaches a smoother to loop. The default limit is unbounded.
func NewSmoother(loop *motion.Loop, viewportHeight float64, opts ...SmootherOption) *Smoother {
	s := &Smoother{
		loop:      loop,
		viewport:  viewportHeight,
		limit:     math.Inf(1),
		damping:   DefaultDamping,
		smoothing: true,
		announce:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hook = loop.Schedule(motion.PhaseScroll, s.tick)
	return s
}

// Position returns the smoothed position.
func (s *Smoother) Position() float64 { return s.smoothed }

// Target returns the raw position the smoother is heading to.
func (s *Smoother) Target() float64 { return s.raw }

func (s *Smoother) ViewportHeight() float64 { return s.viewport }
func (s *Smoother) Limit() float64          { return s.limit }
func (s *Smoother) Closed() bool            { return s.closed }

// SetLimit changes the maximum position, e.g. after content reflows.
func (s *Smoother) SetLimit(limit float64) {
	s.limit = max(0, limit)
	s.raw = s.clamp(s.raw)
}

// SetSmoothing turns damping on or off. With smoothing off every update is
// applied on the next frame without intermediate positions.
func (s *Smoother) SetSmoothing(enabled bool) { s.smoothing = enabled }

// Scroll moves the raw position by delta.
func (s *Smoother) Scroll(delta float64) {
	if s.closed {
		return
	}
	s.raw = s.clamp(s.raw + delta)
}

// ScrollTo sets the raw position. With immediate the smoothed position jumps
// too, so no position between the old and new one is ever published.
func (s *Smoother) ScrollTo(pos float64, immediate bool) {
	if s.closed {
		return
	}
	s.raw = s.clamp(pos)
	if immediate {
		s.smoothed = s.raw
	}
}

// Subscribe registers fn for smoothed position updates and returns a function
// that removes it.
func (s *Smoother) Subscribe(fn func(pos float64)) (cancel func()) {
	if s.closed {
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	return func() {
		s.listeners = slices.DeleteFunc(s.listeners, func(l listener) bool { return l.id == id })
	}
}

// Close stops the per-frame update and drops every listener. Later calls on
// the smoother are no-ops.
func (s *Smoother) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.hook.Cancel()
	s.hook = nil
	s.listeners = nil
}

func (s *Smoother) tick(float64) {
	if s.smoothing {
		s.smoothed += (s.raw - s.smoothed) * s.damping
		if math.Abs(s.raw-s.smoothed) < snapDistance {
			s.smoothed = s.raw
		}
	} else {
		s.smoothed = s.raw
	}

	if !s.announce && s.smoothed == s.published {
		return
	}
	s.announce = false
	s.published = s.smoothed
	for _, l := range slices.Clone(s.listeners) {
		l.fn(s.smoothed)
	}
}

func (s *Smoother) clamp(pos float64) float64 {
	return min(max(pos, 0), s.limit)
}
