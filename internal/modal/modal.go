// Package modal runs the open/close lifecycle of overlays so that mounting,
// entrance and exit transitions never race each other.
package modal

import "go.uber.org/zap"

// State is a modal's lifecycle state.
type State int

const (
	Closed State = iota
	Opening
	Open
	Closing
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	}
	return "unknown"
}

// Overlay is the element that is displayed while the modal is not Closed.
type Overlay interface {
	Show()
	Hide()
	Visible() bool
}

// Animation is an entrance or exit transition. Both motion.Primitive and
// timeline.Timeline satisfy it.
type Animation interface {
	Restart()
	Cancel()
	Playing() bool
	OnComplete(func())
	OnInterrupt(func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithBackdrop makes the controller share exclusive access to b.
func WithBackdrop(b *Backdrop) Option {
	return func(c *Controller) { c.backdrop = b }
}

// WithLogger sets the logger used for state transitions.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// OnChange registers a hook called after every state transition.
func OnChange(fn func(from, to State)) Option {
	return func(c *Controller) { c.onChange = append(c.onChange, fn) }
}

// Controller owns one modal's state.
//
//	Closed --Open()--> Opening --enter done--> Open --Close()--> Closing --exit done--> Closed
type Controller struct {
	name     string
	overlay  Overlay
	enter    Animation
	exit     Animation
	state    State
	backdrop *Backdrop
	logger   *zap.Logger
	onChange []func(from, to State)

	closeRequested bool
}

// New wires enter and exit to overlay. The overlay is hidden until Open.
func New(name string, overlay Overlay, enter, exit Animation, opts ...Option) *Controller {
	c := &Controller{
		name:    name,
		overlay: overlay,
		enter:   enter,
		exit:    exit,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// An interrupted transition still settles the state machine; otherwise
	// the modal would be stuck in Opening or Closing.
	enter.OnComplete(c.entered)
	enter.OnInterrupt(c.entered)
	exit.OnComplete(c.exited)
	exit.OnInterrupt(c.exited)

	overlay.Hide()
	return c
}

func (c *Controller) Name() string { return c.name }
func (c *Controller) State() State { return c.state }
func (c *Controller) IsOpen() bool { return c.state == Open }
func (c *Controller) Closed() bool { return c.state == Closed }

// Open shows the overlay and starts the entrance. It does nothing unless the
// modal is Closed. If another modal holds the backdrop, this one is queued
// and the other is asked to close.
func (c *Controller) Open() {
	if c.state != Closed {
		return
	}
	if c.backdrop != nil && !c.backdrop.acquire(c) {
		c.logger.Debug("modal queued", zap.String("modal", c.name))
		return
	}
	c.overlay.Show()
	c.set(Opening)
	c.enter.Restart()
	// A transition with nothing left to animate never calls back.
	if !c.enter.Playing() {
		c.entered()
	}
}

// Close starts the exit. It does nothing unless the modal is Open.
func (c *Controller) Close() {
	if c.state != Open {
		return
	}
	c.set(Closing)
	c.exit.Restart()
	if !c.exit.Playing() {
		c.exited()
	}
}

// Teardown cancels both transitions, hides the overlay and gives up the
// backdrop without waiting for an exit animation.
func (c *Controller) Teardown() {
	c.enter.Cancel()
	c.exit.Cancel()
	c.closeRequested = false
	c.overlay.Hide()
	if c.state != Closed {
		c.set(Closed)
	}
	if c.backdrop != nil {
		c.backdrop.drop(c)
	}
}

// requestClose is used by the backdrop when another modal wants the screen.
func (c *Controller) requestClose() {
	switch c.state {
	case Open:
		c.Close()
	case Opening:
		c.closeRequested = true
	}
}

func (c *Controller) entered() {
	if c.state != Opening {
		return
	}
	c.set(Open)
	if c.closeRequested {
		c.closeRequested = false
		c.Close()
	}
}

func (c *Controller) exited() {
	if c.state != Closing {
		return
	}
	c.overlay.Hide()
	c.set(Closed)
	if c.backdrop != nil {
		c.backdrop.release(c)
	}
}

func (c *Controller) set(s State) {
	from := c.state
	c.state = s
	c.logger.Debug("modal state",
		zap.String("modal", c.name),
		zap.Stringer("from", from),
		zap.Stringer("to", s))
	for _, fn := range c.onChange {
		fn(from, s)
	}
}
