package choreo

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/peerzada/portfolio/internal/modal"
	"github.com/peerzada/portfolio/internal/motion"
	"github.com/peerzada/portfolio/internal/scroll"
	"github.com/peerzada/portfolio/internal/timeline"
)

var (
	ErrTornDown       = errors.New("context torn down")
	ErrMounted        = errors.New("section already mounted")
	ErrUnknownReveal  = errors.New("unknown reveal")
	ErrUnknownEffect  = errors.New("unknown effect")
	ErrUnknownElement = errors.New("unknown element")
)

// Event kinds.
const (
	EventPlay        = "play"
	EventReverse     = "reverse"
	EventComplete    = "complete"
	EventReversed    = "reversed"
	EventInterrupted = "interrupted"
	EventHidden      = "hidden"
	EventModal       = "modal"
	EventNavigate    = "navigate"
	EventHover       = "hover"
	EventEffect      = "effect"
)

// Event is one observable step of the choreography.
type Event struct {
	Time    float64 `json:"time" yaml:"time"`
	Section string  `json:"section" yaml:"section"`
	Name    string  `json:"name" yaml:"name"`
	Kind    string  `json:"kind" yaml:"kind"`
	Detail  string  `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Handles are the element handles a section animates, by element name.
// Group elements carry one handle per item, in stagger order.
type Handles map[string][]*motion.Element

// Options configures a Context.
type Options struct {
	Viewport float64
	// Limit bounds the scroll position; zero leaves it unbounded.
	Limit     float64
	Damping   float64
	Immediate bool
	Logger    *zap.Logger
	OnEvent   func(Event)
}

// Context owns one frame loop and everything scheduled on it: the scroll
// smoother, the observer reading it, the shared modal backdrop and the
// mounted sections. Nothing in it is global; tearing a context down
// releases all of it.
type Context struct {
	loop     *motion.Loop
	smoother *scroll.Smoother
	observer *scroll.Observer
	backdrop *modal.Backdrop
	logger   *zap.Logger
	onEvent  func(Event)

	sections []*Section
	modals   []*modal.Controller
	closed   bool
}

// NewContext builds an idle context.
func NewContext(opts Options) *Context {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	viewport := opts.Viewport
	if viewport <= 0 {
		viewport = defaultViewport
	}

	loop := motion.NewLoop()
	sopts := []scroll.SmootherOption{scroll.WithSmoothing(!opts.Immediate)}
	if opts.Damping > 0 {
		sopts = append(sopts, scroll.WithDamping(opts.Damping))
	}
	if opts.Limit > 0 {
		sopts = append(sopts, scroll.WithLimit(opts.Limit))
	}
	smoother := scroll.NewSmoother(loop, viewport, sopts...)

	return &Context{
		loop:     loop,
		smoother: smoother,
		observer: scroll.NewObserver(loop, smoother),
		backdrop: modal.NewBackdrop(),
		logger:   logger,
		onEvent:  opts.OnEvent,
	}
}

func (c *Context) Loop() *motion.Loop         { return c.loop }
func (c *Context) Smoother() *scroll.Smoother { return c.smoother }
func (c *Context) Observer() *scroll.Observer { return c.observer }
func (c *Context) Backdrop() *modal.Backdrop  { return c.backdrop }
func (c *Context) Closed() bool               { return c.closed }

// Advance runs one frame.
func (c *Context) Advance(dt float64) { c.loop.Advance(dt) }

// Section returns a mounted section.
func (c *Context) Section(id string) (*Section, bool) {
	for _, s := range c.sections {
		if s.id == id {
			return s, true
		}
	}
	return nil, false
}

// Sections returns the mounted sections in mount order.
func (c *Context) Sections() []*Section { return slices.Clone(c.sections) }

// Reveal looks up a "section/reveal" reference among mounted sections.
func (c *Context) Reveal(ref string) (*Reveal, error) {
	section, name, _ := cutRef(ref)
	s, ok := c.Section(section)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReveal, ref)
	}
	r, ok := s.Reveal(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownReveal, ref)
	}
	return r, nil
}

// Mount attaches a section. Elements are placed relative to the section top
// and mounted; mount-triggered reveals start right away, scroll-triggered
// ones register with the observer and are evaluated on the next frame.
func (c *Context) Mount(cfg SectionConfig, handles Handles) (*Section, error) {
	if c.closed {
		return nil, ErrTornDown
	}
	if _, ok := c.Section(cfg.ID); ok {
		return nil, fmt.Errorf("%w: %s", ErrMounted, cfg.ID)
	}

	s := &Section{
		id:      cfg.ID,
		cfg:     cfg,
		ctx:     c,
		handles: handles,
		hovers:  make(map[string][]*motion.Hover),
		effects: make(map[string][]*motion.Primitive),
		mounted: true,
	}
	for name, els := range handles {
		for _, el := range els {
			el.Place(cfg.Top+cfg.Layout[name], 0)
			el.Mount()
			el.Show()
		}
	}
	if err := s.build(); err != nil {
		s.release()
		return nil, fmt.Errorf("mount %s: %w", cfg.ID, err)
	}
	c.sections = append(c.sections, s)
	s.start()

	c.logger.Debug("section mounted",
		zap.String("section", cfg.ID),
		zap.Int("reveals", len(s.reveals)),
		zap.Int("registrations", c.observer.Len()))
	return s, nil
}

// MountModal builds a modal controller whose entrance and exit are the
// configured timelines over handles, sharing the context's backdrop. The
// overlay is shown before the entrance plays and hidden after the exit.
func (c *Context) MountModal(cfg ModalConfig, overlay modal.Overlay, handles Handles) (*modal.Controller, error) {
	if c.closed {
		return nil, ErrTornDown
	}
	for _, els := range handles {
		for _, el := range els {
			el.Mount()
		}
	}
	lookup := func(st StepConfig) []motion.Target { return targets(handles[st.Element]) }

	enter, err := c.timeline(cfg.Enter, lookup)
	if err != nil {
		return nil, fmt.Errorf("modal %s enter: %w", cfg.ID, err)
	}
	exit, err := c.timeline(cfg.Exit, lookup)
	if err != nil {
		return nil, fmt.Errorf("modal %s exit: %w", cfg.ID, err)
	}

	id := cfg.ID
	m := modal.New(id, overlay, enter, exit,
		modal.WithBackdrop(c.backdrop),
		modal.WithLogger(c.logger),
		modal.OnChange(func(_, to modal.State) {
			c.emit(Event{Section: "modal", Name: id, Kind: EventModal, Detail: to.String()})
		}))
	c.modals = append(c.modals, m)
	return m, nil
}

func (c *Context) timeline(steps []StepConfig, lookup func(StepConfig) []motion.Target, opts ...timeline.Option) (*timeline.Timeline, error) {
	comp, err := compile(steps, lookup)
	if err != nil {
		return nil, err
	}
	if len(comp.entries) == 0 {
		return nil, timeline.ErrEmpty
	}
	return timeline.New(c.loop, comp.entries, opts...)
}

// Navigate jumps to a section through r.
func (c *Context) Navigate(r scroll.Resolver, section string) error {
	pos, err := scroll.Jump(c.smoother, r, section)
	if err != nil {
		return err
	}
	c.emit(Event{Section: section, Name: "scroll", Kind: EventNavigate, Detail: fmt.Sprintf("%.0f", pos)})
	return nil
}

// Teardown unmounts every section, tears down every modal and detaches the
// smoother and observer. It is safe to call more than once.
func (c *Context) Teardown() {
	if c.closed {
		return
	}
	for _, s := range slices.Clone(c.sections) {
		s.Unmount()
	}
	for _, m := range c.modals {
		m.Teardown()
	}
	c.modals = nil
	c.observer.Close()
	c.smoother.Close()
	c.closed = true
	c.logger.Debug("choreography torn down", zap.Int("hooks", c.loop.Pending()))
}

func (c *Context) emit(e Event) {
	if c.closed {
		return
	}
	e.Time = c.loop.Now()
	c.logger.Debug("choreography event",
		zap.Float64("t", e.Time),
		zap.String("section", e.Section),
		zap.String("name", e.Name),
		zap.String("kind", e.Kind),
		zap.String("detail", e.Detail))
	if c.onEvent != nil {
		c.onEvent(e)
	}
}

func (c *Context) drop(s *Section) {
	c.sections = slices.DeleteFunc(c.sections, func(o *Section) bool { return o == s })
}

// after runs fn once delay seconds of loop time have passed.
func after(loop *motion.Loop, delay float64, fn func()) *motion.Hook {
	if delay <= 0 {
		fn()
		return nil
	}
	left := delay
	var h *motion.Hook
	h = loop.Schedule(motion.PhaseAnimate, func(dt float64) {
		left -= dt
		if left > motion.TimeEpsilon {
			return
		}
		h.Cancel()
		fn()
	})
	return h
}

func targets(els []*motion.Element) []motion.Target {
	out := make([]motion.Target, len(els))
	for i, el := range els {
		out[i] = el
	}
	return out
}
