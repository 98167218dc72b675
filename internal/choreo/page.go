package choreo

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/peerzada/portfolio/internal/modal"
	"github.com/peerzada/portfolio/internal/motion"
	"github.com/peerzada/portfolio/internal/scroll"
)

var ErrUnknownModal = errors.New("unknown modal")

// PageOptions configures NewPage.
type PageOptions struct {
	Counts    Counts
	Logger    *zap.Logger
	OnEvent   func(Event)
	Immediate bool
}

// Page is the assembled portfolio: every configured section mounted on one
// context with its own element handles, plus the configured modals.
type Page struct {
	cfg     *Config
	ctx     *Context
	anchors scroll.Anchors
	logger  *zap.Logger

	elements map[string]Handles
	modals   map[string]*modal.Controller
	roots    map[string]*motion.Element
	selected map[string]string
	menuOpen bool
}

// NewPage builds handles for every element the choreography names and
// mounts all sections in document order.
func NewPage(cfg *Config, opts PageOptions) (*Page, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := NewContext(Options{
		Viewport:  cfg.Viewport,
		Limit:     cfg.Extent() - cfg.Viewport,
		Damping:   cfg.Damping,
		Immediate: opts.Immediate,
		Logger:    logger,
		OnEvent:   opts.OnEvent,
	})

	p := &Page{
		cfg:      cfg,
		ctx:      ctx,
		anchors:  scroll.Anchors{},
		logger:   logger,
		elements: make(map[string]Handles),
		modals:   make(map[string]*modal.Controller),
		roots:    make(map[string]*motion.Element),
		selected: make(map[string]string),
	}

	for _, sc := range cfg.Sections {
		handles := sectionHandles(sc, opts.Counts)
		if _, err := ctx.Mount(sc, handles); err != nil {
			ctx.Teardown()
			return nil, err
		}
		p.elements[sc.ID] = handles
		if !sc.Fixed {
			p.anchors[sc.ID] = sc.Top
		}
	}

	for _, mc := range cfg.Modals {
		root := motion.NewElement(mc.ID+".root", nil)
		handles := Handles{}
		for _, st := range slices.Concat(mc.Enter, mc.Exit) {
			if _, ok := handles[st.Element]; !ok {
				handles[st.Element] = []*motion.Element{motion.NewElement(mc.ID+"."+st.Element, st.From)}
			}
		}
		root.Mount()
		m, err := ctx.MountModal(mc, root, handles)
		if err != nil {
			ctx.Teardown()
			return nil, err
		}
		p.modals[mc.ID] = m
		p.roots[mc.ID] = root
		p.elements["modal:"+mc.ID] = handles
	}

	logger.Info("page assembled",
		zap.Int("sections", len(cfg.Sections)),
		zap.Int("modals", len(cfg.Modals)),
		zap.Float64("scroll_limit", ctx.Smoother().Limit()))
	return p, nil
}

// sectionHandles creates one handle per element, sized by the largest
// group that animates it.
func sectionHandles(sc SectionConfig, counts Counts) Handles {
	sizes := make(map[string]int)
	grow := func(name string, n int) {
		if name != "" {
			sizes[name] = max(sizes[name], n)
		}
	}
	for _, r := range sc.Reveals {
		grow(r.Anchor, 1)
		for _, st := range r.Steps {
			grow(st.Element, counts.size(st))
		}
	}
	for _, h := range sc.Hovers {
		grow(h.Element, 1)
	}
	for _, e := range sc.Effects {
		grow(e.Element, 1)
	}
	for name := range sc.Layout {
		grow(name, 1)
	}
	if h := sc.HideOnComplete; h != nil {
		grow(h.Element, 1)
	}

	handles := make(Handles, len(sizes))
	for name, n := range sizes {
		els := make([]*motion.Element, n)
		for i := range els {
			label := sc.ID + "." + name
			if n > 1 {
				label = fmt.Sprintf("%s[%d]", label, i)
			}
			els[i] = motion.NewElement(label, nil)
		}
		handles[name] = els
	}
	return handles
}

func (p *Page) Context() *Context       { return p.ctx }
func (p *Page) Config() *Config         { return p.cfg }
func (p *Page) Anchors() scroll.Anchors { return p.anchors }

// Section returns a mounted section.
func (p *Page) Section(id string) (*Section, bool) { return p.ctx.Section(id) }

// Element returns the i-th handle named name in section ("modal:<id>" for
// a modal's elements).
func (p *Page) Element(section, name string, i int) (*motion.Element, error) {
	els := p.elements[section][name]
	if i < 0 || i >= len(els) {
		return nil, fmt.Errorf("%w: %s/%s[%d]", ErrUnknownElement, section, name, i)
	}
	return els[i], nil
}

// Advance runs one frame; Run advances total seconds in step-sized frames.
func (p *Page) Advance(dt float64)       { p.ctx.Advance(dt) }
func (p *Page) Run(total, step float64)  { p.ctx.Loop().Run(total, step) }
func (p *Page) Scroll(delta float64)     { p.ctx.Smoother().Scroll(delta) }
func (p *Page) ScrollTo(pos float64)     { p.ctx.Smoother().ScrollTo(pos, false) }
func (p *Page) Position() float64        { return p.ctx.Smoother().Position() }
func (p *Page) Navigate(id string) error { return p.ctx.Navigate(p.anchors, id) }

// Modal returns a modal controller by id.
func (p *Page) Modal(id string) (*modal.Controller, error) {
	m, ok := p.modals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModal, id)
	}
	return m, nil
}

// Overlay returns the element a modal shows and hides.
func (p *Page) Overlay(id string) (*motion.Element, error) {
	root, ok := p.roots[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModal, id)
	}
	return root, nil
}

// OpenModal selects item and opens the modal. Any other open modal is asked
// to close first through the shared backdrop.
func (p *Page) OpenModal(id, item string) error {
	m, err := p.Modal(id)
	if err != nil {
		return err
	}
	if m.Closed() {
		p.selected[id] = item
	}
	m.Open()
	return nil
}

// CloseModal closes a modal; the selection is cleared once it is closed.
func (p *Page) CloseModal(id string) error {
	m, err := p.Modal(id)
	if err != nil {
		return err
	}
	m.Close()
	return nil
}

// Selected is the item the modal was last opened for, while it is not
// closed.
func (p *Page) Selected(id string) (string, bool) {
	m, ok := p.modals[id]
	if !ok || m.Closed() {
		return "", false
	}
	item, ok := p.selected[id]
	return item, ok
}

// Submit plays the contact button press.
func (p *Page) Submit() error {
	s, ok := p.ctx.Section("contact")
	if !ok {
		return fmt.Errorf("%w: contact", ErrUnknownEffect)
	}
	return s.Trigger("submit")
}

// ToggleMenu opens or closes the mobile navigation menu. Opening staggers
// the menu items in; closing hides them again.
func (p *Page) ToggleMenu() error {
	s, ok := p.ctx.Section("navigation")
	if !ok {
		return fmt.Errorf("%w: navigation/mobile", ErrUnknownReveal)
	}
	r, ok := s.Reveal("mobile")
	if !ok {
		return fmt.Errorf("%w: navigation/mobile", ErrUnknownReveal)
	}
	p.menuOpen = !p.menuOpen
	if p.menuOpen {
		r.Play()
		return nil
	}
	r.tl.Cancel()
	r.prime()
	return nil
}

func (p *Page) MenuOpen() bool { return p.menuOpen }

// Hover enters or leaves the hover of section/element[i].
func (p *Page) Hover(section, element string, i int, on bool) error {
	s, ok := p.ctx.Section(section)
	if !ok {
		return fmt.Errorf("%w: %s/%s[%d]", ErrUnknownElement, section, element, i)
	}
	if on {
		return s.HoverEnter(element, i)
	}
	return s.HoverLeave(element, i)
}

// Teardown releases everything the page mounted.
func (p *Page) Teardown() { p.ctx.Teardown() }
