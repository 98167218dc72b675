package choreo

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/peerzada/portfolio/internal/motion"
	"github.com/peerzada/portfolio/internal/scroll"
	"github.com/peerzada/portfolio/internal/timeline"
)

// Section is a mounted page section and every animation resource it owns.
type Section struct {
	id      string
	cfg     SectionConfig
	ctx     *Context
	handles Handles

	reveals []*Reveal
	hovers  map[string][]*motion.Hover
	effects map[string][]*motion.Primitive
	waits   []*motion.Hook
	mounted bool
}

// Reveal is one triggered timeline of a section.
type Reveal struct {
	section *Section
	cfg     RevealConfig
	tl      *timeline.Timeline
	reg     *scroll.Registration
}

func (s *Section) ID() string         { return s.id }
func (s *Section) Mounted() bool      { return s.mounted }
func (s *Section) Reveals() []*Reveal { return append([]*Reveal(nil), s.reveals...) }

// Reveal returns the named reveal. Reveals whose elements were all missing
// at mount are absent.
func (s *Section) Reveal(name string) (*Reveal, bool) {
	for _, r := range s.reveals {
		if r.cfg.Name == name {
			return r, true
		}
	}
	return nil, false
}

// Elements returns the handles mounted under name.
func (s *Section) Elements(name string) []*motion.Element {
	return append([]*motion.Element(nil), s.handles[name]...)
}

// Hover returns the hover of the i-th element named name.
func (s *Section) Hover(name string, i int) (*motion.Hover, error) {
	hs := s.hovers[name]
	if i < 0 || i >= len(hs) {
		return nil, fmt.Errorf("%w: %s/%s[%d]", ErrUnknownElement, s.id, name, i)
	}
	return hs[i], nil
}

// HoverEnter plays the hover of the i-th element named name.
func (s *Section) HoverEnter(name string, i int) error {
	h, err := s.Hover(name, i)
	if err != nil {
		return err
	}
	h.Enter()
	s.ctx.emit(Event{Section: s.id, Name: name, Kind: EventHover, Detail: "enter"})
	return nil
}

// HoverLeave reverses the hover of the i-th element named name.
func (s *Section) HoverLeave(name string, i int) error {
	h, err := s.Hover(name, i)
	if err != nil {
		return err
	}
	h.Leave()
	s.ctx.emit(Event{Section: s.id, Name: name, Kind: EventHover, Detail: "leave"})
	return nil
}

// Trigger plays an on-demand effect from the start.
func (s *Section) Trigger(effect string) error {
	prims, ok := s.effects[effect]
	if !ok || !s.mounted {
		return fmt.Errorf("%w: %s/%s", ErrUnknownEffect, s.id, effect)
	}
	for _, p := range prims {
		p.Restart()
	}
	s.ctx.emit(Event{Section: s.id, Name: effect, Kind: EventEffect})
	return nil
}

// Effects returns the primitives of an effect, one per element.
func (s *Section) Effects(effect string) []*motion.Primitive {
	return append([]*motion.Primitive(nil), s.effects[effect]...)
}

// Unmount cancels every animation the section owns and unregisters its
// scroll triggers. Callbacks already queued for this frame see the section
// as unmounted and do nothing.
func (s *Section) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.release()
	for _, els := range s.handles {
		for _, el := range els {
			el.Unmount()
		}
	}
	s.ctx.drop(s)
	s.ctx.logger.Debug("section unmounted", zap.String("section", s.id))
}

func (s *Section) release() {
	for _, r := range s.reveals {
		r.reg.Unregister()
		r.tl.Cancel()
	}
	for _, hs := range s.hovers {
		for _, h := range hs {
			h.Cancel()
		}
	}
	for _, ps := range s.effects {
		for _, p := range ps {
			p.Cancel()
		}
	}
	for _, h := range s.waits {
		h.Cancel()
	}
	s.waits = nil
}

func (s *Section) build() error {
	lookup := func(st StepConfig) []motion.Target { return targets(s.handles[st.Element]) }

	for _, rc := range s.cfg.Reveals {
		var opts []timeline.Option
		if rc.Delay > 0 {
			opts = append(opts, timeline.WithDelay(rc.Delay))
		}
		tl, err := s.ctx.timeline(rc.Steps, lookup, opts...)
		if errors.Is(err, timeline.ErrEmpty) {
			s.ctx.logger.Debug("reveal has no elements",
				zap.String("section", s.id), zap.String("reveal", rc.Name))
			continue
		}
		if err != nil {
			return fmt.Errorf("reveal %s: %w", rc.Name, err)
		}
		r := &Reveal{section: s, cfg: rc, tl: tl}
		r.wire()
		s.reveals = append(s.reveals, r)
	}

	for _, hc := range s.cfg.Hovers {
		ease, err := motion.ParseEase(hc.Ease)
		if err != nil {
			return err
		}
		for _, el := range s.handles[hc.Element] {
			h, err := motion.NewHover(s.ctx.loop, el, hc.Rest, hc.Hover, hc.Duration, ease)
			if err != nil {
				return fmt.Errorf("hover %s: %w", hc.Element, err)
			}
			s.hovers[hc.Element] = append(s.hovers[hc.Element], h)
		}
	}

	for _, ec := range s.cfg.Effects {
		ease, err := motion.ParseEase(ec.Ease)
		if err != nil {
			return err
		}
		prims := []*motion.Primitive{}
		for _, el := range s.handles[ec.Element] {
			spec, err := motion.NewSpec(el, ec.From, ec.To, ec.Duration, ease)
			if err != nil {
				return fmt.Errorf("effect %s: %w", ec.Name, err)
			}
			spec = spec.WithRepeat(ec.Repeat).WithYoyo(ec.Yoyo)
			prims = append(prims, motion.NewPrimitive(s.ctx.loop, spec))
		}
		s.effects[ec.Name] = prims
	}
	return nil
}

// start primes every reveal with its from styles, plays mount reveals and
// starts ambient effects.
func (s *Section) start() {
	for _, r := range s.reveals {
		r.prime()
	}
	for _, r := range s.reveals {
		if r.cfg.Trigger == triggerMount {
			r.Play()
		}
	}
	for _, ec := range s.cfg.Effects {
		if !ec.Autoplay {
			continue
		}
		prims := s.effects[ec.Name]
		h := after(s.ctx.loop, ec.Delay, func() {
			if !s.mounted {
				return
			}
			for _, p := range prims {
				p.Play()
			}
		})
		if h != nil {
			s.waits = append(s.waits, h)
		}
	}
}

func (r *Reveal) Name() string                       { return r.cfg.Name }
func (r *Reveal) Timeline() *timeline.Timeline       { return r.tl }
func (r *Reveal) Registration() *scroll.Registration { return r.reg }

// Trigger reports when the reveal plays.
func (r *Reveal) Trigger() motion.TriggerPolicy {
	if r.cfg.Trigger == triggerScroll {
		return motion.OnScrollEnter(r.cfg.Threshold, r.cfg.Reverse)
	}
	return motion.OnMountDelayed(r.cfg.Delay)
}

// Play starts the reveal from the beginning.
func (r *Reveal) Play() {
	if !r.section.mounted {
		return
	}
	r.tl.Play()
	r.section.ctx.emit(Event{Section: r.section.id, Name: r.cfg.Name, Kind: EventPlay})
}

func (r *Reveal) wire() {
	s := r.section
	r.tl.OnComplete(func() {
		s.ctx.emit(Event{Section: s.id, Name: r.cfg.Name, Kind: EventComplete})
		if h := s.cfg.HideOnComplete; h != nil && h.Reveal == r.cfg.Name {
			s.hide(h)
		}
	})
	r.tl.OnReverseComplete(func() {
		s.ctx.emit(Event{Section: s.id, Name: r.cfg.Name, Kind: EventReversed})
	})
	r.tl.OnInterrupt(func() {
		s.ctx.emit(Event{Section: s.id, Name: r.cfg.Name, Kind: EventInterrupted})
	})

	if r.cfg.Trigger != triggerScroll {
		return
	}
	anchor := r.anchor()
	if anchor == nil {
		return
	}
	policy := scroll.ToggleOnce
	if r.cfg.Reverse {
		policy = scroll.ToggleReversible
	}
	r.reg = s.ctx.observer.Observe(anchor, r.cfg.Threshold, policy, func(d scroll.Direction) {
		if !s.mounted {
			return
		}
		switch d {
		case scroll.Enter:
			r.tl.Resume()
			s.ctx.emit(Event{Section: s.id, Name: r.cfg.Name, Kind: EventPlay})
		case scroll.Exit:
			r.tl.Reverse()
			s.ctx.emit(Event{Section: s.id, Name: r.cfg.Name, Kind: EventReverse})
		}
	})
}

// anchor is the element whose position triggers the reveal: the configured
// anchor, or the first step's element.
func (r *Reveal) anchor() *motion.Element {
	name := r.cfg.Anchor
	if name == "" {
		name = r.cfg.Steps[0].Element
	}
	els := r.section.handles[name]
	if len(els) == 0 {
		return nil
	}
	return els[0]
}

// prime renders the reveal's first frame so elements wait in their from
// state instead of flashing before the trigger.
func (r *Reveal) prime() {
	if r.cfg.Trigger == triggerMount && r.cfg.Delay == 0 {
		return
	}
	seen := make(map[motion.Target]bool)
	for _, st := range r.cfg.Steps {
		for _, el := range r.section.handles[st.Element] {
			if seen[el] {
				continue
			}
			seen[el] = true
			el.Apply(st.From)
		}
	}
}

func (s *Section) hide(h *HideConfig) {
	if !s.mounted {
		return
	}
	for _, el := range s.handles[h.Element] {
		el.Hide()
	}
	s.ctx.emit(Event{Section: s.id, Name: h.Element, Kind: EventHidden})
	if h.Then == "" {
		return
	}
	next, err := s.ctx.Reveal(h.Then)
	if err != nil {
		s.ctx.logger.Warn("hand-off target not mounted", zap.String("section", s.id), zap.Error(err))
		return
	}
	next.Play()
}

func cutRef(ref string) (section, name string, ok bool) {
	return strings.Cut(ref, "/")
}
