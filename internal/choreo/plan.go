package choreo

import (
	"fmt"

	"github.com/peerzada/portfolio/internal/motion"
	"github.com/peerzada/portfolio/internal/timeline"
)

// Counts sizes the groups a choreography staggers over, keyed by the
// step's group name ("projects", "skills", ...).
type Counts map[string]int

// size reports how many handles a step animates.
func (c Counts) size(st StepConfig) int {
	if st.Group != "" {
		if n, ok := c[st.Group]; ok {
			return max(n, 0)
		}
	}
	if st.Size > 0 {
		return st.Size
	}
	return 1
}

// Plan is the resolved choreography, as served by the API and the plan
// command.
type Plan struct {
	Viewport float64       `json:"viewport" yaml:"viewport"`
	Sections []SectionPlan `json:"sections" yaml:"sections"`
	Modals   []ModalPlan   `json:"modals" yaml:"modals"`
}

type SectionPlan struct {
	ID      string       `json:"id" yaml:"id"`
	Top     float64      `json:"top" yaml:"top"`
	Height  float64      `json:"height" yaml:"height"`
	Fixed   bool         `json:"fixed,omitempty" yaml:"fixed,omitempty"`
	Reveals []RevealPlan `json:"reveals" yaml:"reveals"`
}

type RevealPlan struct {
	Name      string      `json:"name" yaml:"name"`
	Trigger   string      `json:"trigger" yaml:"trigger"`
	Delay     float64     `json:"delay" yaml:"delay"`
	Threshold float64     `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Reverse   bool        `json:"reverse" yaml:"reverse"`
	Duration  float64     `json:"duration" yaml:"duration"`
	Entries   []EntryPlan `json:"entries" yaml:"entries"`
}

type ModalPlan struct {
	ID    string      `json:"id" yaml:"id"`
	Enter []EntryPlan `json:"enter" yaml:"enter"`
	Exit  []EntryPlan `json:"exit" yaml:"exit"`
}

// EntryPlan places one element's animation on its reveal's clock.
type EntryPlan struct {
	Element  string  `json:"element" yaml:"element"`
	Index    int     `json:"index" yaml:"index"`
	Start    float64 `json:"start" yaml:"start"`
	Duration float64 `json:"duration" yaml:"duration"`
	Ease     string  `json:"ease,omitempty" yaml:"ease,omitempty"`
}

// compiled is a reveal's timeline entries with the element each one drives.
type compiled struct {
	entries []timeline.Entry
	plan    []EntryPlan
}

// compile turns steps into timeline entries. lookup returns the handles a
// step animates; a group step staggers over all of them. Steps whose group
// is empty drop out.
func compile(steps []StepConfig, lookup func(StepConfig) []motion.Target) (compiled, error) {
	var out compiled
	for _, st := range steps {
		ease, err := motion.ParseEase(st.Ease)
		if err != nil {
			return compiled{}, err
		}
		targets := lookup(st)
		if len(targets) == 0 {
			continue
		}

		first := timeline.After(st.Offset)
		if st.At != nil {
			first = timeline.At(*st.At)
		}
		specs := make([]motion.Spec, 0, len(targets))
		for _, target := range targets {
			spec, err := motion.NewSpec(target, st.From, st.To, st.Duration, ease)
			if err != nil {
				return compiled{}, fmt.Errorf("%s: %w", st.Element, err)
			}
			specs = append(specs, spec)
		}
		out.entries = append(out.entries, timeline.Stagger(specs, st.Stagger, first)...)
		for i := range specs {
			out.plan = append(out.plan, EntryPlan{
				Element: st.Element,
				Index:   i,
				Ease:    st.Ease,
			})
		}
	}
	if len(out.entries) == 0 {
		return out, nil
	}

	slots, err := timeline.Resolve(out.entries)
	if err != nil {
		return compiled{}, err
	}
	for i, slot := range slots {
		out.plan[i].Start = slot.Start
		out.plan[i].Duration = slot.Duration
	}
	return out, nil
}

// BuildPlan resolves every reveal without touching any element.
func BuildPlan(cfg *Config, counts Counts) (*Plan, error) {
	blank := func(st StepConfig) []motion.Target {
		return make([]motion.Target, counts.size(st))
	}

	plan := &Plan{Viewport: cfg.Viewport}
	for _, s := range cfg.Sections {
		sp := SectionPlan{ID: s.ID, Top: s.Top, Height: s.Height, Fixed: s.Fixed}
		for _, r := range s.Reveals {
			c, err := compile(r.Steps, blank)
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", s.ID, r.Name, err)
			}
			rp := RevealPlan{
				Name:    r.Name,
				Trigger: r.Trigger,
				Delay:   r.Delay,
				Reverse: r.Reverse && r.Trigger == triggerScroll,
				Entries: c.plan,
			}
			if r.Trigger == triggerScroll {
				rp.Threshold = r.Threshold
			}
			for _, e := range c.plan {
				rp.Duration = max(rp.Duration, e.Start+e.Duration)
			}
			if rp.Entries == nil {
				rp.Entries = []EntryPlan{}
			}
			sp.Reveals = append(sp.Reveals, rp)
		}
		plan.Sections = append(plan.Sections, sp)
	}

	for _, m := range cfg.Modals {
		enter, err := compile(m.Enter, blank)
		if err != nil {
			return nil, fmt.Errorf("modal %s: %w", m.ID, err)
		}
		exit, err := compile(m.Exit, blank)
		if err != nil {
			return nil, fmt.Errorf("modal %s: %w", m.ID, err)
		}
		plan.Modals = append(plan.Modals, ModalPlan{ID: m.ID, Enter: enter.plan, Exit: exit.plan})
	}
	return plan, nil
}

// Reveal finds a section's reveal in the plan.
func (p *Plan) Reveal(section, name string) (RevealPlan, error) {
	for _, s := range p.Sections {
		if s.ID != section {
			continue
		}
		for _, r := range s.Reveals {
			if r.Name == name {
				return r, nil
			}
		}
	}
	return RevealPlan{}, fmt.Errorf("%w: %s/%s", ErrUnknownReveal, section, name)
}
