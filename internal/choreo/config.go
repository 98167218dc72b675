package choreo

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/peerzada/portfolio/internal/motion"
)

//go:embed choreography.yaml
var defaultChoreography []byte

// ErrInvalidConfig wraps every validation failure in a choreography file.
var ErrInvalidConfig = errors.New("invalid choreography")

// Config is the whole page choreography.
type Config struct {
	Version  int             `yaml:"version" json:"version"`
	Viewport float64         `yaml:"viewport" json:"viewport"`
	Damping  float64         `yaml:"damping" json:"damping"`
	Sections []SectionConfig `yaml:"sections" json:"sections"`
	Modals   []ModalConfig   `yaml:"modals" json:"modals"`
}

// SectionConfig describes one page section: where it sits in the document
// and which reveals, hovers and effects it runs.
type SectionConfig struct {
	ID     string  `yaml:"id" json:"id"`
	Top    float64 `yaml:"top" json:"top"`
	Height float64 `yaml:"height" json:"height"`
	// Fixed sections (the preloader) are not part of the scroll flow.
	Fixed bool `yaml:"fixed" json:"fixed"`
	// Layout offsets elements from the section top; missing elements sit at 0.
	Layout  map[string]float64 `yaml:"layout" json:"layout,omitempty"`
	Reveals []RevealConfig     `yaml:"reveals" json:"reveals"`
	Hovers  []HoverConfig      `yaml:"hovers" json:"hovers,omitempty"`
	Effects []EffectConfig     `yaml:"effects" json:"effects,omitempty"`
	// HideOnComplete hides an element once the named reveal finishes.
	HideOnComplete *HideConfig `yaml:"hide_on_complete" json:"hideOnComplete,omitempty"`
}

// RevealConfig is one triggered timeline.
type RevealConfig struct {
	Name      string  `yaml:"name" json:"name"`
	Trigger   string  `yaml:"trigger" json:"trigger"`
	Delay     float64 `yaml:"delay" json:"delay"`
	Anchor    string  `yaml:"anchor" json:"anchor,omitempty"`
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// Reverse plays the reveal backwards when the anchor scrolls back above
	// the threshold. Scroll reveals without it play once.
	Reverse bool         `yaml:"reverse" json:"reverse"`
	Steps   []StepConfig `yaml:"steps" json:"steps"`
}

// StepConfig animates one element, or every element of a group.
type StepConfig struct {
	Element  string       `yaml:"element" json:"element"`
	From     motion.Style `yaml:"from" json:"from"`
	To       motion.Style `yaml:"to" json:"to"`
	Duration float64      `yaml:"duration" json:"duration"`
	Ease     string       `yaml:"ease" json:"ease,omitempty"`
	// Offset is relative to the previous step's end; At is absolute.
	Offset float64  `yaml:"offset" json:"offset"`
	At     *float64 `yaml:"at" json:"at,omitempty"`
	// Group names a count (e.g. "projects") whose items the step staggers.
	Group   string  `yaml:"group" json:"group,omitempty"`
	Size    int     `yaml:"size" json:"size,omitempty"`
	Stagger float64 `yaml:"stagger" json:"stagger,omitempty"`
}

// HoverConfig is a declarative hover pair on an element (or each element of
// a group).
type HoverConfig struct {
	Element  string       `yaml:"element" json:"element"`
	Rest     motion.Style `yaml:"rest" json:"rest"`
	Hover    motion.Style `yaml:"hover" json:"hover"`
	Duration float64      `yaml:"duration" json:"duration"`
	Ease     string       `yaml:"ease" json:"ease,omitempty"`
}

// EffectConfig is a standalone primitive: an ambient loop when Autoplay is
// set, or a one-off played on demand (the submit button press).
type EffectConfig struct {
	Name     string       `yaml:"name" json:"name"`
	Element  string       `yaml:"element" json:"element"`
	From     motion.Style `yaml:"from" json:"from"`
	To       motion.Style `yaml:"to" json:"to"`
	Duration float64      `yaml:"duration" json:"duration"`
	Ease     string       `yaml:"ease" json:"ease,omitempty"`
	Delay    float64      `yaml:"delay" json:"delay,omitempty"`
	Repeat   int          `yaml:"repeat" json:"repeat"`
	Yoyo     bool         `yaml:"yoyo" json:"yoyo"`
	Autoplay bool         `yaml:"autoplay" json:"autoplay"`
}

// HideConfig hides Element after Reveal completes, then plays the reveal
// named by Then ("section/reveal"), if any.
type HideConfig struct {
	Reveal  string `yaml:"reveal" json:"reveal"`
	Element string `yaml:"element" json:"element"`
	Then    string `yaml:"then" json:"then,omitempty"`
}

// ModalConfig describes an overlay's entrance and exit timelines. Steps
// address the modal's own elements: "overlay" and "content".
type ModalConfig struct {
	ID    string       `yaml:"id" json:"id"`
	Enter []StepConfig `yaml:"enter" json:"enter"`
	Exit  []StepConfig `yaml:"exit" json:"exit"`
}

const (
	triggerMount  = "mount"
	triggerScroll = "scroll"
	// Manual reveals only play when another reveal hands off to them.
	triggerManual = "manual"

	defaultThreshold = 0.8
	defaultViewport  = 800
)

// Default returns the embedded choreography.
func Default() (*Config, error) {
	return Parse(defaultChoreography)
}

// LoadFile reads a choreography from disk.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read choreography %s: %w", path, err)
	}
	return Parse(data)
}

// Load reads a choreography from r.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read choreography: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML, filling defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Viewport <= 0 {
		c.Viewport = defaultViewport
	}
	for i := range c.Sections {
		for j := range c.Sections[i].Reveals {
			r := &c.Sections[i].Reveals[j]
			if r.Trigger == "" {
				r.Trigger = triggerScroll
			}
			if r.Trigger == triggerScroll && r.Threshold == 0 {
				r.Threshold = defaultThreshold
			}
		}
	}
}

// Validate checks structure, ease names and style property sets.
func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for _, s := range c.Sections {
		if s.ID == "" {
			return fmt.Errorf("%w: section without id", ErrInvalidConfig)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidConfig, s.ID)
		}
		seen[s.ID] = true

		reveals := make(map[string]bool)
		for _, r := range s.Reveals {
			where := s.ID + "/" + r.Name
			if r.Name == "" || reveals[r.Name] {
				return fmt.Errorf("%w: %s: reveal needs a unique name", ErrInvalidConfig, where)
			}
			reveals[r.Name] = true
			switch r.Trigger {
			case triggerMount, triggerManual:
			case triggerScroll:
				if s.Fixed {
					return fmt.Errorf("%w: %s: fixed sections cannot scroll-trigger", ErrInvalidConfig, where)
				}
			default:
				return fmt.Errorf("%w: %s: unknown trigger %q", ErrInvalidConfig, where, r.Trigger)
			}
			if err := validateSteps(where, r.Steps); err != nil {
				return err
			}
		}
		for _, h := range s.Hovers {
			if _, err := motion.NewSpec(nil, h.Rest, h.Hover, h.Duration, nil); err != nil {
				return fmt.Errorf("%w: %s hover %s: %v", ErrInvalidConfig, s.ID, h.Element, err)
			}
			if _, err := motion.ParseEase(h.Ease); err != nil {
				return fmt.Errorf("%w: %s hover %s: %v", ErrInvalidConfig, s.ID, h.Element, err)
			}
		}
		for _, e := range s.Effects {
			if _, err := motion.NewSpec(nil, e.From, e.To, e.Duration, nil); err != nil {
				return fmt.Errorf("%w: %s effect %s: %v", ErrInvalidConfig, s.ID, e.Name, err)
			}
			if _, err := motion.ParseEase(e.Ease); err != nil {
				return fmt.Errorf("%w: %s effect %s: %v", ErrInvalidConfig, s.ID, e.Name, err)
			}
		}
		if h := s.HideOnComplete; h != nil && !reveals[h.Reveal] {
			return fmt.Errorf("%w: %s: hide_on_complete names unknown reveal %q", ErrInvalidConfig, s.ID, h.Reveal)
		}
	}

	for _, s := range c.Sections {
		if s.HideOnComplete == nil || s.HideOnComplete.Then == "" {
			continue
		}
		if _, _, ok := c.reveal(s.HideOnComplete.Then); !ok {
			return fmt.Errorf("%w: %s: hand-off to unknown reveal %q", ErrInvalidConfig, s.ID, s.HideOnComplete.Then)
		}
	}

	modals := make(map[string]bool)
	for _, m := range c.Modals {
		if m.ID == "" || modals[m.ID] {
			return fmt.Errorf("%w: modal needs a unique id", ErrInvalidConfig)
		}
		modals[m.ID] = true
		if err := validateSteps("modal "+m.ID+" enter", m.Enter); err != nil {
			return err
		}
		if err := validateSteps("modal "+m.ID+" exit", m.Exit); err != nil {
			return err
		}
	}
	return nil
}

func validateSteps(where string, steps []StepConfig) error {
	if len(steps) == 0 {
		return fmt.Errorf("%w: %s: no steps", ErrInvalidConfig, where)
	}
	for i, st := range steps {
		if st.Element == "" {
			return fmt.Errorf("%w: %s step %d: no element", ErrInvalidConfig, where, i)
		}
		if _, err := motion.NewSpec(nil, st.From, st.To, st.Duration, nil); err != nil {
			return fmt.Errorf("%w: %s step %d: %v", ErrInvalidConfig, where, i, err)
		}
		if _, err := motion.ParseEase(st.Ease); err != nil {
			return fmt.Errorf("%w: %s step %d: %v", ErrInvalidConfig, where, i, err)
		}
	}
	return nil
}

// Section returns the section with the given id.
func (c *Config) Section(id string) (SectionConfig, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return SectionConfig{}, false
}

// reveal looks up a "section/reveal" reference.
func (c *Config) reveal(ref string) (string, string, bool) {
	section, name, ok := cutRef(ref)
	if !ok {
		return "", "", false
	}
	sc, ok := c.Section(section)
	if !ok {
		return "", "", false
	}
	for _, r := range sc.Reveals {
		if r.Name == name {
			return section, name, true
		}
	}
	return "", "", false
}

// Extent returns the document height covered by the scrolling sections.
func (c *Config) Extent() float64 {
	var end float64
	for _, s := range c.Sections {
		if !s.Fixed {
			end = max(end, s.Top+s.Height)
		}
	}
	return end
}
