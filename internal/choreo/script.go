package choreo

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/peerzada/portfolio/internal/motion"
)

//go:embed tour.yaml
var defaultTour []byte

var ErrInvalidScript = errors.New("invalid script")

// Script is a headless walk through the page: a list of visitor actions,
// each followed by an optional wait, run on a fixed frame step.
type Script struct {
	FPS     int      `yaml:"fps"`
	Actions []Action `yaml:"actions"`
}

// Action is one visitor input. Exactly one input field is set; Wait may
// accompany any of them.
type Action struct {
	Wait     float64  `yaml:"wait"`
	Scroll   *float64 `yaml:"scroll"`
	ScrollTo *float64 `yaml:"scroll_to"`
	Navigate string   `yaml:"navigate"`
	Open     string   `yaml:"open"`
	Item     string   `yaml:"item"`
	Close    string   `yaml:"close"`
	Hover    string   `yaml:"hover"`
	Leave    string   `yaml:"leave"`
	Index    int      `yaml:"index"`
	Submit   bool     `yaml:"submit"`
	Menu     bool     `yaml:"menu"`
}

// DefaultTour is the embedded walk-through used by the simulate command.
func DefaultTour() (*Script, error) { return ParseScript(defaultTour) }

// ParseScript decodes a script.
func ParseScript(data []byte) (*Script, error) {
	s := &Script{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	if s.FPS <= 0 {
		s.FPS = 60
	}
	for i, a := range s.Actions {
		if a.inputs() > 1 {
			return nil, fmt.Errorf("%w: action %d sets more than one input", ErrInvalidScript, i)
		}
		if a.Wait < 0 {
			return nil, fmt.Errorf("%w: action %d has a negative wait", ErrInvalidScript, i)
		}
	}
	return s, nil
}

func (a Action) inputs() int {
	n := 0
	for _, set := range []bool{
		a.Scroll != nil, a.ScrollTo != nil, a.Navigate != "", a.Open != "",
		a.Close != "", a.Hover != "", a.Leave != "", a.Submit, a.Menu,
	} {
		if set {
			n++
		}
	}
	return n
}

// Duration is the total simulated time the script waits.
func (s *Script) Duration() float64 {
	var d float64
	for _, a := range s.Actions {
		d += a.Wait
	}
	return d
}

// Play runs the script against p, stopping at the first action that fails.
func (p *Page) Play(s *Script) error {
	step := 1 / float64(s.FPS)
	for i, a := range s.Actions {
		if err := p.do(a); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		if a.Wait > 0 {
			p.Run(a.Wait, step)
		}
	}
	return nil
}

// PlayRealtime runs the script against p while r drives p's loop on the
// wall clock. Actions execute on the runner's goroutine; waits are real.
func (p *Page) PlayRealtime(ctx context.Context, s *Script, r *motion.Runner) error {
	for i, a := range s.Actions {
		var err error
		if doErr := r.Do(ctx, func() { err = p.do(a) }); doErr != nil {
			return fmt.Errorf("action %d: %w", i, doErr)
		}
		if err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
		if a.Wait <= 0 {
			continue
		}
		t := time.NewTimer(time.Duration(a.Wait * float64(time.Second)))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

func (p *Page) do(a Action) error {
	switch {
	case a.Scroll != nil:
		p.Scroll(*a.Scroll)
	case a.ScrollTo != nil:
		p.ScrollTo(*a.ScrollTo)
	case a.Navigate != "":
		return p.Navigate(a.Navigate)
	case a.Open != "":
		return p.OpenModal(a.Open, a.Item)
	case a.Close != "":
		return p.CloseModal(a.Close)
	case a.Hover != "":
		section, element, _ := cutRef(a.Hover)
		return p.Hover(section, element, a.Index, true)
	case a.Leave != "":
		section, element, _ := cutRef(a.Leave)
		return p.Hover(section, element, a.Index, false)
	case a.Submit:
		return p.Submit()
	case a.Menu:
		return p.ToggleMenu()
	}
	return nil
}
