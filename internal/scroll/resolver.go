package scroll

import (
	"errors"
	"fmt"
)

// ErrUnknownSection is returned when a navigation target cannot be resolved.
var ErrUnknownSection = errors.New("unknown section")

// Resolver maps a logical section id to a scroll offset.
type Resolver interface {
	Offset(section string) (float64, bool)
}

// Anchors is a static section→offset table.
type Anchors map[string]float64

func (a Anchors) Offset(section string) (float64, bool) {
	off, ok := a[section]
	return off, ok
}

// Jump resolves section and moves s there without smoothing.
func Jump(s *Smoother, r Resolver, section string) (float64, error) {
	off, ok := r.Offset(section)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	s.ScrollTo(off, true)
	return s.Target(), nil
}
