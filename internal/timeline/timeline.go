// Package timeline sequences reveal specs with relative offsets and plays
// them as one unit on a motion loop.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/peerzada/portfolio/internal/motion"
)

var (
	ErrEmpty   = errors.New("timeline has no entries")
	ErrEndless = errors.New("timeline entry repeats forever")
)

// Offset places an entry relative to the one before it, or absolutely.
type Offset struct {
	seconds  float64
	absolute bool
}

// After starts an entry seconds after the previous entry ends. A negative
// value overlaps the previous entry ("-=0.8").
func After(seconds float64) Offset { return Offset{seconds: seconds} }

// At starts an entry at an absolute time on the timeline.
func At(seconds float64) Offset { return Offset{seconds: seconds, absolute: true} }

func (o Offset) Seconds() float64 { return o.seconds }
func (o Offset) Absolute() bool   { return o.absolute }

// Entry is one reveal on a timeline.
type Entry struct {
	Spec   motion.Spec
	Offset Offset
}

// Slot is an entry's resolved placement.
type Slot struct {
	Start    float64 `json:"start" yaml:"start"`
	Duration float64 `json:"duration" yaml:"duration"`
}

// End returns the time at which the slot finishes.
func (s Slot) End() float64 { return s.Start + s.Duration }

// Resolve computes each entry's start time. Relative entries start at
// max(0, prevStart + prevDuration + offset); the first entry's predecessor is
// an empty slot at zero.
func Resolve(entries []Entry) ([]Slot, error) {
	if len(entries) == 0 {
		return nil, ErrEmpty
	}
	slots := make([]Slot, len(entries))
	var prev Slot
	for i, e := range entries {
		d := e.Spec.TotalDuration()
		if math.IsInf(d, 1) {
			return nil, fmt.Errorf("entry %d: %w", i, ErrEndless)
		}
		start := prev.End() + e.Offset.seconds
		if e.Offset.absolute {
			start = e.Offset.seconds
		}
		slots[i] = Slot{Start: max(0, start), Duration: d}
		prev = slots[i]
	}
	return slots, nil
}

// Stagger lays specs out so each one starts each seconds after the previous
// one started. The first spec is placed with first.
func Stagger(specs []motion.Spec, each float64, first Offset) []Entry {
	entries := make([]Entry, len(specs))
	for i, s := range specs {
		off := first
		if i > 0 {
			off = After(each - specs[i-1].TotalDuration())
		}
		entries[i] = Entry{Spec: s, Offset: off}
	}
	return entries
}
