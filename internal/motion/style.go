package motion

import (
	"maps"
	"math"
	"slices"
)

// Style is a snapshot of numeric style properties, keyed by property name
// ("opacity", "x", "y", "scale", "blur", "rotationY", "width", ...).
type Style map[string]float64

// Clone returns an independent copy of s.
func (s Style) Clone() Style {
	if s == nil {
		return nil
	}
	return maps.Clone(s)
}

// Keys returns the property names of s in sorted order.
func (s Style) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// SameProperties reports whether s and o define exactly the same property set.
func (s Style) SameProperties(o Style) bool {
	if len(s) != len(o) {
		return false
	}
	for k := range s {
		if _, ok := o[k]; !ok {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether every property of o is present in s and within tol.
func (s Style) ApproxEqual(o Style, tol float64) bool {
	for k, want := range o {
		got, ok := s[k]
		if !ok || math.Abs(got-want) > tol {
			return false
		}
	}
	return true
}

// Interpolate blends from toward to by t. t is not clamped so overshooting
// easings (back.out) carry through.
func Interpolate(from, to Style, t float64) Style {
	out := make(Style, len(to))
	for k, b := range to {
		out[k] = Lerp(from[k], b, t)
	}
	return out
}

// Lerp interpolates linearly between a and b. t=0 returns a, t=1 returns b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
