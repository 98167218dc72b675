package motion

// Hover is a declarative hover reveal: a rest style and a hover style on one
// element. Entering plays toward the hover style, leaving reverses from
// wherever the element currently is, so quick in-out movements never jump.
type Hover struct {
	prim *Primitive
}

// NewHover builds the rest→hover spec for target.
func NewHover(loop *Loop, target Target, rest, hover Style, duration float64, ease Ease) (*Hover, error) {
	spec, err := NewSpec(target, rest, hover, duration, ease)
	if err != nil {
		return nil, err
	}
	return &Hover{prim: NewPrimitive(loop, spec)}, nil
}

// Enter plays toward the hover style.
func (h *Hover) Enter() { h.prim.Play() }

// Leave plays back toward the rest style.
func (h *Hover) Leave() { h.prim.Reverse() }

// Cancel stops any hover transition in place.
func (h *Hover) Cancel() { h.prim.Cancel() }

// Hovered reports whether the element is at, or heading to, the hover style.
func (h *Hover) Hovered() bool {
	return h.prim.dir == forward || (h.prim.dir == still && h.prim.elapsed > 0)
}
