package motion

import "github.com/google/uuid"

// Target is an element handle whose rendered style can be animated.
type Target interface {
	Mounted() bool
	Style() Style
	Apply(Style)
}

// Alive reports whether t refers to a mounted element.
func Alive(t Target) bool {
	return t != nil && t.Mounted()
}

// Element is an in-memory element handle. It carries its layout box in
// document coordinates so scroll thresholds can be evaluated against it, and
// a display flag used by overlays.
type Element struct {
	id      string
	name    string
	style   Style
	top     float64
	height  float64
	mounted bool
	visible bool
	writes  int
}

// NewElement returns a mounted, visible element with the given initial style.
func NewElement(name string, initial Style) *Element {
	s := initial.Clone()
	if s == nil {
		s = Style{}
	}
	return &Element{
		id:      uuid.NewString(),
		name:    name,
		style:   s,
		mounted: true,
		visible: true,
	}
}

func (e *Element) ID() string   { return e.id }
func (e *Element) Name() string { return e.name }

// Style returns a copy of the element's current style.
func (e *Element) Style() Style { return e.style.Clone() }

// Apply merges s into the element's style.
func (e *Element) Apply(s Style) {
	for k, v := range s {
		e.style[k] = v
	}
	e.writes++
}

// Writes counts Apply calls, for tests and diagnostics.
func (e *Element) Writes() int { return e.writes }

func (e *Element) Mounted() bool { return e.mounted }
func (e *Element) Mount()        { e.mounted = true }
func (e *Element) Unmount()      { e.mounted = false }

// Place sets the element's layout box in document coordinates.
func (e *Element) Place(top, height float64) {
	e.top = top
	e.height = height
}

func (e *Element) Top() float64    { return e.top }
func (e *Element) Height() float64 { return e.height }

// Show enables display; Hide disables it.
func (e *Element) Show()         { e.visible = true }
func (e *Element) Hide()         { e.visible = false }
func (e *Element) Visible() bool { return e.visible }
