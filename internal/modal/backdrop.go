package modal

// Backdrop serialises modals that share one screen. At most one member is
// outside Closed at a time; a request made while another is active waits in a
// single pending slot, and the latest request replaces an earlier one.
type Backdrop struct {
	active  *Controller
	pending *Controller
}

// NewBackdrop returns an idle backdrop.
func NewBackdrop() *Backdrop { return &Backdrop{} }

// Active returns the modal currently holding the backdrop, or nil.
func (b *Backdrop) Active() *Controller { return b.active }

// Pending returns the modal waiting for the backdrop, or nil.
func (b *Backdrop) Pending() *Controller { return b.pending }

func (b *Backdrop) acquire(c *Controller) bool {
	if b.active == nil || b.active == c {
		b.active = c
		if b.pending == c {
			b.pending = nil
		}
		return true
	}
	b.pending = c
	b.active.requestClose()
	return false
}

func (b *Backdrop) release(c *Controller) {
	if b.active != c {
		return
	}
	b.active = nil
	if next := b.pending; next != nil {
		b.pending = nil
		next.Open()
	}
}

func (b *Backdrop) drop(c *Controller) {
	if b.pending == c {
		b.pending = nil
	}
	b.release(c)
}
