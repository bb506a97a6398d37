package render

import (
	"sync"

	"tryon-ar/internal/overlay"
)

// HitFunc reports whether a preview point lies on the primary overlay.
type HitFunc func(x, y float64) bool

// Drag turns pointer down/move/up into incremental position deltas on the
// primary overlay. A gesture that starts off the overlay moves nothing.
type Drag struct {
	mu     sync.Mutex
	state  *overlay.State
	hit    HitFunc
	active bool
	lastX  float64
	lastY  float64
	total  overlay.Point
}

// NewDrag binds a gesture tracker to state.
func NewDrag(state *overlay.State, hit HitFunc) *Drag {
	return &Drag{state: state, hit: hit}
}

// Down starts a gesture if (x, y) is on the overlay.
func (d *Drag) Down(x, y float64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = d.hit != nil && d.hit(x, y)
	d.lastX, d.lastY = x, y
	d.total = overlay.Point{}
	return d.active
}

// Move applies the delta since the previous event and returns the new
// position. ok is false when no gesture is active.
func (d *Drag) Move(x, y float64) (pos overlay.Point, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return d.state.Transform().Position, false
	}
	dx, dy := x-d.lastX, y-d.lastY
	d.lastX, d.lastY = x, y
	d.total.X += dx
	d.total.Y += dy
	return d.state.ApplyDragDelta(dx, dy), true
}

// Up applies any final movement, ends the gesture and returns the
// cumulative delta.
func (d *Drag) Up(x, y float64) overlay.Point {
	d.Move(x, y)
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = false
	total := d.total
	d.total = overlay.Point{}
	return total
}

// Active reports whether a gesture is in progress.
func (d *Drag) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}
