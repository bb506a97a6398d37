package overlay

import (
	"sync"

	"tryon-ar/internal/mathutil"
)

// Snapshot is a consistent read of the state. Mirror is nil unless the
// symmetric twin is active.
type Snapshot struct {
	Primary Transform  `json:"primary"`
	Mirror  *Transform `json:"mirror,omitempty"`
}

// State is the live overlay placement for one try-on session. Only the
// primary transform is stored; the twin is derived on every read.
type State struct {
	mu        sync.RWMutex
	t         Transform
	symmetric bool
	pairable  bool
}

// NewState seeds a state. pairable reports whether the item category
// supports a mirrored twin.
func NewState(seed Transform, pairable bool) *State {
	s := &State{}
	s.Reset(seed, pairable)
	return s
}

// Reset replaces the placement, keeping the symmetric flag.
func (s *State) Reset(seed Transform, pairable bool) {
	s.mu.Lock()
	s.t = seed.Clamped()
	s.pairable = pairable
	s.mu.Unlock()
}

// Transform returns the primary placement.
func (s *State) Transform() Transform {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t
}

// ApplyDragDelta moves the primary overlay by (dx, dy) preview pixels.
// Non-finite deltas are ignored.
func (s *State) ApplyDragDelta(dx, dy float64) Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mathutil.Finite(dx) && mathutil.Finite(dy) {
		s.t.Position.X += dx
		s.t.Position.Y += dy
	}
	return s.t.Position
}

// SetScale sets the scale clamped to [MinScale, MaxScale] and returns it.
func (s *State) SetScale(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.Scale = mathutil.Clamp(v, MinScale, MaxScale)
	return s.t.Scale
}

// SetRotation sets the rotation clamped to [MinRotation, MaxRotation] and returns it.
func (s *State) SetRotation(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.Rotation = mathutil.Clamp(v, MinRotation, MaxRotation)
	return s.t.Rotation
}

// SetOpacity sets the opacity clamped to [MinOpacity, MaxOpacity] and returns it.
func (s *State) SetOpacity(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.Opacity = mathutil.Clamp(v, MinOpacity, MaxOpacity)
	return s.t.Opacity
}

func (s *State) SetSymmetric(on bool) {
	s.mu.Lock()
	s.symmetric = on
	s.mu.Unlock()
}

func (s *State) Symmetric() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.symmetric
}

// DerivedMirror returns the twin placement and whether it is active.
func (s *State) DerivedMirror() (Transform, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.symmetric || !s.pairable {
		return Transform{}, false
	}
	return Mirror(s.t), true
}

// Snapshot reads primary and twin under one lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{Primary: s.t}
	if s.symmetric && s.pairable {
		m := Mirror(s.t)
		snap.Mirror = &m
	}
	return snap
}
