// Package overlay holds the user-manipulable placement of a try-on overlay.
package overlay

import "tryon-ar/internal/mathutil"

// Domains for the clamped transform components.
const (
	MinScale    = 0.1
	MaxScale    = 3.0
	MinRotation = -180.0
	MaxRotation = 180.0
	MinOpacity  = 0.3
	MaxOpacity  = 1.0
)

// Point is an offset in preview-space pixels from the viewport center.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Transform is the placement of one overlay instance.
type Transform struct {
	Position Point   `json:"position"`
	Scale    float64 `json:"scale"`
	Rotation float64 `json:"rotation"` // degrees, positive is clockwise on screen
	Opacity  float64 `json:"opacity"`
}

// Default is the placement used when no preset applies.
func Default() Transform {
	return Transform{Scale: 1, Opacity: MaxOpacity}
}

// Clamped returns t with scale, rotation and opacity limited to their
// domains. Position is left untouched; overlays may sit off-screen.
func (t Transform) Clamped() Transform {
	t.Scale = mathutil.Clamp(t.Scale, MinScale, MaxScale)
	t.Rotation = mathutil.Clamp(t.Rotation, MinRotation, MaxRotation)
	t.Opacity = mathutil.Clamp(t.Opacity, MinOpacity, MaxOpacity)
	return t
}

// Mirror returns the twin placement for a symmetric pair: reflected across
// the vertical center line with the rotation reversed.
func Mirror(t Transform) Transform {
	return Transform{
		Position: Point{X: -t.Position.X, Y: t.Position.Y},
		Scale:    t.Scale,
		Rotation: -t.Rotation,
		Opacity:  t.Opacity,
	}
}
