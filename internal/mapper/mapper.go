// Package mapper converts preview-space overlay placements into the pixel
// space of the native capture frame.
package mapper

import (
	"errors"
	"fmt"

	"tryon-ar/internal/mathutil"
	"tryon-ar/internal/overlay"
)

// DefaultBaseWidth is the rendered overlay width at scale 1, in preview units.
const DefaultBaseWidth = 200.0

// ErrUnmeasured is returned when a size needed for scaling is zero,
// negative or not finite.
var ErrUnmeasured = errors.New("mapper: size not measured")

// Size is a width/height pair in pixels of its own space.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Measured reports whether both dimensions are usable divisors.
func (s Size) Measured() bool {
	return s.Width > 0 && s.Height > 0 && mathutil.Finite(s.Width) && mathutil.Finite(s.Height)
}

// Center returns the geometric center.
func (s Size) Center() (float64, float64) {
	return s.Width / 2, s.Height / 2
}

func (s Size) String() string {
	return fmt.Sprintf("%gx%g", s.Width, s.Height)
}

// Factors are the per-axis capture/preview ratios.
type Factors struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Identity maps preview space onto itself.
var Identity = Factors{X: 1, Y: 1}

// ScaleFactors computes capture/preview independently per axis; the two
// spaces may differ in aspect ratio.
func ScaleFactors(preview, capture Size) (Factors, error) {
	if !preview.Measured() {
		return Factors{}, fmt.Errorf("%w: preview %s", ErrUnmeasured, preview)
	}
	if !capture.Measured() {
		return Factors{}, fmt.Errorf("%w: capture %s", ErrUnmeasured, capture)
	}
	return Factors{
		X: capture.Width / preview.Width,
		Y: capture.Height / preview.Height,
	}, nil
}

// Placement is an overlay placement resolved to target-space pixels.
type Placement struct {
	X        float64 // offset from the target center
	Y        float64
	Width    float64 // drawn width; height follows the image aspect ratio
	Rotation float64 // degrees
	Opacity  float64
}

// Map converts a preview-space transform. Position scales per axis; the
// base width scales with the X factor before the user scale applies;
// rotation and opacity pass through.
func Map(t overlay.Transform, f Factors, baseWidth float64) Placement {
	return Placement{
		X:        t.Position.X * f.X,
		Y:        t.Position.Y * f.Y,
		Width:    baseWidth * f.X * t.Scale,
		Rotation: t.Rotation,
		Opacity:  t.Opacity,
	}
}
