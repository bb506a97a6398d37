// Package render draws the live preview: the camera frame (mirrored for the
// front camera), optional placement guides and the overlay placements, all in
// preview space.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"tryon-ar/internal/compositor"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/mathutil"
	"tryon-ar/internal/overlay"
	"tryon-ar/internal/raster"
)

// Options control one preview frame.
type Options struct {
	Guides bool // draw face/neck/ear outlines
	Mirror bool // flip the camera frame horizontally (front camera)
}

// Renderer composes preview frames. Overlay geometry goes through the same
// command plan as the snapshot compositor, with preview space as the target.
type Renderer struct {
	baseWidth  float64
	guideColor color.NRGBA
}

// New creates a renderer with the overlay width at scale 1.
func New(baseWidth float64) *Renderer {
	if baseWidth <= 0 {
		baseWidth = mapper.DefaultBaseWidth
	}
	return &Renderer{
		baseWidth:  baseWidth,
		guideColor: color.NRGBA{255, 255, 255, 150},
	}
}

// BaseWidth returns the overlay width at scale 1.
func (r *Renderer) BaseWidth() float64 {
	return r.baseWidth
}

// Render draws frame, guides and overlays into a container-sized image.
// frame and img may be nil before the camera or overlay are ready.
func (r *Renderer) Render(frame image.Image, container mapper.Size, img *image.NRGBA, snap overlay.Snapshot, opts Options) (*image.NRGBA, error) {
	w, h, err := pixels(container)
	if err != nil {
		return nil, err
	}
	fb, err := raster.NewFrameBuffer(w, h)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}

	if frame != nil {
		fb.Blit(frame)
		if opts.Mirror {
			copy(fb.Color, raster.FlipHorizontal(fb.Image()).Pix)
		}
	}
	if opts.Guides {
		r.drawGuides(fb)
	}
	if img != nil {
		fb.Apply(r.commands(w, h, img, snap)...)
	}
	return fb.Image(), nil
}

// Hit reports whether preview point (x, y) lies on the primary overlay.
// The twin is never a target.
func (r *Renderer) Hit(container mapper.Size, img *image.NRGBA, t overlay.Transform, x, y float64) bool {
	w, h, err := pixels(container)
	if err != nil || img == nil {
		return false
	}
	cmds := r.commands(w, h, img, overlay.Snapshot{Primary: t})
	if len(cmds) == 0 {
		return false
	}
	return HitTest(cmds[0], x, y)
}

func (r *Renderer) commands(w, h int, img *image.NRGBA, snap overlay.Snapshot) []raster.DrawImage {
	return compositor.Plan(w, h, img, compositor.Layers(snap, mapper.Identity, r.baseWidth))
}

// HitTest maps (x, y) back into the source rectangle of cmd.
func HitTest(cmd raster.DrawImage, x, y float64) bool {
	if cmd.Src == nil || !cmd.Matrix.Invertible() {
		return false
	}
	p := cmd.Matrix.Inverse().ApplyVec(mathutil.Vec2{x, y})
	sw := float64(cmd.Src.Rect.Dx())
	sh := float64(cmd.Src.Rect.Dy())
	return p[0] >= 0 && p[1] >= 0 && p[0] <= sw && p[1] <= sh
}

func pixels(container mapper.Size) (int, int, error) {
	if !container.Measured() {
		return 0, 0, fmt.Errorf("render: container %s: %w", container, mapper.ErrUnmeasured)
	}
	w := int(math.Round(container.Width))
	h := int(math.Round(container.Height))
	if w < 1 || h < 1 {
		return 0, 0, fmt.Errorf("render: container %s: %w", container, mapper.ErrUnmeasured)
	}
	return w, h, nil
}

// guide is an advisory outline, in fractions of the container.
type guide struct {
	name   string
	cx, cy float64
	rx, ry float64
}

var guides = []guide{
	{"face", 0.50, 0.38, 0.22, 0.20},
	{"neck", 0.50, 0.72, 0.16, 0.05},
	{"ear", 0.25, 0.40, 0.035, 0.06},
	{"ear", 0.75, 0.40, 0.035, 0.06},
}

func (r *Renderer) drawGuides(fb *raster.FrameBuffer) {
	w, h := float64(fb.Width), float64(fb.Height)
	stroke := math.Max(1, math.Min(w, h)/180)
	for _, g := range guides {
		cx, cy := g.cx*w, g.cy*h
		ry := g.ry * h
		fb.StrokeEllipse(cx, cy, g.rx*w, ry, stroke, r.guideColor)

		lx := int(cx) - raster.LabelWidth(g.name)/2
		ly := int(mathutil.Clamp(cy-ry-4, 13, h-2))
		fb.Label(lx, ly, g.name, r.guideColor)
	}
}
