package raster

import (
	"image"
	"math"

	"tryon-ar/internal/mathutil"
)

// DrawImage is one entry in an ordered draw-command list. Commands are
// applied back to front and never share transform state.
type DrawImage struct {
	Src *image.NRGBA

	// Matrix maps source pixel space onto buffer pixel space.
	Matrix mathutil.Mat3

	// Alpha is the global opacity in [0, 1].
	Alpha float64

	// FlipHorizontal mirrors the source about its vertical center line
	// before Matrix is applied.
	FlipHorizontal bool
}

// Effective returns the matrix actually used for sampling, including the flip.
func (d DrawImage) Effective() mathutil.Mat3 {
	if !d.FlipHorizontal || d.Src == nil {
		return d.Matrix
	}
	w := float64(d.Src.Rect.Dx())
	return mathutil.Chain(d.Matrix, mathutil.Translate(w, 0), mathutil.MirrorX)
}

// Bounds returns the buffer-space rectangle the command can touch.
func (d DrawImage) Bounds() image.Rectangle {
	if d.Src == nil {
		return image.Rectangle{}
	}
	m := d.Effective()
	w := float64(d.Src.Rect.Dx())
	h := float64(d.Src.Rect.Dy())

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := m.Apply(c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return image.Rect(
		int(math.Floor(minX))-1, int(math.Floor(minY))-1,
		int(math.Ceil(maxX))+1, int(math.Ceil(maxY))+1,
	)
}

// Apply executes the commands in order and returns how many produced output.
// Degenerate commands (nil source, zero alpha, singular matrix) are skipped.
func (fb *FrameBuffer) Apply(cmds ...DrawImage) int {
	drawn := 0
	for _, cmd := range cmds {
		if fb.draw(cmd) {
			drawn++
		}
	}
	return drawn
}

func (fb *FrameBuffer) draw(cmd DrawImage) bool {
	if cmd.Src == nil || cmd.Alpha <= 0 {
		return false
	}
	sw := float64(cmd.Src.Rect.Dx())
	sh := float64(cmd.Src.Rect.Dy())
	if sw == 0 || sh == 0 {
		return false
	}
	m := cmd.Effective()
	if !m.Invertible() {
		return false
	}
	inv := m.Inverse()
	alpha := math.Min(cmd.Alpha, 1)

	r := cmd.Bounds().Intersect(image.Rect(0, 0, fb.Width, fb.Height))
	if r.Empty() {
		return false
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * fb.Width * 4
		for x := r.Min.X; x < r.Max.X; x++ {
			u, v := inv.Apply(float64(x)+0.5, float64(y)+0.5)
			if u < -0.5 || v < -0.5 || u > sw+0.5 || v > sh+0.5 {
				continue
			}
			sr, sg, sb, sa := SampleBilinear(cmd.Src, u, v)
			sa *= alpha
			if sa <= 0 {
				continue
			}
			i := row + x*4
			blendOver(fb.Color[i:i+4], sr, sg, sb, sa)
		}
	}
	return true
}

// blendOver composites a straight-alpha source color over dst in place.
func blendOver(dst []uint8, sr, sg, sb, sa float64) {
	srcA := sa / 255
	dstA := float64(dst[3]) / 255
	outA := srcA + dstA*(1-srcA)
	if outA <= 0 {
		dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0
		return
	}
	k := dstA * (1 - srcA)
	dst[0] = clamp8((sr*srcA + float64(dst[0])*k) / outA)
	dst[1] = clamp8((sg*srcA + float64(dst[1])*k) / outA)
	dst[2] = clamp8((sb*srcA + float64(dst[2])*k) / outA)
	dst[3] = clamp8(outA * 255)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
