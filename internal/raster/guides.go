package raster

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const ellipseSegments = 72

// StrokeEllipse draws an anti-aliased elliptical outline centered on
// (cx, cy) with radii (rx, ry) and the given stroke width.
func (fb *FrameBuffer) StrokeEllipse(cx, cy, rx, ry, width float64, c color.NRGBA) {
	if rx <= 0 || ry <= 0 || width <= 0 {
		return
	}
	z := vector.NewRasterizer(fb.Width, fb.Height)
	half := width / 2
	ellipsePath(z, cx, cy, rx+half, ry+half, false)
	if rx > half && ry > half {
		// Opposite winding cancels the interior, leaving a ring.
		ellipsePath(z, cx, cy, rx-half, ry-half, true)
	}
	dst := fb.Image()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func ellipsePath(z *vector.Rasterizer, cx, cy, rx, ry float64, reverse bool) {
	for i := 0; i <= ellipseSegments; i++ {
		t := 2 * math.Pi * float64(i) / ellipseSegments
		if reverse {
			t = -t
		}
		x := float32(cx + rx*math.Cos(t))
		y := float32(cy + ry*math.Sin(t))
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
}

// Label draws text with its baseline starting at (x, y).
func (fb *FrameBuffer) Label(x, y int, text string, c color.NRGBA) {
	d := &font.Drawer{
		Dst:  fb.Image(),
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// LabelWidth returns the advance width of text in pixels.
func LabelWidth(text string) int {
	return font.MeasureString(basicfont.Face7x13, text).Ceil()
}
