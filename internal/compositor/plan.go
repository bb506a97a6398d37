package compositor

import (
	"image"

	"tryon-ar/internal/mapper"
	"tryon-ar/internal/mathutil"
	"tryon-ar/internal/overlay"
	"tryon-ar/internal/raster"
)

// Layer is one overlay instance resolved to target pixels.
type Layer struct {
	mapper.Placement
	Flip bool
}

// Layers maps a snapshot into target space: the primary first, then the
// mirrored twin (drawn from a horizontally flipped source) when present.
func Layers(snap overlay.Snapshot, f mapper.Factors, baseWidth float64) []Layer {
	layers := []Layer{{Placement: mapper.Map(snap.Primary, f, baseWidth)}}
	if snap.Mirror != nil {
		layers = append(layers, Layer{
			Placement: mapper.Map(*snap.Mirror, f, baseWidth),
			Flip:      true,
		})
	}
	return layers
}

// Plan turns layers into independent draw commands for a w×h target.
// Each matrix centers the source on the origin, scales it to the drawn
// width (height keeps the source aspect ratio), rotates it, then moves it
// to the target center plus the layer offset.
func Plan(w, h int, src *image.NRGBA, layers []Layer) []raster.DrawImage {
	if src == nil {
		return nil
	}
	sw := float64(src.Rect.Dx())
	sh := float64(src.Rect.Dy())
	if sw == 0 || sh == 0 {
		return nil
	}

	cx, cy := float64(w)/2, float64(h)/2
	cmds := make([]raster.DrawImage, 0, len(layers))
	for _, l := range layers {
		k := l.Width / sw
		cmds = append(cmds, raster.DrawImage{
			Src: src,
			Matrix: mathutil.Chain(
				mathutil.Translate(cx+l.X, cy+l.Y),
				mathutil.Rotate(mathutil.Deg2Rad(l.Rotation)),
				mathutil.Scale(k, k),
				mathutil.Translate(-sw/2, -sh/2),
			),
			Alpha:          l.Opacity,
			FlipHorizontal: l.Flip,
		})
	}
	return cmds
}
