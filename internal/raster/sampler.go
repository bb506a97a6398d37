package raster

import (
	"image"
	"math"
)

// SampleBilinear filters tex at continuous pixel coordinates (u, v), where
// texel (i, j) covers [i, i+1)×[j, j+1) relative to tex.Rect.Min. Texels
// outside the image count as transparent, so edges fade out instead of
// smearing. Interpolation runs on premultiplied values; the result is
// straight color with channels in [0, 255].
// Accesses tex.Pix directly for performance.
func SampleBilinear(tex *image.NRGBA, u, v float64) (r, g, b, a float64) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()

	fx := u - 0.5
	fy := v - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	dx := fx - float64(x0)
	dy := fy - float64(y0)

	stride := tex.Stride
	pix := tex.Pix

	var pr, pg, pb, pa float64
	add := func(x, y int, weight float64) {
		if weight == 0 || x < 0 || y < 0 || x >= w || y >= h {
			return
		}
		i := y*stride + x*4
		ta := float64(pix[i+3])
		if ta == 0 {
			return
		}
		k := weight * ta / 255
		pr += float64(pix[i]) * k
		pg += float64(pix[i+1]) * k
		pb += float64(pix[i+2]) * k
		pa += ta * weight
	}

	// Four texels
	add(x0, y0, (1-dx)*(1-dy))
	add(x0+1, y0, dx*(1-dy))
	add(x0, y0+1, (1-dx)*dy)
	add(x0+1, y0+1, dx*dy)

	if pa <= 0 {
		return 0, 0, 0, 0
	}
	inv := 255 / pa
	return pr * inv, pg * inv, pb * inv, pa
}
