package raster

import "image"

// FlipHorizontal returns a left-right mirrored copy of img.
func FlipHorizontal(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mirrored := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[(y)*img.Stride:]
		dst := mirrored.Pix[y*mirrored.Stride:]
		for x := 0; x < w; x++ {
			si := (w - 1 - x) * 4
			di := x * 4
			copy(dst[di:di+4], src[si:si+4])
		}
	}
	return mirrored
}
