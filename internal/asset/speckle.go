package asset

import "image"

// Components labels the 8-connected groups of visible (alpha > 0) pixels.
// It returns a label per pixel (-1 for transparent, row-major) and the
// pixel count of each group.
func Components(img *image.NRGBA) (labels []int, sizes []int) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	labels = make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}
	visible := func(i int) bool {
		x, y := i%w, i/w
		return img.Pix[y*img.Stride+x*4+3] > 0
	}

	stack := make([]int, 0, 256)
	for start := range labels {
		if labels[start] >= 0 || !visible(start) {
			continue
		}
		id := len(sizes)
		labels[start] = id
		stack = append(stack[:0], start)
		size := 0
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			cx, cy := cur%w, cur/w
			for ny := max(cy-1, 0); ny <= min(cy+1, h-1); ny++ {
				for nx := max(cx-1, 0); nx <= min(cx+1, w-1); nx++ {
					n := ny*w + nx
					if labels[n] < 0 && visible(n) {
						labels[n] = id
						stack = append(stack, n)
					}
				}
			}
		}
		sizes = append(sizes, size)
	}
	return labels, sizes
}

// Despeckle clears visible groups smaller than minRatio of all visible
// pixels, such as stray specks left by background removal. img is not
// modified; it is returned as is when nothing is removed.
func Despeckle(img *image.NRGBA, minRatio float64) (*image.NRGBA, int) {
	if minRatio <= 0 {
		return img, 0
	}
	labels, sizes := Components(img)
	if len(sizes) <= 1 {
		return img, 0
	}
	total := 0
	for _, n := range sizes {
		total += n
	}
	minSize := int(float64(total) * minRatio)

	w := img.Bounds().Dx()
	var out *image.NRGBA
	removed := 0
	for i, l := range labels {
		if l < 0 || sizes[l] >= minSize {
			continue
		}
		if out == nil {
			out = image.NewNRGBA(img.Bounds())
			copy(out.Pix, img.Pix)
		}
		p := (i/w)*out.Stride + (i%w)*4
		out.Pix[p], out.Pix[p+1], out.Pix[p+2], out.Pix[p+3] = 0, 0, 0, 0
		removed++
	}
	if out == nil {
		return img, 0
	}
	return out, removed
}
