package raster

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// MaxPixels bounds a single buffer allocation (8K UHD).
const MaxPixels = 7680 * 4320

var (
	// ErrEmptyBuffer is returned for zero or negative buffer dimensions.
	ErrEmptyBuffer = errors.New("raster: empty buffer")

	// ErrBufferTooLarge is returned when the dimensions exceed MaxPixels.
	ErrBufferTooLarge = errors.New("raster: buffer too large")
)

// FrameBuffer holds the compositing target as a flat slice for cache locality.
type FrameBuffer struct {
	Width  int
	Height int
	Color  []uint8 // NRGBA interleaved, len = W*H*4
}

// NewFrameBuffer allocates a zeroed (fully transparent) buffer.
func NewFrameBuffer(w, h int) (*FrameBuffer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyBuffer, w, h)
	}
	if w*h > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrBufferTooLarge, w, h)
	}
	return &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  make([]uint8, w*h*4),
	}, nil
}

// FromImage wraps img without copying when its layout allows it.
func FromImage(img *image.NRGBA) *FrameBuffer {
	b := img.Bounds()
	if b.Min != (image.Point{}) || img.Stride != b.Dx()*4 {
		img = ToNRGBA(img)
		b = img.Bounds()
	}
	return &FrameBuffer{Width: b.Dx(), Height: b.Dy(), Color: img.Pix}
}

// Image returns an NRGBA view sharing the buffer's pixels.
func (fb *FrameBuffer) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    fb.Color,
		Stride: fb.Width * 4,
		Rect:   image.Rect(0, 0, fb.Width, fb.Height),
	}
}

// Blit draws src at (0,0), replacing the buffer contents. A source of a
// different size is resampled to fill the buffer.
func (fb *FrameBuffer) Blit(src image.Image) {
	dst := fb.Image()
	sb := src.Bounds()
	if sb.Dx() == fb.Width && sb.Dy() == fb.Height {
		draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Src)
		return
	}
	copy(fb.Color, Fit(src, fb.Width, fb.Height).Pix)
}

// ToNRGBA converts any image to an origin-anchored NRGBA image.
func ToNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) && n.Stride == n.Rect.Dx()*4 {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}
