// Package compositor builds the final try-on snapshot: the raw camera frame
// at native resolution with the overlay placements mapped from preview space
// and drawn as independent commands.
package compositor

import (
	"context"
	"errors"
	"image"
	"time"

	"tryon-ar/internal/asset"
	"tryon-ar/internal/log"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/overlay"
	"tryon-ar/internal/raster"
)

// FrameSource yields the current raw (unmirrored) camera frame.
type FrameSource interface {
	Frame(ctx context.Context) (image.Image, error)
}

// Options tune the output.
type Options struct {
	BaseWidth float64 // overlay width at scale 1, in preview units
	Format    Format
	Quality   int
}

// Compositor captures snapshots. It holds no per-capture state, but callers
// serialize captures of one session.
type Compositor struct {
	loader asset.Loader
	opts   Options
}

// New creates a compositor. Zero options fall back to defaults.
func New(loader asset.Loader, opts Options) *Compositor {
	if opts.BaseWidth <= 0 {
		opts.BaseWidth = mapper.DefaultBaseWidth
	}
	if opts.Format == "" {
		opts.Format = FormatJPEG
	}
	if opts.Quality <= 0 {
		opts.Quality = DefaultQuality
	}
	return &Compositor{loader: loader, opts: opts}
}

// Options returns the effective options.
func (c *Compositor) Options() Options {
	return c.opts
}

// Capture reads one frame, composites the overlay placements in snap and
// encodes the result. Every failure is a *CaptureError; nothing partial is
// returned.
func (c *Compositor) Capture(ctx context.Context, src FrameSource, ref string, snap overlay.Snapshot, preview mapper.Size) (*Artifact, error) {
	start := time.Now()

	frame, err := src.Frame(ctx)
	if err != nil {
		return nil, fail(StageFrame, err)
	}

	fb, factors, err := prepare(frame, preview)
	if err != nil {
		return nil, err
	}

	img, err := c.loader.Load(ctx, ref)
	if err != nil {
		return nil, fail(StageLoad, err)
	}

	drawn := fb.Apply(Plan(fb.Width, fb.Height, img, Layers(snap, factors, c.opts.BaseWidth))...)

	data, err := Encode(fb.Image(), c.opts.Format, c.opts.Quality)
	if err != nil {
		return nil, fail(StageEncode, err)
	}

	log.Info("snapshot composited",
		"width", fb.Width,
		"height", fb.Height,
		"overlays", drawn,
		"scale_x", factors.X,
		"scale_y", factors.Y,
		"bytes", len(data),
		"duration", time.Since(start))
	return newArtifact(data, c.opts.Format, fb.Width, fb.Height), nil
}

// Compose draws an already-loaded overlay onto frame without encoding.
func Compose(frame image.Image, img *image.NRGBA, snap overlay.Snapshot, preview mapper.Size, baseWidth float64) (*image.NRGBA, error) {
	if img == nil {
		return nil, fail(StageLoad, errors.New("no overlay image"))
	}
	fb, factors, err := prepare(frame, preview)
	if err != nil {
		return nil, err
	}
	fb.Apply(Plan(fb.Width, fb.Height, img, Layers(snap, factors, baseWidth))...)
	return fb.Image(), nil
}

// prepare sizes the output buffer to the frame, fills it with the frame
// and computes preview-to-capture factors.
func prepare(frame image.Image, preview mapper.Size) (*raster.FrameBuffer, mapper.Factors, error) {
	if frame == nil {
		return nil, mapper.Factors{}, fail(StageFrame, errors.New("no frame"))
	}
	b := frame.Bounds()
	capture := mapper.Size{Width: float64(b.Dx()), Height: float64(b.Dy())}

	factors, err := mapper.ScaleFactors(preview, capture)
	if err != nil {
		return nil, mapper.Factors{}, fail(StageMeasure, err)
	}

	fb, err := raster.NewFrameBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, mapper.Factors{}, fail(StageAllocate, err)
	}
	fb.Blit(frame)
	return fb, factors, nil
}
