//go:build gocv

package camera

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// GoCV opens cameras through OpenCV. Facing modes map to device indices.
type GoCV struct {
	Indices map[Facing]int
}

func newGoCV() (Device, error) {
	return &GoCV{Indices: map[Facing]int{FacingUser: 0, FacingEnvironment: 1}}, nil
}

// Open implements Device.
func (g *GoCV) Open(ctx context.Context, c Constraints) (Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	idx, ok := g.Indices[c.Facing]
	if !ok {
		return nil, fmt.Errorf("%w: no device for facing %s", ErrConstraint, c.Facing)
	}

	vc, err := gocv.OpenVideoCapture(idx)
	if err != nil {
		return nil, fmt.Errorf("%w: open %d: %v", ErrDeviceUnavailable, idx, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("%w: device %d not opened", ErrDeviceUnavailable, idx)
	}
	if c.IdealWidth > 0 {
		vc.Set(gocv.VideoCaptureFrameWidth, float64(c.IdealWidth))
	}
	if c.IdealHeight > 0 {
		vc.Set(gocv.VideoCaptureFrameHeight, float64(c.IdealHeight))
	}

	return &gocvSource{vc: vc, mat: gocv.NewMat()}, nil
}

type gocvSource struct {
	mu     sync.Mutex // protects vc and mat
	vc     *gocv.VideoCapture
	mat    gocv.Mat
	closed bool
}

func (s *gocvSource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrNotStreaming
	}
	if ok := s.vc.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, fmt.Errorf("%w: read failed", ErrDeviceUnavailable)
	}
	return s.mat.ToImage()
}

func (s *gocvSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.mat.Close(); err != nil {
		return err
	}
	return s.vc.Close()
}
