package camera

import (
	"context"
	"image"
	"image/color"
	"sync"
)

// Mock is an in-memory Device for tests and demos. Frames are synthetic
// gradients: red grows left to right, green top to bottom, and blue encodes
// the facing (64 for user, 192 for environment), so orientation and the
// source camera can be read back from pixels.
type Mock struct {
	// MaxWidth and MaxHeight cap the delivered resolution.
	MaxWidth  int
	MaxHeight int

	mu       sync.Mutex
	next     error
	failures map[Facing]error
	open     int
	opened   int
}

// NewMock creates a mock camera with the given native resolution.
func NewMock(maxWidth, maxHeight int) *Mock {
	return &Mock{
		MaxWidth:  maxWidth,
		MaxHeight: maxHeight,
		failures:  make(map[Facing]error),
	}
}

// FailNext makes the next Open return err.
func (m *Mock) FailNext(err error) {
	m.mu.Lock()
	m.next = err
	m.mu.Unlock()
}

// FailFacing makes every Open for f return err until cleared with nil.
func (m *Mock) FailFacing(f Facing, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, f)
		return
	}
	m.failures[f] = err
}

// OpenStreams returns the number of streams opened and not yet closed.
func (m *Mock) OpenStreams() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Opened returns the total number of successful opens.
func (m *Mock) Opened() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opened
}

// Open implements Device.
func (m *Mock) Open(ctx context.Context, c Constraints) (Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.next; err != nil {
		m.next = nil
		return nil, err
	}
	if err := m.failures[c.Facing]; err != nil {
		return nil, err
	}

	w, h := pick(c.IdealWidth, m.MaxWidth), pick(c.IdealHeight, m.MaxHeight)
	if w <= 0 || h <= 0 {
		return nil, ErrConstraint
	}

	m.open++
	m.opened++
	return &mockSource{mock: m, frame: SyntheticFrame(w, h, c.Facing)}, nil
}

func pick(ideal, limit int) int {
	if ideal <= 0 || ideal > limit {
		return limit
	}
	return ideal
}

type mockSource struct {
	mock  *Mock
	frame *image.NRGBA

	mu     sync.Mutex
	closed bool
}

func (s *mockSource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrNotStreaming
	}
	out := *s.frame
	out.Pix = append([]uint8(nil), s.frame.Pix...)
	return &out, nil
}

func (s *mockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.mock.mu.Lock()
	s.mock.open--
	s.mock.mu.Unlock()
	return nil
}

// SyntheticFrame renders the mock camera pattern.
func SyntheticFrame(w, h int, f Facing) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	blue := uint8(64)
	if f == FacingEnvironment {
		blue = 192
	}
	for y := 0; y < h; y++ {
		g := uint8(y * 255 / max(h-1, 1))
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 255 / max(w-1, 1)), g, blue, 255})
		}
	}
	return img
}
