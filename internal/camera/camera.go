// Package camera owns the live camera stream: acquire, release and switch
// between the front and back devices.
package camera

import (
	"context"
	"image"
	"sync"
)

// Facing selects the physical camera.
type Facing string

const (
	FacingUser        Facing = "user"        // front camera
	FacingEnvironment Facing = "environment" // back camera
)

// Opposite returns the other camera.
func (f Facing) Opposite() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// Valid reports whether f names a known camera.
func (f Facing) Valid() bool {
	return f == FacingUser || f == FacingEnvironment
}

// Constraints is the stream request handed to a Device. The resolution is
// a preference; devices deliver the closest they support.
type Constraints struct {
	Facing      Facing
	IdealWidth  int
	IdealHeight int
}

// Source is an open device stream.
type Source interface {
	// Frame returns the current raw frame at native resolution.
	Frame(ctx context.Context) (image.Image, error)
	Close() error
}

// Device opens streams. Implementations classify failures with
// ErrPermissionDenied, ErrDeviceUnavailable or ErrConstraint.
type Device interface {
	Open(ctx context.Context, c Constraints) (Source, error)
}

// Stream is the handle for one acquired stream. Release is idempotent and
// must be called when the holder is done; the Manager also releases it on
// Stop and before acquiring a replacement.
type Stream struct {
	id     uint64
	facing Facing
	src    Source
	mgr    *Manager

	closeOnce sync.Once
	closeErr  error
	mu        sync.RWMutex
	closed    bool
}

// ID is unique per Manager.
func (s *Stream) ID() uint64 { return s.id }

func (s *Stream) Facing() Facing { return s.facing }

// Released reports whether the stream has been stopped.
func (s *Stream) Released() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Frame reads the current raw, unmirrored frame.
func (s *Stream) Frame(ctx context.Context) (image.Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrNotStreaming
	}
	return s.src.Frame(ctx)
}

// Release stops the stream's tracks. If it is the manager's active stream
// the manager returns to idle.
func (s *Stream) Release() error {
	if s.mgr != nil {
		return s.mgr.release(s)
	}
	return s.close()
}

func (s *Stream) close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.closeErr = s.src.Close()
	})
	return s.closeErr
}
