package camera

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for device failures.
var (
	// ErrPermissionDenied is returned when camera access is refused.
	ErrPermissionDenied = errors.New("camera: permission denied")

	// ErrDeviceUnavailable is returned when no camera can be opened.
	ErrDeviceUnavailable = errors.New("camera: device unavailable")

	// ErrConstraint is returned when the requested facing or resolution
	// cannot be satisfied.
	ErrConstraint = errors.New("camera: constraints not satisfiable")

	// ErrNotStreaming is returned when reading without an active stream.
	ErrNotStreaming = errors.New("camera: not streaming")
)

// DeviceError adds operation context to a classified device failure.
type DeviceError struct {
	Op     string
	Facing Facing
	Err    error
}

// Error implements the error interface.
func (e *DeviceError) Error() string {
	return fmt.Sprintf("camera [%s %s]: %v", e.Op, e.Facing, e.Err)
}

// Unwrap returns the underlying error.
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// classify maps an unclassified backend error to ErrDeviceUnavailable.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrDeviceUnavailable),
		errors.Is(err, ErrConstraint),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}
}

// IsDeviceError reports whether err belongs to the device taxonomy
// (permission, availability or constraints).
func IsDeviceError(err error) bool {
	return errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDeviceUnavailable) ||
		errors.Is(err, ErrConstraint)
}
