package tryon

import (
	"errors"

	"tryon-ar/internal/camera"
	"tryon-ar/internal/compositor"
	"tryon-ar/internal/mapper"
)

var (
	// ErrCaptureBusy is returned when a capture is already in flight.
	ErrCaptureBusy = errors.New("tryon: capture already in progress")

	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("tryon: session closed")

	// ErrDiscarded is returned when a composited result is dropped because
	// the publisher became unreachable.
	ErrDiscarded = errors.New("tryon: result discarded")

	// ErrNoItem is returned when capturing before an item is selected.
	ErrNoItem = errors.New("tryon: no item selected")
)

// Recoverable reports whether the user can simply retry after err. Only a
// closed session is terminal.
func Recoverable(err error) bool {
	if err == nil || errors.Is(err, ErrClosed) {
		return false
	}
	if camera.IsDeviceError(err) {
		return true
	}
	for _, target := range []error{
		camera.ErrNotStreaming,
		compositor.ErrImageLoad,
		compositor.ErrCapture,
		mapper.ErrUnmeasured,
		ErrCaptureBusy,
		ErrDiscarded,
		ErrNoItem,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
