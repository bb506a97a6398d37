package compositor

import (
	"errors"
	"fmt"
)

var (
	// ErrImageLoad reports that the overlay source image could not be
	// fetched or decoded. The capture is aborted; nothing is drawn.
	ErrImageLoad = errors.New("compositor: overlay image load failed")

	// ErrCapture covers every other capture failure: frame read,
	// missing measurements, buffer allocation and encoding.
	ErrCapture = errors.New("compositor: capture failed")
)

// Stage names the capture step that failed.
type Stage string

const (
	StageFrame    Stage = "frame"
	StageMeasure  Stage = "measure"
	StageAllocate Stage = "allocate"
	StageLoad     Stage = "load"
	StageEncode   Stage = "encode"
)

// CaptureError wraps the cause of a failed capture. It matches ErrImageLoad
// for the load stage and ErrCapture otherwise, and unwraps to the cause.
type CaptureError struct {
	Stage Stage
	Err   error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("compositor: %s: %v", e.Stage, e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}

func (e *CaptureError) Is(target error) bool {
	if e.Stage == StageLoad {
		return target == ErrImageLoad
	}
	return target == ErrCapture
}

func fail(stage Stage, err error) error {
	return &CaptureError{Stage: stage, Err: err}
}
