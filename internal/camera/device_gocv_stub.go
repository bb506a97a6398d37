//go:build !gocv

package camera

import "fmt"

// newGoCV returns an error when built without OpenCV support.
func newGoCV() (Device, error) {
	return nil, fmt.Errorf("camera: gocv backend requires building with -tags gocv")
}
