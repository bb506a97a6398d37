package camera

import "fmt"

// Backend names accepted by NewDevice.
const (
	BackendMock = "mock"
	BackendGoCV = "gocv"
)

// NewDevice creates a camera backend by name. The mock backend delivers
// synthetic frames at width×height; gocv requires building with -tags gocv.
func NewDevice(backend string, width, height int) (Device, error) {
	switch backend {
	case "", BackendMock:
		return NewMock(width, height), nil
	case BackendGoCV:
		return newGoCV()
	default:
		return nil, fmt.Errorf("camera: unsupported backend: %s", backend)
	}
}
