package tryon

import (
	"tryon-ar/internal/camera"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/overlay"
)

// Status is a read-only view of the session for clients.
type Status struct {
	Item        Item               `json:"item"`
	Facing      camera.Facing      `json:"facing"`
	Camera      string             `json:"camera"`
	Mirrored    bool               `json:"mirrored"`
	Transform   overlay.Transform  `json:"transform"`
	Mirror      *overlay.Transform `json:"mirror,omitempty"`
	Symmetric   bool               `json:"symmetric"`
	Guides      bool               `json:"guides"`
	Preview     mapper.Size        `json:"preview"`
	Busy        bool               `json:"busy"`
	CameraError string             `json:"camera_error,omitempty"`
}

// Status collects the current state.
func (s *Session) Status() Status {
	snap := s.state.Snapshot()
	st := Status{
		Item:      s.Item(),
		Facing:    s.cam.Facing(),
		Camera:    s.cam.State(),
		Mirrored:  s.cam.PreviewMirrored(),
		Transform: snap.Primary,
		Mirror:    snap.Mirror,
		Symmetric: s.state.Symmetric(),
		Guides:    s.Guides(),
		Preview:   s.PreviewSize(),
		Busy:      s.Busy(),
	}
	if err := s.cam.LastError(); err != nil {
		st.CameraError = err.Error()
	}
	return st
}
