package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/websocket/v2"

	"tryon-ar/internal/compositor"
	"tryon-ar/internal/log"
	"tryon-ar/internal/overlay"
)

// Input is a pointer message received on /ws/preview.
type Input struct {
	Type string  `json:"type"` // down, move, up or delta
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
}

// apply routes one pointer message to the session. It returns the primary
// position after the message.
func (s *Server) apply(in Input) overlay.Point {
	d := s.session.Drag()
	switch in.Type {
	case "down":
		d.Down(in.X, in.Y)
	case "move":
		d.Move(in.X, in.Y)
	case "up":
		d.Up(in.X, in.Y)
	case "delta":
		return s.session.State().ApplyDragDelta(in.DX, in.DY)
	}
	return s.session.State().Transform().Position
}

func (s *Server) previewJPEG(ctx context.Context) ([]byte, error) {
	img, err := s.session.Preview(ctx)
	if err != nil {
		return nil, err
	}
	return compositor.Encode(img, compositor.FormatJPEG, s.opts.Quality)
}

// handlePreviewWS pushes binary JPEG frames and reads pointer input.
// Only the writer goroutine writes to the connection.
func (s *Server) handlePreviewWS(c *websocket.Conn) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log.Info("preview client connected", "remote", c.RemoteAddr().String())

	go func() {
		defer cancel()
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			var in Input
			if err := json.Unmarshal(msg, &in); err != nil {
				log.Debug("bad preview input", "error", err.Error())
				continue
			}
			s.apply(in)
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(s.opts.FPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("preview client disconnected", "remote", c.RemoteAddr().String())
			return
		case <-ticker.C:
			data, err := s.previewJPEG(ctx)
			if err != nil {
				log.Debug("preview frame skipped", "error", err.Error())
				continue
			}
			if err := c.WriteMessage(websocket.BinaryMessage, data); err != nil {
				return
			}
		}
	}
}
