// Package server exposes one try-on session over HTTP: JSON control
// endpoints, a still preview and a websocket preview stream that also
// accepts pointer gestures.
package server

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"tryon-ar/internal/camera"
	"tryon-ar/internal/compositor"
	"tryon-ar/internal/log"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/tryon"
)

// Options configure the server.
type Options struct {
	Addr    string
	FPS     int // preview frames per second on /ws/preview
	Quality int // JPEG quality of preview frames
}

// Server is the control surface of a session.
type Server struct {
	app     *fiber.App
	session *tryon.Session
	opts    Options
}

// New builds the routes for session.
func New(session *tryon.Session, opts Options) *Server {
	if opts.FPS <= 0 {
		opts.FPS = 10
	}
	if opts.Quality <= 0 {
		opts.Quality = 75
	}
	s := &Server{session: session, opts: opts}

	app := fiber.New(fiber.Config{
		AppName:               "tryon-ar",
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/state", s.handleState)
	api.Post("/drag", s.handleDrag)
	api.Put("/transform", s.handleTransform)
	api.Put("/symmetric", s.handleSymmetric)
	api.Put("/guides", s.handleGuides)
	api.Put("/preview", s.handlePreviewSize)
	api.Post("/camera/switch", s.handleSwitch)
	api.Post("/camera/start", s.handleCameraStart)
	api.Post("/capture", s.handleCapture)

	app.Get("/preview.jpg", s.handlePreviewJPEG)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/preview", websocket.New(s.handlePreviewWS))

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

// Listen serves until Shutdown or ctx is cancelled.
func (s *Server) Listen(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
	log.Info("server listening", "addr", s.opts.Addr)
	return s.app.Listen(s.opts.Addr)
}

// Shutdown stops accepting requests and waits up to five seconds.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(5 * time.Second)
}

// status maps session errors to HTTP status codes.
func status(err error) int {
	switch {
	case errors.Is(err, tryon.ErrClosed):
		return fiber.StatusGone
	case errors.Is(err, tryon.ErrCaptureBusy):
		return fiber.StatusConflict
	case errors.Is(err, tryon.ErrDiscarded):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, tryon.ErrNoItem):
		return fiber.StatusBadRequest
	case errors.Is(err, compositor.ErrImageLoad):
		return fiber.StatusBadGateway
	case errors.Is(err, compositor.ErrCapture),
		errors.Is(err, mapper.ErrUnmeasured):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, camera.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, camera.ErrDeviceUnavailable),
		errors.Is(err, camera.ErrConstraint),
		errors.Is(err, camera.ErrNotStreaming):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(status(err)).JSON(fiber.Map{
		"error":       err.Error(),
		"recoverable": tryon.Recoverable(err),
	})
}
