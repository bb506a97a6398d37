package server

import (
	"github.com/gofiber/fiber/v2"

	"tryon-ar/internal/camera"
	"tryon-ar/internal/mapper"
)

// DragRequest moves the primary overlay by a preview-space delta.
type DragRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// TransformRequest sets any subset of the slider values.
type TransformRequest struct {
	Scale    *float64 `json:"scale"`
	Rotation *float64 `json:"rotation"`
	Opacity  *float64 `json:"opacity"`
}

// ToggleRequest switches a boolean option.
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// CameraRequest selects a camera; empty keeps the current one.
type CameraRequest struct {
	Facing camera.Facing `json:"facing"`
}

// CaptureRequest carries the creation description.
type CaptureRequest struct {
	Description string `json:"description"`
}

func (s *Server) handleState(c *fiber.Ctx) error {
	return c.JSON(s.session.Status())
}

func (s *Server) handleDrag(c *fiber.Ctx) error {
	var req DragRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	pos := s.session.State().ApplyDragDelta(req.DX, req.DY)
	return c.JSON(fiber.Map{"position": pos})
}

func (s *Server) handleTransform(c *fiber.Ctx) error {
	var req TransformRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	st := s.session.State()
	if req.Scale != nil {
		st.SetScale(*req.Scale)
	}
	if req.Rotation != nil {
		st.SetRotation(*req.Rotation)
	}
	if req.Opacity != nil {
		st.SetOpacity(*req.Opacity)
	}
	return c.JSON(st.Snapshot())
}

func (s *Server) handleSymmetric(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	st := s.session.State()
	st.SetSymmetric(req.Enabled)
	return c.JSON(st.Snapshot())
}

func (s *Server) handleGuides(c *fiber.Ctx) error {
	var req ToggleRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	s.session.SetGuides(req.Enabled)
	return c.JSON(fiber.Map{"guides": req.Enabled})
}

func (s *Server) handlePreviewSize(c *fiber.Ctx) error {
	var req mapper.Size
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if !req.Measured() {
		return fiber.NewError(fiber.StatusBadRequest, "preview size must be positive")
	}
	s.session.SetPreviewSize(req)
	return c.JSON(req)
}

func (s *Server) handleSwitch(c *fiber.Ctx) error {
	facing, err := s.session.SwitchCamera(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"facing": facing})
}

func (s *Server) handleCameraStart(c *fiber.Ctx) error {
	var req CameraRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	var err error
	if req.Facing == "" {
		err = s.session.Retry(c.UserContext())
	} else {
		err = s.session.StartCamera(c.UserContext(), req.Facing)
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(s.session.Status())
}

func (s *Server) handleCapture(c *fiber.Ctx) error {
	var req CaptureRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}
	rec, err := s.session.Capture(c.UserContext(), req.Description)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

func (s *Server) handlePreviewJPEG(c *fiber.Ctx) error {
	data, err := s.previewJPEG(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("jpg")
	return c.Send(data)
}
