// Package tryon runs one try-on session: it owns the camera, the overlay
// placement and the capture pipeline for a single catalog item.
package tryon

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"tryon-ar/internal/asset"
	"tryon-ar/internal/camera"
	"tryon-ar/internal/compositor"
	"tryon-ar/internal/creation"
	"tryon-ar/internal/log"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/overlay"
	"tryon-ar/internal/preset"
	"tryon-ar/internal/render"
)

// Item is the catalog entry being tried on.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Image    string          `json:"image"`
	Category preset.Category `json:"category"`
}

// Deps are the collaborators of a session.
type Deps struct {
	Camera     *camera.Manager
	Loader     asset.Loader
	Compositor *compositor.Compositor
	Renderer   *render.Renderer
	Publisher  creation.Publisher
	Presets    preset.Table
}

// Session coordinates one item. Captures are single-flight.
type Session struct {
	cam      *camera.Manager
	loader   asset.Loader
	comp     *compositor.Compositor
	renderer *render.Renderer
	pub      creation.Publisher
	presets  preset.Table

	state *overlay.State
	drag  *render.Drag

	mu      sync.RWMutex
	item    Item
	img     *image.NRGBA
	preview mapper.Size
	guides  bool

	busy   atomic.Bool
	closed atomic.Bool
}

// New creates an idle session with the given preview container size.
func New(d Deps, preview mapper.Size) *Session {
	if d.Presets == nil {
		d.Presets = preset.Defaults()
	}
	if d.Renderer == nil {
		d.Renderer = render.New(d.Compositor.Options().BaseWidth)
	}
	s := &Session{
		cam:      d.Camera,
		loader:   d.Loader,
		comp:     d.Compositor,
		renderer: d.Renderer,
		pub:      d.Publisher,
		presets:  d.Presets,
		state:    overlay.NewState(overlay.Default(), false),
		preview:  preview,
	}
	s.drag = render.NewDrag(s.state, s.hit)
	return s
}

// Start selects item, seeds the placement from its category preset and
// acquires the camera. A camera error leaves the item selected so Retry
// can be used.
func (s *Session) Start(ctx context.Context, item Item, facing camera.Facing) error {
	if s.closed.Load() {
		return ErrClosed
	}
	item.Category = preset.ParseCategory(string(item.Category))

	s.mu.Lock()
	s.item = item
	s.img = nil
	s.mu.Unlock()
	s.resetPlacement(item.Category)

	log.Info("session start", "item", item.ID, "item_type", item.Category, "facing", facing, "remote", asset.IsRemote(item.Image))

	if _, err := s.cam.Start(ctx, facing); err != nil {
		return fmt.Errorf("tryon: start camera: %w", err)
	}
	if _, err := s.overlay(ctx); err != nil {
		log.Warn("overlay not loaded", "item", item.ID, "error", err.Error())
	}
	return nil
}

// Retry re-acquires the camera with the current facing.
func (s *Session) Retry(ctx context.Context) error {
	return s.StartCamera(ctx, s.cam.Facing())
}

// StartCamera (re)acquires the camera for facing without touching the
// overlay placement.
func (s *Session) StartCamera(ctx context.Context, facing camera.Facing) error {
	if s.closed.Load() {
		return ErrClosed
	}
	if _, err := s.cam.Start(ctx, facing); err != nil {
		return fmt.Errorf("tryon: start camera: %w", err)
	}
	return nil
}

// SwitchCamera flips between front and back cameras.
func (s *Session) SwitchCamera(ctx context.Context) (camera.Facing, error) {
	if s.closed.Load() {
		return "", ErrClosed
	}
	st, err := s.cam.Switch(ctx)
	if err != nil {
		return s.cam.Facing(), fmt.Errorf("tryon: switch camera: %w", err)
	}
	log.Info("camera switched", "facing", st.Facing())
	return st.Facing(), nil
}

// State exposes the overlay placement for slider and drag input.
func (s *Session) State() *overlay.State { return s.state }

// Drag returns the pointer gesture tracker.
func (s *Session) Drag() *render.Drag { return s.drag }

// Item returns the selected item.
func (s *Session) Item() Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.item
}

// SetPreviewSize records the measured preview container.
func (s *Session) SetPreviewSize(size mapper.Size) {
	s.mu.Lock()
	s.preview = size
	s.mu.Unlock()
}

// PreviewSize returns the last measured preview container.
func (s *Session) PreviewSize() mapper.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.preview
}

// SetGuides toggles the placement guides in the preview.
func (s *Session) SetGuides(on bool) {
	s.mu.Lock()
	s.guides = on
	s.mu.Unlock()
}

// Guides reports whether placement guides are shown.
func (s *Session) Guides() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.guides
}

// Preview renders the current preview frame. Without a stream the frame
// area stays blank; without an overlay image only the frame is drawn.
func (s *Session) Preview(ctx context.Context) (*image.NRGBA, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	frame, err := s.cam.Frame(ctx)
	if err != nil {
		frame = nil
	}
	img, _ := s.overlay(ctx)

	s.mu.RLock()
	preview, guides := s.preview, s.guides
	s.mu.RUnlock()

	return s.renderer.Render(frame, preview, img, s.state.Snapshot(), render.Options{
		Guides: guides,
		Mirror: s.cam.PreviewMirrored(),
	})
}

// Capture composites the current frame with the current placement,
// publishes it and resets the placement. Any failure leaves the session
// exactly as it was.
func (s *Session) Capture(ctx context.Context, description string) (creation.Record, error) {
	if s.closed.Load() {
		return creation.Record{}, ErrClosed
	}
	if !s.busy.CompareAndSwap(false, true) {
		return creation.Record{}, ErrCaptureBusy
	}
	defer s.busy.Store(false)

	start := time.Now()
	s.mu.RLock()
	item, preview := s.item, s.preview
	s.mu.RUnlock()
	if item.Image == "" {
		return creation.Record{}, ErrNoItem
	}

	art, err := s.comp.Capture(ctx, s.cam, item.Image, s.state.Snapshot(), preview)
	if err != nil {
		log.Error("capture failed", err, "item", item.ID, "item_type", item.Category)
		return creation.Record{}, err
	}

	if err := s.pub.Ping(ctx); err != nil {
		log.Warn("discarding capture", "item", item.ID, "error", err.Error())
		return creation.Record{}, fmt.Errorf("%w: %w", ErrDiscarded, err)
	}

	rec, err := creation.Publish(ctx, s.pub, art, creation.Record{
		SourceItemImage: item.Image,
		Description:     description,
		ItemType:        string(item.Category),
	})
	if err != nil {
		return creation.Record{}, fmt.Errorf("tryon: %w", err)
	}

	s.resetPlacement(item.Category)
	log.Info("capture published",
		"id", rec.ID,
		"item_type", item.Category,
		"width", art.Width,
		"height", art.Height,
		"duration", time.Since(start))
	return rec, nil
}

// Busy reports whether a capture is in flight.
func (s *Session) Busy() bool { return s.busy.Load() }

// Close releases the camera. An in-flight capture may still finish.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	log.Info("session closed", "item", s.Item().ID)
	return s.cam.Stop()
}

func (s *Session) resetPlacement(c preset.Category) {
	s.state.Reset(s.presets.Lookup(c), c.Paired())
}

// overlay returns the item image, loading it once per item.
func (s *Session) overlay(ctx context.Context) (*image.NRGBA, error) {
	s.mu.RLock()
	img, ref := s.img, s.item.Image
	s.mu.RUnlock()
	if img != nil || ref == "" {
		return img, nil
	}

	img, err := s.loader.Load(ctx, ref)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.item.Image == ref {
		s.img = img
	}
	s.mu.Unlock()
	return img, nil
}

func (s *Session) hit(x, y float64) bool {
	s.mu.RLock()
	img, preview := s.img, s.preview
	s.mu.RUnlock()
	return s.renderer.Hit(preview, img, s.state.Transform(), x, y)
}
