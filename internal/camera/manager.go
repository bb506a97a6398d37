package camera

import (
	"context"
	"errors"
	"image"
	"sync"

	"github.com/looplab/fsm"

	"tryon-ar/internal/log"
)

// Lifecycle states.
const (
	StateIdle      = "idle"
	StateStarting  = "starting"
	StateStreaming = "streaming"
	StateFailed    = "failed"
)

const (
	evStart = "start"
	evReady = "ready"
	evFail  = "fail"
	evStop  = "stop"
)

// Manager exclusively owns at most one active stream. Start, Switch and
// Stop are serialized: a replacement is only opened after the previous
// stream has been released.
type Manager struct {
	dev         Device
	idealWidth  int
	idealHeight int

	mu        sync.Mutex
	lifecycle *fsm.FSM
	stream    *Stream
	facing    Facing
	lastErr   error
	seq       uint64
}

// NewManager creates a manager that requests idealWidth×idealHeight.
func NewManager(dev Device, idealWidth, idealHeight int) *Manager {
	m := &Manager{
		dev:         dev,
		idealWidth:  idealWidth,
		idealHeight: idealHeight,
		facing:      FacingUser,
	}
	m.lifecycle = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: evStart, Src: []string{StateIdle, StateFailed}, Dst: StateStarting},
			{Name: evReady, Src: []string{StateStarting}, Dst: StateStreaming},
			{Name: evFail, Src: []string{StateStarting}, Dst: StateFailed},
			{Name: evStop, Src: []string{StateStarting, StateStreaming, StateFailed}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				log.Debug("camera state", "event", e.Event, "from", e.Src, "to", e.Dst)
			},
		},
	)
	return m
}

// Start acquires a stream for facing, releasing any active stream first.
// On failure no stream is held and the typed error is also kept in LastError.
func (m *Manager) Start(ctx context.Context, facing Facing) (*Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(ctx, facing)
}

// Switch restarts the stream on the opposite camera. If the new camera
// fails, the manager is left without an active stream.
func (m *Manager) Switch(ctx context.Context) (*Stream, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.startLocked(ctx, m.facing.Opposite())
}

// Stop releases the active stream. Safe to call when nothing is active.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopLocked()
}

// Frame returns the current raw frame of the active stream. The frame is
// never mirrored; see PreviewMirrored.
func (m *Manager) Frame(ctx context.Context) (image.Image, error) {
	m.mu.Lock()
	s := m.stream
	m.mu.Unlock()
	if s == nil {
		return nil, ErrNotStreaming
	}
	return s.Frame(ctx)
}

// Facing returns the most recently requested camera.
func (m *Manager) Facing() Facing {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.facing
}

// PreviewMirrored reports whether the live preview should be displayed
// mirrored. Only the display is mirrored; captured frames stay raw.
func (m *Manager) PreviewMirrored() bool {
	return m.Facing() == FacingUser
}

// Active reports whether a stream is currently held.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream != nil
}

// State returns the lifecycle state name.
func (m *Manager) State() string {
	return m.lifecycle.Current()
}

// LastError returns the error of the last failed start, cleared on success.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Manager) startLocked(ctx context.Context, facing Facing) (*Stream, error) {
	if err := m.stopLocked(); err != nil {
		log.Warn("camera release failed", "facing", m.facing, "error", err.Error())
	}
	m.facing = facing
	m.event(evStart)

	if !facing.Valid() {
		return nil, m.failLocked(facing, ErrConstraint)
	}

	src, err := m.dev.Open(ctx, Constraints{
		Facing:      facing,
		IdealWidth:  m.idealWidth,
		IdealHeight: m.idealHeight,
	})
	if err != nil {
		return nil, m.failLocked(facing, classify(err))
	}

	m.seq++
	m.stream = &Stream{id: m.seq, facing: facing, src: src, mgr: m}
	m.lastErr = nil
	m.event(evReady)
	log.Info("camera started", "facing", facing, "stream", m.seq)
	return m.stream, nil
}

func (m *Manager) failLocked(facing Facing, err error) error {
	derr := &DeviceError{Op: "start", Facing: facing, Err: err}
	m.lastErr = derr
	m.event(evFail)
	log.Warn("camera start failed", "facing", facing, "error", err.Error())
	return derr
}

func (m *Manager) stopLocked() error {
	s := m.stream
	m.stream = nil
	var err error
	if s != nil {
		err = s.close()
		log.Info("camera stopped", "facing", s.facing, "stream", s.id)
	}
	if m.lifecycle.Can(evStop) {
		m.event(evStop)
	}
	return err
}

func (m *Manager) release(s *Stream) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == s {
		return m.stopLocked()
	}
	return s.close()
}

func (m *Manager) event(name string) {
	err := m.lifecycle.Event(context.Background(), name)
	var noTransition fsm.NoTransitionError
	if err != nil && !errors.As(err, &noTransition) {
		log.Debug("camera transition rejected", "event", name, "error", err.Error())
	}
}
