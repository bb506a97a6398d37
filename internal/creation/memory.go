package creation

import (
	"context"
	"strings"
	"sync"
	"time"

	"tryon-ar/internal/compositor"
)

// Memory is an in-process publisher. It starts reachable.
type Memory struct {
	mu          sync.Mutex
	unreachable bool
	createErr   error
	uploads     map[string][]byte
	records     []Record
}

// NewMemory creates an empty publisher.
func NewMemory() *Memory {
	return &Memory{uploads: make(map[string][]byte)}
}

// SetReachable toggles what Ping reports.
func (m *Memory) SetReachable(ok bool) {
	m.mu.Lock()
	m.unreachable = !ok
	m.mu.Unlock()
}

func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unreachable {
		return ErrUnreachable
	}
	return ctx.Err()
}

func (m *Memory) Upload(ctx context.Context, art *compositor.Artifact) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[art.Name] = append([]byte(nil), art.Data...)
	return "mem://" + art.Name, nil
}

// FailCreate makes every following Create return err; nil restores it.
func (m *Memory) FailCreate(err error) {
	m.mu.Lock()
	m.createErr = err
	m.mu.Unlock()
}

func (m *Memory) Create(ctx context.Context, rec Record) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return Record{}, m.createErr
	}
	rec = stamp(rec, time.Now())
	m.records = append(m.records, rec)
	return rec, nil
}

func (m *Memory) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.uploads, strings.TrimPrefix(ref, "mem://"))
	return nil
}

// Records returns a copy of the stored records.
func (m *Memory) Records() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Record(nil), m.records...)
}

// Uploads returns how many images are currently stored.
func (m *Memory) Uploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

// Uploaded returns the bytes stored under name.
func (m *Memory) Uploaded(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.uploads[name]
	return data, ok
}
