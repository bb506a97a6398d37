package creation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"tryon-ar/internal/compositor"
)

// ManifestName is the record list kept next to the images.
const ManifestName = "creations.json"

// FileStore publishes into a local directory: one file per image plus a
// JSON manifest of records.
type FileStore struct {
	dir string
	now func() time.Time

	mu sync.Mutex
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creation: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Dir returns the output directory.
func (s *FileStore) Dir() string { return s.dir }

// Ping checks that the directory still exists.
func (s *FileStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fi, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnreachable, s.dir)
	}
	return nil
}

// Upload writes the artifact as <dir>/<name> and returns the path.
func (s *FileStore) Upload(ctx context.Context, art *compositor.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filepath.Base(art.Name))
	if err := os.WriteFile(path, art.Data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// Create appends rec to the manifest.
func (s *FileStore) Create(ctx context.Context, rec Record) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readLocked()
	if err != nil {
		return Record{}, err
	}
	rec = stamp(rec, s.now())
	records = append(records, rec)
	if err := s.writeLocked(records); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes an image previously written by Upload. Paths outside the
// store directory are refused.
func (s *FileStore) Delete(ctx context.Context, ref string) error {
	if filepath.Dir(ref) != filepath.Clean(s.dir) || filepath.Base(ref) == ManifestName {
		return fmt.Errorf("creation: %s is not in %s", ref, s.dir)
	}
	if err := os.Remove(ref); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Records returns every stored record in creation order.
func (s *FileStore) Records() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *FileStore) readLocked() ([]Record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, ManifestName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("creation: parse manifest: %w", err)
	}
	return records, nil
}

func (s *FileStore) writeLocked(records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	tmp := filepath.Join(s.dir, ManifestName+".tmp")
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filepath.Join(s.dir, ManifestName))
}
