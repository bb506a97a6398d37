package creation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon-ar/internal/compositor"
)

func artifact(name string) *compositor.Artifact {
	return &compositor.Artifact{Name: name, ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
}

func TestFileStorePublish(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	rec, err := Publish(ctx, s, artifact("a.jpg"), Record{
		SourceItemImage: "https://cdn.example.com/hoops.png",
		Description:     "gold hoops",
		ItemType:        "earrings",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, fixed, rec.CreatedAt)
	assert.Equal(t, filepath.Join(dir, "a.jpg"), rec.ResultImage)

	data, err := os.ReadFile(rec.ResultImage)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	_, err = Publish(ctx, s, artifact("b.jpg"), Record{ItemType: "ring"})
	require.NoError(t, err)

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, rec, records[0])
	assert.Equal(t, "ring", records[1].ItemType)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestFileStoreUploadIgnoresDirectoriesInName(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	path, err := s.Upload(context.Background(), artifact("../../escape.jpg"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.jpg"), path)
}

func TestFileStorePingAfterRemoval(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnreachable)
}

func TestFileStoreRejectsCorruptManifest(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("{"), 0644))

	_, err = s.Create(context.Background(), Record{})
	assert.Error(t, err)
}

func TestPublishRemovesUploadWhenRecordFails(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("corrupt"), 0644))

	_, err = Publish(context.Background(), s, artifact("lost.jpg"), Record{ItemType: "ring"})
	require.Error(t, err)

	_, err = os.Stat(filepath.Join(dir, "lost.jpg"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "image left behind: %v", err)
}

func TestFileStoreDeleteStaysInDir(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	outside := filepath.Join(t.TempDir(), "keep.jpg")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))
	assert.Error(t, s.Delete(ctx, outside))
	assert.FileExists(t, outside)

	path, err := s.Upload(ctx, artifact("a.jpg"))
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, path))
	assert.NoFileExists(t, path)
	assert.NoError(t, s.Delete(ctx, path))
}

func TestMemoryPublishRollsBack(t *testing.T) {
	m := NewMemory()
	m.FailCreate(errors.New("quota exceeded"))

	_, err := Publish(context.Background(), m, artifact("y.jpg"), Record{})
	require.Error(t, err)
	_, ok := m.Uploaded("y.jpg")
	assert.False(t, ok)
	assert.Empty(t, m.Records())
}

func TestMemoryPublisher(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	rec, err := Publish(ctx, m, artifact("x.webp"), Record{ItemType: "necklace"})
	require.NoError(t, err)
	assert.Equal(t, "mem://x.webp", rec.ResultImage)

	data, ok := m.Uploaded("x.webp")
	require.True(t, ok)
	assert.Equal(t, "jpeg-bytes", string(data))
	assert.Len(t, m.Records(), 1)

	m.SetReachable(false)
	assert.ErrorIs(t, m.Ping(ctx), ErrUnreachable)
	m.SetReachable(true)
	assert.NoError(t, m.Ping(ctx))
}
