package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon-ar/internal/overlay"
)

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"earrings":   Earrings,
		" Earrings ": Earrings,
		"earring":    Earrings,
		"NECKLACE":   Necklace,
		"ring":       Ring,
		"bracelet":   Bracelet,
		"tiara":      Other,
		"":           Other,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseCategory(in), in)
	}
}

func TestPaired(t *testing.T) {
	assert.True(t, Earrings.Paired())
	for _, c := range []Category{Necklace, Ring, Bracelet, Other} {
		assert.False(t, c.Paired(), c)
	}
}

func TestLookup(t *testing.T) {
	table := Defaults()
	for _, c := range []Category{Earrings, Necklace, Ring, Bracelet} {
		got := table.Lookup(c)
		assert.Equal(t, got, got.Clamped(), c)
		assert.Positive(t, got.Scale, c)
	}

	got := table.Lookup(Other)
	assert.Equal(t, overlay.Point{}, got.Position)
	assert.Equal(t, 1.0, got.Scale)
	assert.Equal(t, 1.0, got.Opacity)
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"presets": {"lobe": {"x": 70, "y": -30, "scale": 0.3}},
		"categories": {
			"earrings": "lobe",
			"ring": {"scale": 9},
			"anklet": {"y": 300}
		}
	}`), 0644))

	base := Defaults()
	table, err := Load(path, base)
	require.NoError(t, err)

	ear := table.Lookup(Earrings)
	assert.Equal(t, overlay.Point{X: 70, Y: -30}, ear.Position)
	assert.Equal(t, 0.3, ear.Scale)

	ring := table.Lookup(Ring)
	assert.Equal(t, overlay.MaxScale, ring.Scale, "clamped")
	assert.Equal(t, base[Ring].Position, ring.Position, "unset fields kept")

	assert.Equal(t, 300.0, table.Lookup(Other).Position.Y)
	assert.Equal(t, 60.0, base[Earrings].Position.X, "base untouched")
}

func TestLoadUnknownPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"categories": {"ring": "missing"}}`), 0644))

	_, err := Load(path, Defaults())
	assert.ErrorContains(t, err, "unknown preset")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), Defaults())
	assert.Error(t, err)
}
