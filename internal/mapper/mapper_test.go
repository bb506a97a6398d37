package mapper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tryon-ar/internal/overlay"
)

func TestScaleFactorsNonSquare(t *testing.T) {
	f, err := ScaleFactors(Size{300, 300}, Size{1280, 720})
	require.NoError(t, err)
	assert.InDelta(t, 1280.0/300.0, f.X, 1e-12)
	assert.InDelta(t, 720.0/300.0, f.Y, 1e-12)
}

func TestScaleFactorsUnmeasured(t *testing.T) {
	tests := []struct {
		name             string
		preview, capture Size
	}{
		{"zero preview width", Size{0, 640}, Size{1280, 720}},
		{"zero preview height", Size{360, 0}, Size{1280, 720}},
		{"zero preview", Size{}, Size{1280, 720}},
		{"negative preview", Size{-360, 640}, Size{1280, 720}},
		{"nan preview", Size{math.NaN(), 640}, Size{1280, 720}},
		{"zero capture", Size{360, 640}, Size{0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ScaleFactors(tc.preview, tc.capture)
			assert.ErrorIs(t, err, ErrUnmeasured)
			assert.Equal(t, Factors{}, f)
		})
	}
}

func TestMapPosition(t *testing.T) {
	cases := []struct {
		preview, capture Size
		px, py           float64
	}{
		{Size{300, 300}, Size{1280, 720}, 30, -60},
		{Size{360, 640}, Size{1280, 720}, -45.5, 100},
		{Size{1280, 720}, Size{1280, 720}, 12, 34},
	}
	for _, tc := range cases {
		f, err := ScaleFactors(tc.preview, tc.capture)
		require.NoError(t, err)

		p := Map(overlay.Transform{Position: overlay.Point{X: tc.px, Y: tc.py}, Scale: 1, Opacity: 1}, f, DefaultBaseWidth)
		assert.InDelta(t, tc.px*tc.capture.Width/tc.preview.Width, p.X, 1e-9)
		assert.InDelta(t, tc.py*tc.capture.Height/tc.preview.Height, p.Y, 1e-9)
	}
}

func TestMapSizeAndPassThrough(t *testing.T) {
	f, err := ScaleFactors(Size{320, 240}, Size{1280, 720})
	require.NoError(t, err)

	tr := overlay.Transform{Scale: 0.5, Rotation: -33, Opacity: 0.7}
	p := Map(tr, f, DefaultBaseWidth)

	assert.InDelta(t, 200*4*0.5, p.Width, 1e-9)
	assert.Equal(t, -33.0, p.Rotation)
	assert.Equal(t, 0.7, p.Opacity)
}

func TestMapIdentity(t *testing.T) {
	tr := overlay.Transform{Position: overlay.Point{X: 5, Y: 6}, Scale: 2, Rotation: 45, Opacity: 1}
	p := Map(tr, Identity, DefaultBaseWidth)
	assert.Equal(t, Placement{X: 5, Y: 6, Width: 400, Rotation: 45, Opacity: 1}, p)
}
