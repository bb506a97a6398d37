package overlay

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDragDeltaSumsDeltas(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	deltas := make([][2]float64, 200)
	var wantX, wantY float64
	for i := range deltas {
		// Integral deltas keep the float sum exact regardless of order.
		deltas[i] = [2]float64{float64(rng.Intn(81) - 40), float64(rng.Intn(81) - 40)}
		wantX += deltas[i][0]
		wantY += deltas[i][1]
	}

	forward := NewState(Default(), false)
	for _, d := range deltas {
		forward.ApplyDragDelta(d[0], d[1])
	}
	backward := NewState(Default(), false)
	for i := len(deltas) - 1; i >= 0; i-- {
		backward.ApplyDragDelta(deltas[i][0], deltas[i][1])
	}

	assert.Equal(t, Point{wantX, wantY}, forward.Transform().Position)
	assert.Equal(t, forward.Transform().Position, backward.Transform().Position)
}

func TestApplyDragDeltaIsNotClamped(t *testing.T) {
	s := NewState(Default(), false)
	s.ApplyDragDelta(-5000, 12000)
	assert.Equal(t, Point{-5000, 12000}, s.Transform().Position)
}

func TestApplyDragDeltaIgnoresNonFinite(t *testing.T) {
	s := NewState(Default(), false)
	s.ApplyDragDelta(3, 4)
	s.ApplyDragDelta(math.NaN(), 1)
	s.ApplyDragDelta(1, math.Inf(-1))
	assert.Equal(t, Point{3, 4}, s.Transform().Position)
}

func TestSettersClamp(t *testing.T) {
	s := NewState(Default(), false)

	tests := []struct {
		name string
		set  func(float64) float64
		in   float64
		want float64
	}{
		{"scale above", s.SetScale, 5, 3.0},
		{"scale below", s.SetScale, -1, 0.1},
		{"scale inside", s.SetScale, 0.4, 0.4},
		{"rotation above", s.SetRotation, 200, 180},
		{"rotation below", s.SetRotation, -720, -180},
		{"rotation inside", s.SetRotation, 10, 10},
		{"opacity zero", s.SetOpacity, 0, 0.3},
		{"opacity above", s.SetOpacity, 2, 1.0},
		{"opacity inside", s.SetOpacity, 0.65, 0.65},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.set(tc.in))
		})
	}

	got := s.Transform()
	assert.Equal(t, 0.4, got.Scale)
	assert.Equal(t, 10.0, got.Rotation)
	assert.Equal(t, 0.65, got.Opacity)
}

func TestResetClampsSeed(t *testing.T) {
	s := NewState(Transform{Scale: 9, Rotation: -300, Opacity: 0}, false)
	got := s.Transform()
	assert.Equal(t, MaxScale, got.Scale)
	assert.Equal(t, MinRotation, got.Rotation)
	assert.Equal(t, MinOpacity, got.Opacity)
}

func TestDerivedMirror(t *testing.T) {
	for _, x := range []float64{0, 50, -50, 1e6} {
		for _, rot := range []float64{0, 10, -10, 180, -180} {
			s := NewState(Transform{Position: Point{x, -80}, Scale: 0.4, Rotation: rot, Opacity: 1}, true)
			s.SetSymmetric(true)

			m, ok := s.DerivedMirror()
			require.True(t, ok)
			assert.Equal(t, -x, m.Position.X)
			assert.Equal(t, -80.0, m.Position.Y)
			assert.Equal(t, -rot, m.Rotation)
			assert.Equal(t, 0.4, m.Scale)
			assert.Equal(t, 1.0, m.Opacity)
		}
	}
}

func TestDerivedMirrorFollowsPrimary(t *testing.T) {
	s := NewState(Transform{Position: Point{50, -80}, Scale: 0.4, Rotation: 10, Opacity: 1}, true)
	s.SetSymmetric(true)

	s.ApplyDragDelta(10, 5)
	s.SetRotation(-30)
	s.SetScale(0.8)

	snap := s.Snapshot()
	require.NotNil(t, snap.Mirror)
	assert.Equal(t, Mirror(snap.Primary), *snap.Mirror)
	assert.Equal(t, Point{-60, -75}, snap.Mirror.Position)
	assert.Equal(t, 30.0, snap.Mirror.Rotation)
	assert.Equal(t, 0.8, snap.Mirror.Scale)
}

func TestDerivedMirrorInactive(t *testing.T) {
	paired := NewState(Default(), true)
	_, ok := paired.DerivedMirror()
	assert.False(t, ok, "symmetric off")
	assert.Nil(t, paired.Snapshot().Mirror)

	single := NewState(Default(), false)
	single.SetSymmetric(true)
	_, ok = single.DerivedMirror()
	assert.False(t, ok, "category without pairing")
	assert.Nil(t, single.Snapshot().Mirror)
}
