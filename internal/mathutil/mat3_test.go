package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChainAppliesRightmostFirst(t *testing.T) {
	// translate then rotate 90°: (1, 0) -> (11, 0) -> (0, 11)
	m := Chain(Rotate(math.Pi/2), Translate(10, 0))
	x, y := m.Apply(1, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 11, y, 1e-9)
}

func TestInverseRoundTrip(t *testing.T) {
	m := Chain(Translate(640, 360), Rotate(Deg2Rad(-35)), Scale(2.5, 0.75), Translate(-50, -20))
	if !assert.True(t, m.Invertible()) {
		return
	}
	inv := m.Inverse()
	for _, p := range []Vec2{{0, 0}, {12.5, -3}, {100, 100}} {
		got := inv.ApplyVec(m.ApplyVec(p))
		assert.InDelta(t, p[0], got[0], 1e-9)
		assert.InDelta(t, p[1], got[1], 1e-9)
	}
}

func TestSingularMatrix(t *testing.T) {
	m := Scale(0, 1)
	assert.False(t, m.Invertible())
	assert.Equal(t, Mat3Identity(), m.Inverse())
}

func TestRotatePositiveIsClockwiseInRaster(t *testing.T) {
	// y-down: +x rotated by +90° lands on +y, i.e. below the origin.
	x, y := Rotate(Deg2Rad(90)).Apply(1, 0)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
}

func TestMirrorX(t *testing.T) {
	x, y := MirrorX.Apply(3, 4)
	assert.Equal(t, -3.0, x)
	assert.Equal(t, 4.0, y)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0.1, 3, 3},
		{-1, 0.1, 3, 0.1},
		{1.5, 0.1, 3, 1.5},
		{math.NaN(), 0.3, 1, 0.3},
		{math.Inf(1), -180, 180, 180},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Clamp(tc.v, tc.lo, tc.hi))
	}
}
