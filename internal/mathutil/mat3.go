package mathutil

// Mat3 is a 3×3 homogeneous 2D transform stored row-major:
// [r0c0, r0c1, r0c2, r1c0, ...]. Points are column vectors (x, y, 1), so
// Mat3Mul(a, b) applies b first, then a.
// Value type for zero heap allocation.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

func Mat3Diag(x, y, z float64) Mat3 {
	return Mat3{x, 0, 0, 0, y, 0, 0, 0, z}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return m
}

// Chain multiplies the matrices left to right: Chain(a, b, c) = a × b × c.
// The rightmost matrix is applied to a point first.
func Chain(ms ...Mat3) Mat3 {
	out := Mat3Identity()
	for _, m := range ms {
		out = Mat3Mul(out, m)
	}
	return out
}

// Apply transforms the point (x, y).
func (m Mat3) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// ApplyVec transforms v as a point.
func (m Mat3) ApplyVec(v Vec2) Vec2 {
	x, y := m.Apply(v[0], v[1])
	return Vec2{x, y}
}

func (m Mat3) Det() float64 {
	return m[0]*(m[4]*m[8]-m[5]*m[7]) -
		m[1]*(m[3]*m[8]-m[5]*m[6]) +
		m[2]*(m[3]*m[7]-m[4]*m[6])
}

// Invertible reports whether the matrix has a usable inverse.
func (m Mat3) Invertible() bool {
	d := m.Det()
	return d > 1e-12 || d < -1e-12
}

// Inverse returns m⁻¹, or identity when m is singular. Check Invertible
// first when a singular input must be detected.
func (m Mat3) Inverse() Mat3 {
	d := m.Det()
	if d == 0 {
		return Mat3Identity()
	}
	invD := 1.0 / d
	return Mat3{
		(m[4]*m[8] - m[5]*m[7]) * invD,
		(m[2]*m[7] - m[1]*m[8]) * invD,
		(m[1]*m[5] - m[2]*m[4]) * invD,
		(m[5]*m[6] - m[3]*m[8]) * invD,
		(m[0]*m[8] - m[2]*m[6]) * invD,
		(m[2]*m[3] - m[0]*m[5]) * invD,
		(m[3]*m[7] - m[4]*m[6]) * invD,
		(m[1]*m[6] - m[0]*m[7]) * invD,
		(m[0]*m[4] - m[1]*m[3]) * invD,
	}
}
