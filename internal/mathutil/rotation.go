package mathutil

import "math"

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Mat3 {
	return Mat3{
		1, 0, tx,
		0, 1, ty,
		0, 0, 1,
	}
}

// Scale returns a scale by (sx, sy) about the origin.
func Scale(sx, sy float64) Mat3 {
	return Mat3Diag(sx, sy, 1)
}

// Rotate returns a rotation about the origin. Angle in radians.
// In a y-down raster a positive angle turns clockwise on screen.
func Rotate(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
