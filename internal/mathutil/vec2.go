package mathutil

// Vec2 is a 2D point or offset (value type, stack-allocated).
type Vec2 [2]float64
