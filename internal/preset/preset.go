// Package preset maps an item category to the placement a try-on session
// starts from.
package preset

import (
	"strings"

	"tryon-ar/internal/overlay"
)

// Category is the catalog tag of a wearable item.
type Category string

const (
	Earrings Category = "earrings"
	Necklace Category = "necklace"
	Ring     Category = "ring"
	Bracelet Category = "bracelet"
	Other    Category = "other"
)

// ParseCategory normalizes a catalog tag. Unknown tags map to Other.
func ParseCategory(s string) Category {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case Earrings, Necklace, Ring, Bracelet:
		return c
	case "earring":
		return Earrings
	default:
		return Other
	}
}

// Paired reports whether items of this category are worn as a mirrored pair.
func (c Category) Paired() bool {
	return c == Earrings
}

// Table maps categories to seed placements.
type Table map[Category]overlay.Transform

// Defaults returns the built-in table. Offsets are preview pixels from the
// viewport center for a portrait preview around 360 wide.
func Defaults() Table {
	return Table{
		Earrings: {Position: overlay.Point{X: 60, Y: -40}, Scale: 0.35, Opacity: 1},
		Necklace: {Position: overlay.Point{X: 0, Y: 120}, Scale: 1.2, Opacity: 1},
		Ring:     {Position: overlay.Point{X: 0, Y: 80}, Scale: 0.4, Opacity: 1},
		Bracelet: {Position: overlay.Point{X: 0, Y: 150}, Scale: 0.8, Opacity: 1},
	}
}

// Lookup returns the seed for c, falling back to overlay.Default.
func (t Table) Lookup(c Category) overlay.Transform {
	if tr, ok := t[c]; ok {
		return tr.Clamped()
	}
	return overlay.Default()
}

// Clone returns an independent copy.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
