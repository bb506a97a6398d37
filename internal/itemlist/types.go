package itemlist

import "tryon-ar/internal/preset"

// ItemDef holds one catalog entry parsed from the catalog XML.
type ItemDef struct {
	ID       string
	Name     string
	Category preset.Category
	Image    string // URL or path of the overlay image
}
