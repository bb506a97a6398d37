package itemlist

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strings"

	"tryon-ar/internal/preset"
)

// ErrNotFound is returned by Find for an unknown ID.
var ErrNotFound = errors.New("itemlist: item not found")

// xmlCatalog matches the catalog schema:
//
//	<Catalog>
//	  <Category Name="earrings">
//	    <Item ID="e1" Name="Gold hoops" Image="items/hoops.png"/>
//	  </Category>
//	</Catalog>
type xmlCatalog struct {
	Categories []xmlCategory `xml:"Category"`
}

type xmlCategory struct {
	Name  string    `xml:"Name,attr"`
	Items []xmlItem `xml:"Item"`
}

type xmlItem struct {
	ID    string `xml:"ID,attr"`
	Name  string `xml:"Name,attr"`
	Image string `xml:"Image,attr"`
}

// Parse reads a catalog file and returns every item that has an image.
// Unknown category names map to preset.Other.
func Parse(xmlPath string) ([]ItemDef, error) {
	raw, err := os.ReadFile(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("itemlist: read %s: %w", xmlPath, err)
	}

	var cat xmlCatalog
	if err := xml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("itemlist: parse %s: %w", xmlPath, err)
	}

	var items []ItemDef
	seen := make(map[string]bool)
	for _, sec := range cat.Categories {
		category := preset.ParseCategory(sec.Name)
		for _, item := range sec.Items {
			id := strings.TrimSpace(item.ID)
			if id == "" || item.Image == "" || seen[id] {
				continue
			}
			seen[id] = true
			items = append(items, ItemDef{
				ID:       id,
				Name:     item.Name,
				Category: category,
				Image:    item.Image,
			})
		}
	}

	return items, nil
}

// Find returns the item with the given ID.
func Find(items []ItemDef, id string) (ItemDef, error) {
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return ItemDef{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}
