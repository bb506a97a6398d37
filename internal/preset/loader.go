package preset

import (
	"encoding/json"
	"fmt"
	"os"

	"tryon-ar/internal/overlay"
)

// overrideFile matches the JSON schema of a preset override file:
//
//	{
//	  "presets":    {"lobe": {"x": 70, "y": -30, "scale": 0.3}},
//	  "categories": {"earrings": "lobe", "ring": {"scale": 0.5}}
//	}
//
// A category entry is either a named preset or an inline entry. Fields left
// out keep the base table's value.
type overrideFile struct {
	Presets    map[string]json.RawMessage `json:"presets"`
	Categories map[string]json.RawMessage `json:"categories"`
}

type overrideEntry struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Scale    *float64 `json:"scale"`
	Rotation *float64 `json:"rotation"`
	Opacity  *float64 `json:"opacity"`
}

// Load reads an override file and merges it over base. The result is
// clamped to the transform domains; base is not modified.
func Load(path string, base Table) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}

	var file overrideFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", path, err)
	}

	out := base.Clone()
	for name, rawEntry := range file.Categories {
		entry, err := resolveEntry(rawEntry, file.Presets)
		if err != nil {
			return nil, fmt.Errorf("preset: category %q: %w", name, err)
		}
		c := ParseCategory(name)
		tr, ok := out[c]
		if !ok {
			tr = overlay.Default()
		}
		out[c] = entry.apply(tr).Clamped()
	}
	return out, nil
}

// resolveEntry resolves a json.RawMessage that is either a preset name (string)
// or an inline entry.
func resolveEntry(raw json.RawMessage, presets map[string]json.RawMessage) (*overrideEntry, error) {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		presetRaw, ok := presets[name]
		if !ok {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		raw = presetRaw
	}

	var e overrideEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (e *overrideEntry) apply(t overlay.Transform) overlay.Transform {
	if e.X != nil {
		t.Position.X = *e.X
	}
	if e.Y != nil {
		t.Position.Y = *e.Y
	}
	if e.Scale != nil {
		t.Scale = *e.Scale
	}
	if e.Rotation != nil {
		t.Rotation = *e.Rotation
	}
	if e.Opacity != nil {
		t.Opacity = *e.Opacity
	}
	return t
}
