package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"tryon-ar/internal/overlay"
)

// Job describes one offline composite: a still frame, the overlay placed on
// it as it was arranged in a preview of the given size, and the output name.
type Job struct {
	Name          string             `json:"name"`
	Frame         string             `json:"frame"`
	Overlay       string             `json:"overlay"`
	ItemType      string             `json:"item_type"`
	PreviewWidth  float64            `json:"preview_width"`
	PreviewHeight float64            `json:"preview_height"`
	Transform     *overlay.Transform `json:"transform,omitempty"` // nil uses the item type preset
	Symmetric     bool               `json:"symmetric"`
	Output        string             `json:"output"`
}

// LoadJobs reads a job file: either a JSON array of jobs or {"jobs": [...]}.
func LoadJobs(path string) ([]Job, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("batch: read %s: %w", path, err)
	}

	var jobs []Job
	if err := json.Unmarshal(raw, &jobs); err == nil {
		return jobs, nil
	}
	var wrapped struct {
		Jobs []Job `json:"jobs"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("batch: parse %s: %w", path, err)
	}
	return wrapped.Jobs, nil
}
