package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one job in the output manifest.
type ManifestEntry struct {
	Name     string `json:"name"`
	ItemType string `json:"item_type"`
	Overlay  string `json:"overlay"`
	Image    string `json:"image,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Error    string `json:"error,omitempty"`
}

// WriteManifest writes one entry per job. jobs and results must be parallel.
func WriteManifest(path string, jobs []Job, results []Result) error {
	entries := make([]ManifestEntry, len(results))
	for i, r := range results {
		entries[i] = ManifestEntry{
			Name:     r.Name,
			ItemType: jobs[i].ItemType,
			Overlay:  jobs[i].Overlay,
			Image:    r.Output,
			Width:    r.Width,
			Height:   r.Height,
			Error:    r.Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Summary counts successes and failures.
func Summary(results []Result) (ok, failed int) {
	for _, r := range results {
		if r.Success {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
