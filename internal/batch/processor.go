package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"tryon-ar/internal/asset"
	"tryon-ar/internal/compositor"
	"tryon-ar/internal/log"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/overlay"
	"tryon-ar/internal/preset"
)

// Config holds all shared resources for a batch run.
type Config struct {
	Root      string // relative frame paths resolve here
	OutputDir string
	Loader    asset.Loader
	Presets   preset.Table
	BaseWidth float64
	Format    compositor.Format
	Quality   int
	Workers   int
}

// Result holds the outcome of one job.
type Result struct {
	Name    string
	Output  string
	Width   int
	Height  int
	Success bool
	Error   string
}

// Run processes all jobs using a worker pool. Results keep job order.
func Run(ctx context.Context, cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Presets == nil {
		cfg.Presets = preset.Defaults()
	}
	if cfg.BaseWidth <= 0 {
		cfg.BaseWidth = mapper.DefaultBaseWidth
	}

	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					log.Info("batch progress", "done", p, "total", total, "rate", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(ctx, cfg, idx, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(ctx context.Context, cfg Config, idx int, job Job) Result {
	name := job.Name
	if name == "" {
		name = fmt.Sprintf("job-%d", idx+1)
	}
	res := Result{Name: name}
	if err := ctx.Err(); err != nil {
		res.Error = err.Error()
		return res
	}

	output := job.Output
	if output == "" {
		output = name + cfg.Format.Ext()
	}
	if !filepath.IsLocal(output) {
		res.Error = fmt.Sprintf("output %q escapes the output directory", output)
		return res
	}

	raw, err := asset.Fetch(ctx, nil, cfg.Root, job.Frame)
	if err != nil {
		res.Error = fmt.Sprintf("frame: %v", err)
		return res
	}
	frame, err := asset.Decode(raw)
	if err != nil {
		res.Error = fmt.Sprintf("frame: %v", err)
		return res
	}

	img, err := cfg.Loader.Load(ctx, job.Overlay)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	category := preset.ParseCategory(job.ItemType)
	seed := cfg.Presets.Lookup(category)
	if job.Transform != nil {
		seed = *job.Transform
	}
	state := overlay.NewState(seed, category.Paired())
	state.SetSymmetric(job.Symmetric)

	preview := mapper.Size{Width: job.PreviewWidth, Height: job.PreviewHeight}
	out, err := compositor.Compose(frame, img, state.Snapshot(), preview, cfg.BaseWidth)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	data, err := compositor.Encode(out, cfg.Format, cfg.Quality)
	if err != nil {
		res.Error = fmt.Sprintf("encode: %v", err)
		return res
	}

	outPath := filepath.Join(cfg.OutputDir, output)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		res.Error = err.Error()
		return res
	}

	b := out.Bounds()
	res.Output = output
	res.Width, res.Height = b.Dx(), b.Dy()
	res.Success = true
	return res
}
