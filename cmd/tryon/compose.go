package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"tryon-ar/internal/asset"
	"tryon-ar/internal/batch"
)

func composeCommand() *cli.Command {
	return &cli.Command{
		Name:      "compose",
		Usage:     "Composite a batch of still frames from a job file",
		ArgsUsage: "<jobs.json>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "workers", Usage: "Number of worker goroutines (default: NumCPU)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if w := int(cmd.Int("workers")); w > 0 {
				cfg.Workers = w
			}

			jobsPath := cmd.Args().First()
			if jobsPath == "" {
				return fmt.Errorf("missing job file argument")
			}
			jobs, err := batch.LoadJobs(jobsPath)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Println("No jobs to compose.")
				return nil
			}

			presets, err := loadPresets(cfg)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
				return err
			}

			root := filepath.Dir(jobsPath)
			cache := asset.NewCache(nil, root)
			cache.MinComponent = cfg.Despeckle
			fmt.Printf("Jobs: %d, Workers: %d\n", len(jobs), cfg.Workers)
			fmt.Printf("Output: %s\n", cfg.OutputDir)
			fmt.Println("------------------------------------------------------------")

			start := time.Now()
			results := batch.Run(ctx, batch.Config{
				Root:      root,
				OutputDir: cfg.OutputDir,
				Loader:    cache,
				Presets:   presets,
				BaseWidth: cfg.BaseWidth,
				Format:    cfg.OutputFormat(),
				Quality:   cfg.Quality,
				Workers:   cfg.Workers,
			}, jobs)

			fmt.Println("------------------------------------------------------------")
			fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

			success, failed := batch.Summary(results)
			fmt.Printf("Composed: %d/%d\n", success, len(jobs))
			if failed > 0 {
				fmt.Printf("\nFailed (%d):\n", failed)
				shown := 0
				for _, r := range results {
					if r.Success || shown == 20 {
						continue
					}
					fmt.Printf("  %s: %s\n", r.Name, r.Error)
					shown++
				}
			}

			manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
			if err := batch.WriteManifest(manifestPath, jobs, results); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
			} else {
				fmt.Printf("Manifest: %s\n", manifestPath)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
			}
			return nil
		},
	}
}
