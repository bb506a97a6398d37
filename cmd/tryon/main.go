package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"tryon-ar/internal/log"
)

func main() {
	cmd := &cli.Command{
		Name:    "tryon",
		Usage:   "Live AR try-on: preview, capture and batch compositing of item overlays",
		Version: "v0.3.0",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config JSON file"},
			&cli.StringFlag{Name: "data", Usage: "Base directory for relative paths (default: auto-detect)"},
			&cli.StringFlag{Name: "catalog", Usage: "Catalog XML file"},
			&cli.StringFlag{Name: "presets", Usage: "Preset override JSON file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory for creations"},
			&cli.StringFlag{Name: "camera", Usage: "Camera backend: mock or gocv"},
			&cli.StringFlag{Name: "facing", Usage: "Initial camera: user or environment"},
			&cli.StringFlag{Name: "format", Usage: "Output format: jpeg or webp"},
			&cli.IntFlag{Name: "quality", Usage: "JPEG quality 1-100 (default: 90)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			snapCommand(),
			composeCommand(),
			presetsCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Error("tryon failed", err)
		stop()
		os.Exit(1)
	}
}
