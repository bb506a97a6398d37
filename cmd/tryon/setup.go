package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"tryon-ar/internal/asset"
	"tryon-ar/internal/camera"
	"tryon-ar/internal/compositor"
	"tryon-ar/internal/config"
	"tryon-ar/internal/creation"
	"tryon-ar/internal/itemlist"
	"tryon-ar/internal/log"
	"tryon-ar/internal/mapper"
	"tryon-ar/internal/preset"
	"tryon-ar/internal/render"
	"tryon-ar/internal/tryon"
)

// itemFlags select the item for serve and snap.
func itemFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "item", Usage: "Catalog item ID"},
		&cli.StringFlag{Name: "image", Usage: "Overlay image path or URL (instead of --item)"},
		&cli.StringFlag{Name: "type", Usage: "Item category when using --image"},
	}
}

// loadConfig reads the config file and applies global flag overrides.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	var cfg config.Config
	if path := cmd.String("config"); path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:   cmd.String("data"),
		OutputDir: cmd.String("output"),
		Catalog:   cmd.String("catalog"),
		Presets:   cmd.String("presets"),
		Camera:    cmd.String("camera"),
		Facing:    cmd.String("facing"),
		Format:    cmd.String("format"),
		Quality:   int(cmd.Int("quality")),
		LogLevel:  cmd.String("log-level"),
	})
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	log.Init(cfg.LogLevel)
	return cfg, nil
}

func loadPresets(cfg config.Config) (preset.Table, error) {
	table := preset.Defaults()
	if cfg.PresetFile == "" {
		return table, nil
	}
	return preset.Load(cfg.PresetFile, table)
}

func resolveItem(cmd *cli.Command, cfg config.Config) (tryon.Item, error) {
	if ref := cmd.String("image"); ref != "" {
		return tryon.Item{
			ID:       filepath.Base(ref),
			Name:     filepath.Base(ref),
			Image:    ref,
			Category: preset.ParseCategory(cmd.String("type")),
		}, nil
	}

	id := cmd.String("item")
	if id == "" {
		return tryon.Item{}, fmt.Errorf("one of --item or --image is required")
	}
	items, err := itemlist.Parse(cfg.CatalogXML)
	if err != nil {
		return tryon.Item{}, err
	}
	def, err := itemlist.Find(items, id)
	if err != nil {
		return tryon.Item{}, err
	}
	return tryon.Item{ID: def.ID, Name: def.Name, Image: def.Image, Category: def.Category}, nil
}

// newSession wires a session from cfg. The caller closes it.
func newSession(cfg config.Config) (*tryon.Session, *creation.FileStore, error) {
	dev, err := camera.NewDevice(cfg.Camera, cfg.CaptureWidth, cfg.CaptureHeight)
	if err != nil {
		return nil, nil, err
	}
	presets, err := loadPresets(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, err := creation.NewFileStore(cfg.OutputDir)
	if err != nil {
		return nil, nil, err
	}

	cache := asset.NewCache(nil, cfg.AssetDir)
	cache.MinComponent = cfg.Despeckle
	comp := compositor.New(cache, compositor.Options{
		BaseWidth: cfg.BaseWidth,
		Format:    cfg.OutputFormat(),
		Quality:   cfg.Quality,
	})
	s := tryon.New(tryon.Deps{
		Camera:     camera.NewManager(dev, cfg.CaptureWidth, cfg.CaptureHeight),
		Loader:     cache,
		Compositor: comp,
		Renderer:   render.New(cfg.BaseWidth),
		Publisher:  store,
		Presets:    presets,
	}, mapper.Size{Width: float64(cfg.PreviewWidth), Height: float64(cfg.PreviewHeight)})
	s.SetGuides(cfg.Guides)
	return s, store, nil
}

func startSession(ctx context.Context, cmd *cli.Command) (*tryon.Session, config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, cfg, err
	}
	item, err := resolveItem(cmd, cfg)
	if err != nil {
		return nil, cfg, err
	}
	s, _, err := newSession(cfg)
	if err != nil {
		return nil, cfg, err
	}
	if err := s.Start(ctx, item, camera.Facing(cfg.Facing)); err != nil {
		s.Close()
		return nil, cfg, err
	}
	return s, cfg, nil
}
