package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"tryon-ar/internal/camera"
	"tryon-ar/internal/compositor"
)

// Config holds all configurable paths, camera and output settings.
type Config struct {
	// Paths
	BaseDir    string `json:"base_dir"`
	AssetDir   string `json:"asset_dir"`
	CatalogXML string `json:"catalog_xml"`
	PresetFile string `json:"preset_file"`
	OutputDir  string `json:"output_dir"`

	// Camera
	Camera        string `json:"camera"`
	Facing        string `json:"facing"`
	CaptureWidth  int    `json:"capture_width"`
	CaptureHeight int    `json:"capture_height"`

	// Preview
	PreviewWidth  int     `json:"preview_width"`
	PreviewHeight int     `json:"preview_height"`
	PreviewFPS    int     `json:"preview_fps"`
	BaseWidth     float64 `json:"base_width"`
	Guides        bool    `json:"guides"`

	// Overlay assets
	Despeckle float64 `json:"despeckle"` // drop alpha specks below this fraction; 0 disables

	// Output
	Format  string `json:"format"`
	Quality int    `json:"quality"`
	Workers int    `json:"workers"`

	// Server
	Addr     string `json:"addr"`
	LogLevel string `json:"log_level"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string
	OutputDir string
	Catalog   string
	Presets   string
	Camera    string
	Facing    string
	Format    string
	Quality   int
	Workers   int
	Addr      string
	LogLevel  string
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	override(&c.BaseDir, flags.DataDir)
	override(&c.OutputDir, flags.OutputDir)
	override(&c.CatalogXML, flags.Catalog)
	override(&c.PresetFile, flags.Presets)
	override(&c.Camera, flags.Camera)
	override(&c.Facing, flags.Facing)
	override(&c.Format, flags.Format)
	override(&c.Addr, flags.Addr)
	override(&c.LogLevel, flags.LogLevel)
	if flags.Quality > 0 {
		c.Quality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	c.AssetDir = c.under(c.AssetDir, ".")
	c.OutputDir = c.under(c.OutputDir, "creations")
	if c.CatalogXML == "" {
		c.CatalogXML = findCatalog(c.BaseDir)
	} else {
		c.CatalogXML = c.under(c.CatalogXML, "")
	}
	if c.PresetFile != "" {
		c.PresetFile = c.under(c.PresetFile, "")
	}

	// Defaults
	if c.Camera == "" {
		c.Camera = camera.BackendMock
	}
	if c.Facing == "" {
		c.Facing = string(camera.FacingUser)
	}
	if c.CaptureWidth <= 0 || c.CaptureHeight <= 0 {
		c.CaptureWidth, c.CaptureHeight = 1280, 720
	}
	if c.PreviewWidth <= 0 || c.PreviewHeight <= 0 {
		c.PreviewWidth, c.PreviewHeight = 360, 640
	}
	if c.PreviewFPS <= 0 {
		c.PreviewFPS = 10
	}
	if c.BaseWidth <= 0 {
		c.BaseWidth = 200
	}
	if c.Despeckle < 0 || c.Despeckle >= 1 {
		c.Despeckle = 0
	}
	if c.Format == "" {
		c.Format = string(compositor.FormatJPEG)
	}
	if c.Quality <= 0 || c.Quality > 100 {
		c.Quality = compositor.DefaultQuality
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks values that have no safe default.
func (c *Config) Validate() error {
	if !camera.Facing(c.Facing).Valid() {
		return fmt.Errorf("config: facing %q: want user or environment", c.Facing)
	}
	if _, err := compositor.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// OutputFormat returns the parsed output format, JPEG if invalid.
func (c *Config) OutputFormat() compositor.Format {
	f, err := compositor.ParseFormat(c.Format)
	if err != nil {
		return compositor.FormatJPEG
	}
	return f
}

// under resolves path against BaseDir, using def when path is empty.
func (c *Config) under(path, def string) string {
	if path == "" {
		path = def
	}
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir)} {
			if _, err := os.Stat(filepath.Join(base, "catalog.xml")); err == nil {
				return base
			}
		}
	}

	// Fall back to the working directory
	cwd, _ := os.Getwd()
	return cwd
}

func findCatalog(baseDir string) string {
	candidates := []string{
		filepath.Join(baseDir, "catalog.xml"),
		filepath.Join(baseDir, "data", "catalog.xml"),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return candidates[0]
}
