package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/msalah0e/schemaview/internal/layout"
	"github.com/msalah0e/schemaview/internal/render"
	"github.com/msalah0e/schemaview/internal/viewport"
)

// ProjectFile is looked up from the working directory upwards and layered
// over the user config.
const ProjectFile = ".schemaview.toml"

// Config holds schemaview configuration.
type Config struct {
	UI        UIConfig        `toml:"ui"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Server    ServerConfig    `toml:"server"`
	Layout    LayoutConfig    `toml:"layout"`
	Palette   PaletteConfig   `toml:"palette"`
	Zoom      ZoomConfig      `toml:"zoom"`
	Animation AnimationConfig `toml:"animation"`
	Parallel  ParallelConfig  `toml:"parallel"`
}

// UIConfig controls terminal output.
type UIConfig struct {
	Color bool `toml:"color"`
}

// CatalogConfig points at a directory of schema files. Its schemas shadow
// the built-in samples of the same name.
type CatalogConfig struct {
	Dir string `toml:"dir"`
}

// ServerConfig controls `schemaview serve`.
type ServerConfig struct {
	Addr    string `toml:"addr"`
	BaseURL string `toml:"base_url"` // used in share links; empty means the request host
}

// LayoutConfig controls node spacing and the viewer size used off-screen.
type LayoutConfig struct {
	HeightPerNode    float64 `toml:"height_per_node"`
	MinLabelSpace    float64 `toml:"min_label_space"`
	LabelSpaceFactor float64 `toml:"label_space_factor"`
	LabelSpaceOffset float64 `toml:"label_space_offset"`
	ViewerWidth      float64 `toml:"viewer_width"`
	ViewerHeight     float64 `toml:"viewer_height"`
	CharWidth        float64 `toml:"char_width"`
}

// PaletteConfig holds the drawing colors.
type PaletteConfig struct {
	ExpandedCircle  string `toml:"expanded_circle"`
	CollapsedCircle string `toml:"collapsed_circle"`
	CircleBorder    string `toml:"circle_border"`
	DeprecatedText  string `toml:"deprecated_text"`
	Link            string `toml:"link"`
}

// ZoomConfig bounds the camera.
type ZoomConfig struct {
	MinScale       float64 `toml:"min_scale"`
	MaxScale       float64 `toml:"max_scale"`
	Step           float64 `toml:"step"`
	StepDurationMS int     `toml:"step_duration_ms"`
	DoubleClick    bool    `toml:"double_click"`
}

// AnimationConfig controls transitions.
type AnimationConfig struct {
	DurationMS int `toml:"duration_ms"`
}

// ParallelConfig controls `schemaview check`.
type ParallelConfig struct {
	Concurrency int `toml:"concurrency"`
}

// Default returns the default configuration.
func Default() *Config {
	l := layout.DefaultConfig()
	p := render.DefaultPalette()
	z := viewport.DefaultConfig()
	return &Config{
		UI:     UIConfig{Color: true},
		Server: ServerConfig{Addr: "127.0.0.1:8080"},
		Layout: LayoutConfig{
			HeightPerNode:    l.HeightPerNode,
			MinLabelSpace:    l.MinLabelSpace,
			LabelSpaceFactor: l.LabelSpaceFactor,
			LabelSpaceOffset: l.LabelSpaceOffset,
			ViewerWidth:      1200,
			ViewerHeight:     800,
			CharWidth:        7,
		},
		Palette: PaletteConfig{
			ExpandedCircle:  p.ExpandedCircle,
			CollapsedCircle: p.CollapsedCircle,
			CircleBorder:    p.CircleBorder,
			DeprecatedText:  p.DeprecatedText,
			Link:            p.Link,
		},
		Zoom: ZoomConfig{
			MinScale:       z.MinScale,
			MaxScale:       z.MaxScale,
			Step:           z.Step,
			StepDurationMS: int(z.StepDuration / time.Millisecond),
			DoubleClick:    z.DoubleClickZoom,
		},
		Animation: AnimationConfig{DurationMS: 400},
		Parallel:  ParallelConfig{Concurrency: 4},
	}
}

// ConfigDir returns the schemaview config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "schemaview")
}

// Path returns the user config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the user config, then the nearest project file, then the
// environment. Missing or unreadable files leave the defaults in place.
func Load() *Config {
	cfg := Default()
	if data, err := os.ReadFile(Path()); err == nil {
		_ = toml.Unmarshal(data, cfg)
	}
	if p := findProjectConfig(); p != "" {
		if data, err := os.ReadFile(p); err == nil {
			_ = toml.Unmarshal(data, cfg)
		}
	}
	applyEnv(cfg)
	return cfg
}

// LoadFile reads an explicit config file over the defaults. Unlike Load it
// reports a missing or broken file.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyEnv(cfg)
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SCHEMAVIEW_CATALOG_DIR"); v != "" {
		cfg.Catalog.Dir = v
	}
	if v := os.Getenv("SCHEMAVIEW_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("SCHEMAVIEW_BASE_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if os.Getenv("NO_COLOR") != "" {
		cfg.UI.Color = false
	}
}

// findProjectConfig walks up from the working directory looking for ProjectFile.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, ProjectFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Spacing converts the [layout] section.
func (c *Config) Spacing() layout.Config {
	return layout.Config{
		HeightPerNode:    c.Layout.HeightPerNode,
		MinLabelSpace:    c.Layout.MinLabelSpace,
		LabelSpaceFactor: c.Layout.LabelSpaceFactor,
		LabelSpaceOffset: c.Layout.LabelSpaceOffset,
	}
}

// Camera converts the [zoom] section.
func (c *Config) Camera() viewport.Config {
	return viewport.Config{
		MinScale:     c.Zoom.MinScale,
		MaxScale:     c.Zoom.MaxScale,
		Step:         c.Zoom.Step,
		StepDuration: time.Duration(c.Zoom.StepDurationMS) * time.Millisecond,

		DoubleClickZoom: c.Zoom.DoubleClick,
	}
}

// RenderPalette converts the [palette] section.
func (c *Config) RenderPalette() render.Palette {
	return render.Palette{
		ExpandedCircle:  c.Palette.ExpandedCircle,
		CollapsedCircle: c.Palette.CollapsedCircle,
		CircleBorder:    c.Palette.CircleBorder,
		DeprecatedText:  c.Palette.DeprecatedText,
		Link:            c.Palette.Link,
	}
}

// AnimationDuration is the transition length of expand, collapse and focus.
func (c *Config) AnimationDuration() time.Duration {
	return time.Duration(c.Animation.DurationMS) * time.Millisecond
}

// Measurer estimates label widths from [layout] char_width.
func (c *Config) Measurer() render.Measurer {
	return render.FixedWidth(c.Layout.CharWidth)
}
