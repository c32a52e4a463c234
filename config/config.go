// Package config loads and saves the semgraph settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"semgraph/highlight"
	"semgraph/hull"
	"semgraph/interaction"
	"semgraph/layout"
	"semgraph/logging"
	"semgraph/render"
	"semgraph/terminal"
	"semgraph/viewer"
	"semgraph/viewport"

	"github.com/BurntSushi/toml"
)

// FileName is the settings file inside ConfigDir.
const FileName = "config.toml"

// Config holds semgraph configuration.
type Config struct {
	Layout      layout.Config      `toml:"layout"`
	Render      render.Config      `toml:"render"`
	Hull        hull.Config        `toml:"hull"`
	Highlight   highlight.Config   `toml:"highlight"`
	Viewport    viewport.Config    `toml:"viewport"`
	Interaction interaction.Config `toml:"interaction"`
	Terminal    terminal.Config    `toml:"terminal"`
	Export      ExportConfig       `toml:"export"`
	Log         logging.Config     `toml:"log"`
}

// ExportConfig controls the export command.
type ExportConfig struct {
	Format   string `toml:"format"`
	Jobs     int    `toml:"jobs"`
	MaxTicks int    `toml:"max_ticks"` // 0 settles until rest
}

// Default returns the default configuration.
func Default() *Config {
	v := viewer.DefaultConfig()
	return &Config{
		Layout:      v.Layout,
		Render:      v.Render,
		Hull:        v.Hull,
		Highlight:   v.Highlight,
		Viewport:    v.Viewport,
		Interaction: v.Interaction,
		Terminal:    terminal.DefaultConfig(),
		Export:      ExportConfig{Format: "svg", Jobs: 4},
		Log:         logging.DefaultConfig(),
	}
}

// Viewer returns the settings the viewer consumes.
func (c *Config) Viewer() viewer.Config {
	return viewer.Config{
		Layout:      c.Layout,
		Render:      c.Render,
		Hull:        c.Hull,
		Highlight:   c.Highlight,
		Viewport:    c.Viewport,
		Interaction: c.Interaction,
	}
}

// ConfigDir returns the semgraph config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "semgraph")
}

// Path returns the default settings file path.
func Path() string {
	return filepath.Join(ConfigDir(), FileName)
}

// Load reads the default settings file. A missing file yields the defaults.
func Load() (*Config, error) {
	cfg, err := LoadFile(Path())
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// LoadFile reads path over the defaults, so keys the file leaves out keep their
// default values. Keys that match no setting are an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path, creating its directory.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() (created bool, err error) {
	if _, err := os.Stat(Path()); err == nil {
		return false, nil
	}
	if err := Save(Default()); err != nil {
		return false, err
	}
	return true, nil
}
