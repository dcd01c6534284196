package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate rejects settings the terrain pipeline cannot work with.
func (c *Config) validate() error {
	t := c.Terrain
	if t.HeightmapPath == "" && (t.Width < 2 || t.Rows < 2) {
		return fmt.Errorf("terrain size %dx%d: need at least 2x2 samples", t.Width, t.Rows)
	}
	if t.Scale <= 0 {
		return fmt.Errorf("terrain scale %g: must be positive", t.Scale)
	}
	if t.TileSize < 4 || t.TileSize&(t.TileSize-1) != 0 {
		return fmt.Errorf("tile size %d: must be a power of two >= 4", t.TileSize)
	}
	if t.MaxHeight < t.MinHeight {
		return fmt.Errorf("height range [%g, %g]: max below min", t.MinHeight, t.MaxHeight)
	}
	if t.LODDistanceScale <= 0 {
		return fmt.Errorf("lod distance scale %g: must be positive", t.LODDistanceScale)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Terragrid")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Terragrid")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "terragrid")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "terragrid")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
