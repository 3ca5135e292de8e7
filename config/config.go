package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// SortOrder selects how notes are ordered in CLI output.
type SortOrder string

const (
	SortEmission SortOrder = "emission" // order the decoder closes notes in
	SortOnset    SortOrder = "onset"    // re-sorted by start tick
)

// ViewerConfig stores piano-roll viewer preferences
type ViewerConfig struct {
	ZoomLevel   int    `json:"zoomLevel,omitempty"`
	PalettePath string `json:"palettePath,omitempty"`
}

// OutputConfig stores CLI output preferences
type OutputConfig struct {
	Sort SortOrder `json:"sort,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Viewer   ViewerConfig `json:"viewer,omitempty"`
	Output   OutputConfig `json:"output,omitempty"`
	LastFile string       `json:"lastFile,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			ZoomLevel: 3,
		},
		Output: OutputConfig{
			Sort: SortEmission,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-notes"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
