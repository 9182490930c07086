// Package config loads and saves the engine configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSweepSchedule runs the due-date sweep every morning at 06:00.
const DefaultSweepSchedule = "0 6 * * *"

// Config represents the flat CMMS configuration stored as
// ~/.cmms/config.json (or .cmms/config.json below a chosen directory).
type Config struct {
	DBPath        string `json:"db_path,omitempty"`        // sqlite database file
	FilesDir      string `json:"files_dir,omitempty"`      // attachment and document root
	SweepSchedule string `json:"sweep_schedule,omitempty"` // cron spec for the due-date sweep
	ActorID       int64  `json:"actor_id,omitempty"`       // user recorded for CLI actions
	LogLevel      string `json:"log_level,omitempty"`
}

// WithDefaults fills unset fields with their defaults.
func (c *Config) WithDefaults() *Config {
	if c.SweepSchedule == "" {
		c.SweepSchedule = DefaultSweepSchedule
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

// Load reads .cmms/config.json from the given directory. A missing file
// is not an error: defaults are returned so first runs need no setup.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, ".cmms", "config.json")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return (&Config{}).WithDefaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.WithDefaults(), nil
}

// Save writes config.json under dir/.cmms, creating the directory.
func Save(dir string, cfg *Config) error {
	cmmsDir := filepath.Join(dir, ".cmms")
	if err := os.MkdirAll(cmmsDir, 0755); err != nil {
		return fmt.Errorf("failed to create .cmms dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cmmsDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// DefaultDir returns the directory config is resolved from: the user's
// home directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return home, nil
}
