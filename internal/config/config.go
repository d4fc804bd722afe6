// Package config resolves application settings from an optional YAML file
// and environment variable overrides. Nothing here persists at runtime; the
// file is read once at startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultStationTarget = 1500
	maxStationTarget     = 10000
	defaultVolume        = 0.8
	defaultLogLevel      = "info"
)

// Config holds the resolved settings.
type Config struct {
	StationTarget int     `yaml:"station_target"` // Stations requested in the primary query
	DirectoryURL  string  `yaml:"directory_url"`  // Radio Browser mirror, empty = default
	Volume        float64 `yaml:"volume"`         // Initial playback volume [0,1]
	LogLevel      string  `yaml:"log_level"`
	LogFile       string  `yaml:"log_file"` // The TUI owns stdout, so logs go to a file
}

// Load reads the config file (if present) and applies environment overrides.
// A missing file is not an error; malformed YAML is.
func Load() (Config, error) {
	cfg := Config{
		StationTarget: defaultStationTarget,
		Volume:        defaultVolume,
		LogLevel:      defaultLogLevel,
	}

	path := configPath()
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&cfg)
	clamp(&cfg)
	return cfg, nil
}

// configPath returns the config file location, honoring RADIO_ATLAS_CONFIG.
func configPath() string {
	if p := strings.TrimSpace(os.Getenv("RADIO_ATLAS_CONFIG")); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yml"
	}
	return filepath.Join(home, ".config", "radio-atlas", "config.yml")
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("RADIO_ATLAS_STATIONS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.StationTarget = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("RADIO_ATLAS_DIRECTORY_URL")); v != "" {
		cfg.DirectoryURL = v
	}
	if v := strings.TrimSpace(os.Getenv("RADIO_ATLAS_VOLUME")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Volume = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("RADIO_ATLAS_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("RADIO_ATLAS_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
}

func clamp(cfg *Config) {
	if cfg.StationTarget <= 0 {
		cfg.StationTarget = defaultStationTarget
	}
	if cfg.StationTarget > maxStationTarget {
		cfg.StationTarget = maxStationTarget
	}
	if cfg.Volume < 0 {
		cfg.Volume = 0
	}
	if cfg.Volume > 1 {
		cfg.Volume = 1
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(os.TempDir(), "radio-atlas.log")
	}
}
