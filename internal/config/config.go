package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

type Config struct {
	LogLevel string      `json:"log_level"`
	Audio    AudioConfig `json:"audio"`
}

type AudioConfig struct {
	// Backend selects the host backend: "miniaudio" (default) or "portaudio".
	Backend string `json:"backend"`
	// CaptureSeconds is the capture duration used when none is given (1-30).
	CaptureSeconds int `json:"capture_seconds"`
	// LevelMillis is the level-sampling window used when none is given (10-1000).
	LevelMillis int `json:"level_millis"`
}

// Load reads the config from disk or returns defaults
func Load() (*Config, error) {
	path := configPath()

	// Default config
	cfg := &Config{
		LogLevel: "info",
		Audio: AudioConfig{
			Backend:        "miniaudio",
			CaptureSeconds: 5,
			LevelMillis:    100,
		},
	}

	// Load existing config if it exists
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path := configPath()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// configPath returns the platform-specific config file path
func configPath() string {
	var base string

	switch runtime.GOOS {
	case "darwin":
		base = os.Getenv("HOME") + "/Library/Application Support"
	case "windows":
		base = os.Getenv("APPDATA")
	default: // linux
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = xdg
		} else {
			base = os.Getenv("HOME") + "/.config"
		}
	}

	return filepath.Join(base, "micprobe", "config.json")
}
