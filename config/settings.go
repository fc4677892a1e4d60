package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings holds user-facing toggles edited from the settings panel.
// The engine reads them every tick but never owns them.
type Settings struct {
	FishVisible     bool    `yaml:"fish_visible"`
	FishInfoVisible bool    `yaml:"fish_info_visible"`
	SandFixed       bool    `yaml:"sand_fixed"`       // Pin the sand surface instead of following swap size
	SandRatio       float64 `yaml:"sand_ratio"`       // Fraction of tank height taken by sand when pinned
	FeedProbability float64 `yaml:"feed_probability"` // Chance that a click drops food
	Opacity         float64 `yaml:"opacity"`
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() Settings {
	return Settings{
		FishVisible:     true,
		SandRatio:       0.125,
		FeedProbability: 0.1,
		Opacity:         1.0,
	}
}

// Normalize clamps every ratio into [0, 1].
func (s *Settings) Normalize() {
	s.SandRatio = clamp01(s.SandRatio)
	s.FeedProbability = clamp01(s.FeedProbability)
	s.Opacity = clamp01(s.Opacity)
}

// DefaultSettingsPath returns the per-user settings file location.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cybertank_settings.yaml"
	}
	return filepath.Join(dir, "cybertank", "settings.yaml")
}

// LoadSettings reads settings from path.
// A missing or unreadable file is replaced with defaults and saved back.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, s.Save(path)
	case err != nil:
		return s, fmt.Errorf("reading settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		slog.Warn("settings file malformed, restoring defaults", "path", path, "error", err)
		s = DefaultSettings()
		return s, s.Save(path)
	}
	s.Normalize()
	return s, nil
}

// Save writes settings to path, creating parent directories.
func (s Settings) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
