package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") failed: %v", err)
	}
	if cfg.Tank.Width != 300 {
		t.Errorf("tank width = %d, want 300", cfg.Tank.Width)
	}
	// 300 * 1080 / 1920
	if cfg.Derived.TankHeight != 168 {
		t.Errorf("derived tank height = %d, want 168", cfg.Derived.TankHeight)
	}
	if cfg.Gas.InitialOxygen != 1000 || cfg.Gas.InitialCarbonDioxide != 1000 {
		t.Errorf("gas pool defaults = (%v, %v), want (1000, 1000)",
			cfg.Gas.InitialOxygen, cfg.Gas.InitialCarbonDioxide)
	}
	if cfg.Derived.GrowthChance <= 0 || cfg.Derived.GrowthChance > 1e-3 {
		t.Errorf("growth chance = %v, want a small positive probability", cfg.Derived.GrowthChance)
	}
	if cfg.Fish.FindFood.Speed != 0.4 {
		t.Errorf("find_food speed = %v, want 0.4", cfg.Fish.FindFood.Speed)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("tank:\n  height: 200\nfood:\n  carbon: 50\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Derived.TankHeight != 200 {
		t.Errorf("tank height = %d, want 200", cfg.Derived.TankHeight)
	}
	if cfg.Food.Carbon != 50 {
		t.Errorf("food carbon = %v, want 50", cfg.Food.Carbon)
	}
	if cfg.Food.SinkDelay != 1000 {
		t.Errorf("food sink delay = %d, want default 1000", cfg.Food.SinkDelay)
	}
}

func TestLoadRejectsInvertedPlantRadii(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	data := []byte("plant:\n  pull_radius: 3\n  repel_radius: 5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for repel_radius >= pull_radius")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Fish.HungryCarbon = 321

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML failed: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if back.Fish.HungryCarbon != 321 {
		t.Errorf("hungry carbon = %v, want 321", back.Fish.HungryCarbon)
	}
}

func TestSettingsFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.yaml")
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("first run settings = %+v, want defaults", s)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("settings file not created: %v", err)
	}
}

func TestSettingsMalformedRestoresDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("fish_visible: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	s, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if s != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestSettingsNormalize(t *testing.T) {
	s := Settings{SandRatio: 1.5, FeedProbability: -0.2, Opacity: 0.5}
	s.Normalize()
	if s.SandRatio != 1 || s.FeedProbability != 0 || s.Opacity != 0.5 {
		t.Errorf("normalized = %+v", s)
	}
}
