package config

import (
	"os"
	"path/filepath"
	"testing"

	"bg3-mod-manager/mods"

	"github.com/spf13/viper"
)

func TestProcessConfigDefaults(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		viper.Reset()
		cfg := Config{}
		processConfigDefaults(&cfg)

		if cfg.Profile != "Public" {
			t.Errorf("Expected Profile to be Public, got %s", cfg.Profile)
		}
		if cfg.AdventureMod != mods.DefaultAdventureUUID {
			t.Errorf("Expected AdventureMod to default to GustavDev, got %s", cfg.AdventureMod)
		}
		if cfg.ExportFormat != "lsx" {
			t.Errorf("Expected ExportFormat to be lsx, got %s", cfg.ExportFormat)
		}
		if cfg.ImportWorkers != 4 {
			t.Errorf("Expected ImportWorkers to be 4, got %d", cfg.ImportWorkers)
		}
		if !cfg.ExtenderEnabled {
			t.Error("Expected ExtenderEnabled to default to true")
		}
	})

	t.Run("respects existing values", func(t *testing.T) {
		viper.Reset()
		viper.Set("EXTENDER_ENABLED", "false")
		cfg := Config{
			Profile:       "Tav",
			AdventureMod:  "campaign",
			ExportFormat:  "json",
			ImportWorkers: 8,
		}
		processConfigDefaults(&cfg)

		if cfg.Profile != "Tav" {
			t.Errorf("Expected Profile to stay Tav, got %s", cfg.Profile)
		}
		if cfg.AdventureMod != "campaign" {
			t.Errorf("Expected AdventureMod to stay campaign, got %s", cfg.AdventureMod)
		}
		if cfg.ExportFormat != "json" {
			t.Errorf("Expected ExportFormat to stay json, got %s", cfg.ExportFormat)
		}
		if cfg.ImportWorkers != 8 {
			t.Errorf("Expected ImportWorkers to stay 8, got %d", cfg.ImportWorkers)
		}
		if cfg.ExtenderEnabled {
			t.Error("Expected ExtenderEnabled to be false")
		}
	})
}

func TestValidateAndEnsureDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("missing game data dir", func(t *testing.T) {
		cfg := Config{GameDataDir: ""}
		err := validateAndEnsureDirectories(&cfg)
		if err == nil {
			t.Error("Expected error for missing GameDataDir")
		}
	})

	t.Run("creates directories", func(t *testing.T) {
		dataDir := filepath.Join(tmpDir, "bg3")
		cfg := Config{GameDataDir: dataDir, Profile: "Public"}
		err := validateAndEnsureDirectories(&cfg)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}

		for _, path := range []string{cfg.ModsDir, cfg.ProfileDir} {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Errorf("Directory %s was not created", path)
			}
		}
		if cfg.ModsDir != filepath.Join(dataDir, "Mods") {
			t.Errorf("unexpected ModsDir %s", cfg.ModsDir)
		}
		if cfg.DatabasePath != filepath.Join(dataDir, "modmanager.db") {
			t.Errorf("unexpected DatabasePath %s", cfg.DatabasePath)
		}
	})
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	env := "GAME_DATA_DIR=" + dataDir + "\nEXTENDER_INSTALLED=true\nEXTENDER_VERSION=18\nEXTRA_IGNORED_MODS=aaa,bbb\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.GameDataDir != dataDir {
		t.Errorf("GameDataDir = %s, want %s", cfg.GameDataDir, dataDir)
	}
	status := cfg.ExtenderStatus()
	if !status.Installed || !status.Enabled || status.Version != 18 {
		t.Errorf("unexpected extender status %+v", status)
	}
	ignore := cfg.IgnoreSet()
	if !ignore.Has("aaa") || !ignore.Has("bbb") || !ignore.Has(mods.GustavUUID) {
		t.Errorf("ignore set missing entries: %v", ignore.UUIDs())
	}
}
