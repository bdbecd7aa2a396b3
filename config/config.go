package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bg3-mod-manager/mods"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Values are loaded by Viper from a config file and/or environment variables.
type Config struct {
	GameDataDir       string `mapstructure:"GAME_DATA_DIR"`
	ModsDir           string `mapstructure:"MODS_DIR"`
	Profile           string `mapstructure:"PROFILE"`
	AdventureMod      string `mapstructure:"ADVENTURE_MOD"`
	ExtenderInstalled bool   `mapstructure:"EXTENDER_INSTALLED"`
	ExtenderEnabled   bool   `mapstructure:"EXTENDER_ENABLED"`
	ExtenderVersion   int    `mapstructure:"EXTENDER_VERSION"`
	ExtraIgnoredMods  string `mapstructure:"EXTRA_IGNORED_MODS"`
	ExportFormat      string `mapstructure:"EXPORT_FORMAT"`
	ImportWorkers     int    `mapstructure:"IMPORT_WORKERS"`
	DatabasePath      string `mapstructure:"-"` // derived
	ProfileDir        string `mapstructure:"-"` // derived
}

var envKeys = []string{
	"GAME_DATA_DIR",
	"MODS_DIR",
	"PROFILE",
	"ADVENTURE_MOD",
	"EXTENDER_INSTALLED",
	"EXTENDER_ENABLED",
	"EXTENDER_VERSION",
	"EXTRA_IGNORED_MODS",
	"EXPORT_FORMAT",
	"IMPORT_WORKERS",
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	vip_err := viper.ReadInConfig()
	if _, ok := vip_err.(viper.ConfigFileNotFoundError); ok {
		slog.Info("Config file (.env) not found, relying on environment variables.")
	} else if vip_err != nil {
		return Config{}, fmt.Errorf("fatal error config file: %w", vip_err)
	}

	viper.AutomaticEnv()
	for _, key := range envKeys {
		if err := viper.BindEnv(strings.ToLower(key), key); err != nil {
			slog.Warn("Unable to bind env var", "key", key, "error", err)
		}
	}

	if vip_err = viper.Unmarshal(&config); vip_err != nil {
		return Config{}, fmt.Errorf("unable to decode into struct, %w", vip_err)
	}

	processConfigDefaults(&config)
	if err := validateAndEnsureDirectories(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// processConfigDefaults fills in everything left unset.
func processConfigDefaults(config *Config) {
	if config.Profile == "" {
		config.Profile = "Public"
	}
	if config.AdventureMod == "" {
		config.AdventureMod = mods.DefaultAdventureUUID
	}
	if config.ExportFormat == "" {
		config.ExportFormat = "lsx"
	}
	if config.ImportWorkers <= 0 {
		config.ImportWorkers = 4
	}

	// Viper can't tell an unset bool from false, so read the raw string.
	enabledStr := viper.GetString("EXTENDER_ENABLED")
	if enabledStr == "" {
		config.ExtenderEnabled = true
	} else {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			slog.Warn("Invalid value for EXTENDER_ENABLED ('"+enabledStr+"'), defaulting to true.", "error", err)
			enabled = true
		}
		config.ExtenderEnabled = enabled
	}
}

// validateAndEnsureDirectories checks GAME_DATA_DIR and creates the mod and
// profile folders beneath it.
func validateAndEnsureDirectories(config *Config) error {
	if config.GameDataDir == "" {
		slog.Error("GAME_DATA_DIR is not set")
		return fmt.Errorf("GAME_DATA_DIR is required")
	}
	if config.ModsDir == "" {
		config.ModsDir = filepath.Join(config.GameDataDir, "Mods")
	}
	if config.Profile == "" {
		config.Profile = "Public"
	}
	config.ProfileDir = filepath.Join(config.GameDataDir, "PlayerProfiles", config.Profile)

	for _, dir := range []string{config.GameDataDir, config.ModsDir, config.ProfileDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			slog.Info("Directory does not exist, creating it", "path", dir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				slog.Error("Failed to create directory", "path", dir, "error", err)
				return err
			}
		} else if err != nil {
			slog.Error("Failed to check directory", "path", dir, "error", err)
			return err
		}
	}

	config.DatabasePath = filepath.Join(config.GameDataDir, "modmanager.db")
	return nil
}

// ExtenderStatus converts the extender settings for the resolver.
func (c Config) ExtenderStatus() mods.ExtenderStatus {
	return mods.ExtenderStatus{
		Installed: c.ExtenderInstalled,
		Enabled:   c.ExtenderEnabled,
		Version:   c.ExtenderVersion,
	}
}

// IgnoreSet returns the publisher mods plus EXTRA_IGNORED_MODS.
func (c Config) IgnoreSet() mods.IgnoreSet {
	return mods.DefaultIgnoreSet().With(strings.Split(c.ExtraIgnoredMods, ",")...)
}
