package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	LogPath   string `mapstructure:"log_path"`
	Quiet     bool   `mapstructure:"quiet"`
	Verbose   bool   `mapstructure:"verbose"`
	FromStart bool   `mapstructure:"from_start"`

	// Directory overrides; empty means the XDG defaults
	DataDir  string `mapstructure:"data_dir"`
	CacheDir string `mapstructure:"cache_dir"`

	// Card database glob overrides
	CardDBGlobs []string `mapstructure:"card_db_globs"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{}
}

// Load loads configuration from files and environment
// Config file search order (highest precedence first):
// 1. ./.scryd.yaml or ./.scryd.yml
// 2. ~/.scryd.yaml or ~/.scryd.yml
// 3. $XDG_CONFIG_HOME/scryd/config.yaml (or ~/.config/scryd/config.yaml)
// 4. /etc/scryd/config.yaml
func Load() (*Config, error) {
	cfg := Default()

	configFile := findConfigFile()
	if configFile != "" {
		v := viper.New()
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}

		if err := v.Unmarshal(cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// findConfigFile searches for config file in standard locations
func findConfigFile() string {
	names := []string{".scryd.yaml", ".scryd.yml", "scryd.yaml", "scryd.yml"}

	home, homeErr := os.UserHomeDir()
	configDir, configDirErr := os.UserConfigDir()

	var searchPaths []string

	cwd, err := os.Getwd()
	if err == nil {
		searchPaths = append(searchPaths, cwd)
	}
	if homeErr == nil {
		searchPaths = append(searchPaths, home)
	}
	if configDirErr == nil {
		searchPaths = append(searchPaths, filepath.Join(configDir, "scryd"))
	}
	searchPaths = append(searchPaths, "/etc/scryd")

	for _, dir := range searchPaths {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
		path := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCRYD_LOG_PATH"); v != "" {
		cfg.LogPath = v
	}
	if v := os.Getenv("SCRYD_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
	}
	if v := os.Getenv("SCRYD_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
	}
	if v := os.Getenv("SCRYD_FROM_START"); v == "true" || v == "1" {
		cfg.FromStart = true
	}
	if v := os.Getenv("SCRYD_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SCRYD_CACHE_DIR"); v != "" {
		cfg.CacheDir = v
	}
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}
