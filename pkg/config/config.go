/*
Package config manages the TOML configuration for crossforge.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/crossforge/crossforge/internal/utils"
)

// Config holds the entire config structure.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Corpus   CorpusConfig   `toml:"corpus"`
	Analysis AnalysisConfig `toml:"analysis"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxLimit     int `toml:"max_limit"`
	DefaultLimit int `toml:"default_limit"`
	MaxGridSize  int `toml:"max_grid_size"`
}

// CorpusConfig holds word store options.
type CorpusConfig struct {
	DBPath  string `toml:"db_path"`
	SeedDir string `toml:"seed_dir"`
}

// AnalysisConfig holds analyzer options.
type AnalysisConfig struct {
	CrossingLimit int `toml:"crossing_limit"`
	SuggestLimit  int `toml:"suggest_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/crossforge
// 2. ~/Library/Application Support/crossforge (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "crossforge")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "crossforge")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	return utils.GetExecutableDir()
}

// GetDefaultConfigPath returns the default path for config.toml.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/crossforge/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:     100,
			DefaultLimit: 20,
			MaxGridSize:  21,
		},
		Corpus: CorpusConfig{
			DBPath:  "data/crossword.db",
			SeedDir: "data/seed_lists",
		},
		Analysis: AnalysisConfig{
			CrossingLimit: 30,
			SuggestLimit:  20,
		},
	}
}

// InitConfig loads config from file or creates default if missing.
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file, falling back to per-section partial
// parsing when the file as a whole does not decode.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", configPath, err)
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse salvages whatever valid sections a broken TOML file
// still has, on top of the defaults.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if corpusSection, ok := utils.ExtractSection(tempConfig, "corpus"); ok {
		extractCorpusConfig(corpusSection, &config.Corpus)
	}
	if analysisSection, ok := utils.ExtractSection(tempConfig, "analysis"); ok {
		extractAnalysisConfig(analysisSection, &config.Analysis)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "max_grid_size"); ok {
		server.MaxGridSize = val
	}
}

func extractCorpusConfig(data map[string]any, corpus *CorpusConfig) {
	if val, ok := utils.ExtractString(data, "db_path"); ok {
		corpus.DBPath = val
	}
	if val, ok := utils.ExtractString(data, "seed_dir"); ok {
		corpus.SeedDir = val
	}
}

func extractAnalysisConfig(data map[string]any, analysis *AnalysisConfig) {
	if val, ok := utils.ExtractInt64(data, "crossing_limit"); ok {
		analysis.CrossingLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "suggest_limit"); ok {
		analysis.SuggestLimit = val
	}
}

// SaveConfig saves into a TOML file.
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
