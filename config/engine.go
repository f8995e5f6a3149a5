package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// EngineConfig holds process-wide options of the search server.
type EngineConfig struct {
	Port           string `yaml:"port"`             // HTTP port
	DataDir        string `yaml:"data_dir"`         // Directory holding persisted index snapshots
	Workers        int    `yaml:"workers"`          // Size of the plan executor worker pool
	BoostCacheSize int    `yaml:"boost_cache_size"` // Entries kept per index in the term-boost cache
	LogLevel       string `yaml:"log_level"`        // debug, info, warn or error
}

// DefaultEngineConfig returns the configuration used when no file is given.
func DefaultEngineConfig() EngineConfig {
	cfg := EngineConfig{}
	cfg.ApplyDefaults()
	return cfg
}

// LoadEngineConfig reads a YAML configuration file and applies defaults.
func LoadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the operator's command line
	if err != nil {
		return EngineConfig{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg EngineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills unset options.
func (cfg *EngineConfig) ApplyDefaults() {
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./search_data"
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.BoostCacheSize <= 0 {
		cfg.BoostCacheSize = 1000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// SlogLevel maps LogLevel onto a slog level; unknown values mean info.
func (cfg EngineConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(cfg.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
