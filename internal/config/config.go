// Package config loads the brickworld configuration from YAML with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/HendryAvila/brickworld/internal/kv"
	"github.com/HendryAvila/brickworld/internal/scene"
)

// DirName is the per-user directory holding config and data.
const DirName = ".brickworld"

// userHomeDir is a package-level variable for testability.
var userHomeDir = os.UserHomeDir

// Config is the root configuration.
type Config struct {
	DataDir string        `yaml:"data_dir"`
	Storage StorageConfig `yaml:"storage"`
	Scene   SceneConfig   `yaml:"scene"`
	Logging LoggingConfig `yaml:"logging"`
	Export  ExportConfig  `yaml:"export"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // memory, file, sqlite, postgres
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

// SceneConfig tunes the scene store.
type SceneConfig struct {
	HistoryLimit int `yaml:"history_limit"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// ExportConfig controls PNG export.
type ExportConfig struct {
	CellSize int `yaml:"cell_size"`
	Padding  int `yaml:"padding"`
}

// BaseDir returns ~/.brickworld, or a relative .brickworld when the home
// directory cannot be determined.
func BaseDir() string {
	home, err := userHomeDir()
	if err != nil || home == "" {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(BaseDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir: BaseDir(),
		Storage: StorageConfig{
			Backend: kv.BackendSQLite,
		},
		Scene: SceneConfig{
			HistoryLimit: scene.DefaultHistoryLimit,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Export: ExportConfig{
			CellSize: 24,
			Padding:  1,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case kv.BackendMemory, kv.BackendFile, kv.BackendSQLite:
	case kv.BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage backend postgres requires postgres_dsn (or BRICKWORLD_POSTGRES_DSN)")
		}
	default:
		return fmt.Errorf("invalid storage backend %q: must be one of: memory, file, sqlite, postgres", c.Storage.Backend)
	}
	if c.Scene.HistoryLimit < 1 {
		return fmt.Errorf("scene.history_limit must be at least 1, got %d", c.Scene.HistoryLimit)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	return nil
}

// KVOptions maps the storage settings onto kv.Open options.
func (c *Config) KVOptions() kv.Options {
	return kv.Options{
		Backend:     c.Storage.Backend,
		DataDir:     c.DataDir,
		PostgresDSN: c.Storage.PostgresDSN,
	}
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("BRICKWORLD_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if backend := os.Getenv("BRICKWORLD_STORAGE"); backend != "" {
		c.Storage.Backend = backend
	}

	// Dedicated variable wins over the generic one.
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		c.Storage.PostgresDSN = dsn
	}
	if dsn := os.Getenv("BRICKWORLD_POSTGRES_DSN"); dsn != "" {
		c.Storage.PostgresDSN = dsn
	}

	if level := os.Getenv("BRICKWORLD_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if v := os.Getenv("BRICKWORLD_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Scene.HistoryLimit = n
		}
	}
}
