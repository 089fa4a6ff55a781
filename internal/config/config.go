package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"taskbook/pkg/task"
)

// Storage drivers.
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the taskbook configuration file.
type Config struct {
	Tasks   TasksConfig   `yaml:"tasks"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	UI      UIConfig      `yaml:"ui"`
}

type TasksConfig struct {
	// RequireDatesOnCreate makes due and completion dates mandatory for new tasks.
	RequireDatesOnCreate bool `yaml:"require_dates_on_create"`
	// StrictTransitions refuses moving a task out of Completed or Cancelled.
	StrictTransitions bool   `yaml:"strict_transitions"`
	DefaultSort       string `yaml:"default_sort"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	Path        string `yaml:"path"`
	DatabaseURL string `yaml:"database_url"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type UIConfig struct {
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
}

// Dir returns the per-user taskbook directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskbook"
	}
	return filepath.Join(home, ".taskbook")
}

// DefaultPath is where the config file lives unless --config says otherwise.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Tasks: TasksConfig{
			DefaultSort: "none",
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			Path:   filepath.Join(Dir(), "tasks.json"),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		UI: UIConfig{
			WindowWidth:  900,
			WindowHeight: 700,
		},
	}
}

// Load reads the YAML file at path on top of the defaults and applies
// environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TASKBOOK_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("TASKBOOK_STORAGE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DatabaseURL = v
	}
	if v := os.Getenv("TASKBOOK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if b, err := strconv.ParseBool(os.Getenv("TASKBOOK_REQUIRE_DATES")); err == nil {
		c.Tasks.RequireDatesOnCreate = b
	}
	if b, err := strconv.ParseBool(os.Getenv("TASKBOOK_STRICT_TRANSITIONS")); err == nil {
		c.Tasks.StrictTransitions = b
	}
}

var (
	ValidDrivers = []string{DriverFile, DriverSQLite, DriverPostgres}
	ValidLevels  = []string{"debug", "info", "warn", "error"}
)

// Validate checks the configuration for values the binaries cannot use.
func (c *Config) Validate() error {
	if !slices.Contains(ValidDrivers, c.Storage.Driver) {
		return fmt.Errorf("invalid storage driver %q (valid: %v)", c.Storage.Driver, ValidDrivers)
	}
	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("storage driver postgres needs database_url (or DATABASE_URL)")
		}
	default:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage driver %s needs a path", c.Storage.Driver)
		}
	}
	if !slices.Contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("invalid log level %q (valid: %v)", c.Logging.Level, ValidLevels)
	}
	if _, err := c.SortMode(); err != nil {
		return fmt.Errorf("tasks.default_sort: %w", err)
	}
	return nil
}

// SortMode parses Tasks.DefaultSort.
func (c *Config) SortMode() (task.SortMode, error) {
	return task.ParseSortMode(c.Tasks.DefaultSort)
}
