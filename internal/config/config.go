// Package config provides configuration loading and management for guide.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the config file name looked for in the working directory.
const ProjectFile = "guide.yaml"

// Config represents the complete guide configuration.
type Config struct {
	Model   ModelConfig   `yaml:"model"`
	Paths   PathsConfig   `yaml:"paths"`
	Redis   RedisConfig   `yaml:"redis"`
	Monitor MonitorConfig `yaml:"monitor"`
}

// ModelConfig configures the LLM settings.
type ModelConfig struct {
	// Name selects the provider and model as "provider:model"
	Name string `yaml:"name"`
	// Temperature controls randomness (0.0-1.0, default: 0.2)
	Temperature float64 `yaml:"temperature"`
	// MaxTokens caps the completion length
	MaxTokens int `yaml:"max_tokens"`
}

// PathsConfig configures the data files.
type PathsConfig struct {
	// Philosophy is the philosophy document path (empty = builtin document)
	Philosophy string `yaml:"philosophy"`
	// BehaviorLog is the raw activity CSV
	BehaviorLog string `yaml:"behavior_log"`
	// SemanticLog is the derived findings CSV
	SemanticLog string `yaml:"semantic_log"`
	// CacheDir holds the file cache of verdicts (ignored when redis is set)
	CacheDir string `yaml:"cache_dir"`
}

// RedisConfig configures the optional Redis verdict cache.
type RedisConfig struct {
	// Addr is the Redis address (empty = use the file cache)
	Addr string `yaml:"addr"`
	// TTL is how long cached verdicts live (0 = no expiry)
	TTL time.Duration `yaml:"ttl"`
}

// MonitorConfig configures the live monitor loop.
type MonitorConfig struct {
	// Interval between activity samples
	Interval time.Duration `yaml:"interval"`
	// IdleThreshold before an inactivity event is logged
	IdleThreshold time.Duration `yaml:"idle_threshold"`
	// NotifyCommand is the desktop notification command (empty = log only)
	NotifyCommand string `yaml:"notify_command"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Name:        "openai:gpt-4o-mini",
			Temperature: 0.2,
			MaxTokens:   256,
		},
		Paths: PathsConfig{
			BehaviorLog: "data/behavior_log.csv",
			SemanticLog: "data/semantic_log.csv",
			CacheDir:    "data/cache",
		},
		Monitor: MonitorConfig{
			Interval:      30 * time.Second,
			IdleThreshold: 5 * time.Minute,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return fmt.Errorf("model.name is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if c.Paths.BehaviorLog == "" {
		return fmt.Errorf("paths.behavior_log is required")
	}
	if c.Monitor.Interval <= 0 {
		return fmt.Errorf("monitor.interval must be positive")
	}
	return nil
}

// loadFromFile parses one YAML layer.
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &config, nil
}

// userConfigPath returns the per-user config location, or "".
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "guide", ProjectFile)
}

// Load assembles the effective configuration: defaults, then the user file,
// then the project file, then environment overrides. Missing files are
// skipped; unreadable or invalid ones fail the load.
func Load(projectDir string, logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	config := DefaultConfig()

	layers := []string{userConfigPath(), filepath.Join(projectDir, ProjectFile)}
	for _, path := range layers {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		layer, err := loadFromFile(path)
		if err != nil {
			return nil, err
		}
		config.Merge(layer)
		logger.Debug("applied config layer", "path", path)
	}

	if model := os.Getenv("GUIDE_MODEL"); model != "" {
		config.Model.Name = model
		logger.Debug("model overridden from environment", "model", model)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). A zero value in other is indistinguishable from an unset
// field, so a higher layer cannot reset e.g. temperature or ttl to 0; pick a
// near-zero value instead.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Model.Name != "" {
		c.Model.Name = other.Model.Name
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.MaxTokens != 0 {
		c.Model.MaxTokens = other.Model.MaxTokens
	}

	if other.Paths.Philosophy != "" {
		c.Paths.Philosophy = other.Paths.Philosophy
	}
	if other.Paths.BehaviorLog != "" {
		c.Paths.BehaviorLog = other.Paths.BehaviorLog
	}
	if other.Paths.SemanticLog != "" {
		c.Paths.SemanticLog = other.Paths.SemanticLog
	}
	if other.Paths.CacheDir != "" {
		c.Paths.CacheDir = other.Paths.CacheDir
	}

	if other.Redis.Addr != "" {
		c.Redis.Addr = other.Redis.Addr
	}
	if other.Redis.TTL != 0 {
		c.Redis.TTL = other.Redis.TTL
	}

	if other.Monitor.Interval != 0 {
		c.Monitor.Interval = other.Monitor.Interval
	}
	if other.Monitor.IdleThreshold != 0 {
		c.Monitor.IdleThreshold = other.Monitor.IdleThreshold
	}
	if other.Monitor.NotifyCommand != "" {
		c.Monitor.NotifyCommand = other.Monitor.NotifyCommand
	}
}
