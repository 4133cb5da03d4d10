package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"merkle-snap/internal/hash"
	"merkle-snap/internal/walker"
)

type Config struct {
	Dir           string        `yaml:"dir"`
	FileCount     int           `yaml:"file_count"`
	Algorithm     string        `yaml:"algorithm"`
	Exclude       []string      `yaml:"exclude"`
	ReportRemoved bool          `yaml:"report_removed"`
	LogLevel      string        `yaml:"log_level"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// DefaultConfig tracks every regular file; exclusions are opt-in.
func DefaultConfig() *Config {
	return &Config{
		Dir:           "demo_files",
		FileCount:     3,
		Algorithm:     hash.SHA256,
		Exclude:       []string{},
		ReportRemoved: false,
		LogLevel:      "info",
		WatchDebounce: 200 * time.Millisecond,
	}
}

// LoadConfig reads path on top of the defaults. A missing file yields the
// defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if cfg.Exclude == nil {
		cfg.Exclude = []string{}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Dir == "" {
		return errors.New("config: dir must not be empty")
	}
	if c.FileCount < 1 {
		return fmt.Errorf("config: file_count must be at least 1, got %d", c.FileCount)
	}
	if _, err := hash.New(c.Algorithm); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := walker.ValidatePatterns(c.Exclude); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("config: watch_debounce must be positive, got %s", c.WatchDebounce)
	}
	return nil
}
