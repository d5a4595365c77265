// Package config resolves the engine toggles, pattern-pack directory, and
// audit-log location. File handling lives here so the filter package
// itself never touches the filesystem.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/promptshield/promptshield/internal/filter"
)

const (
	DefaultConfigDir  = ".promptshield"
	DefaultConfigFile = "config.yaml"
	DefaultPacksDir   = "packs"
	DefaultAuditFile  = "audit.jsonl"
)

type Config struct {
	ContentFilterEnabled      bool     `yaml:"content_filter_enabled"`
	PIIDetectionEnabled       bool     `yaml:"pii_detection_enabled"`
	JailbreakDetectionEnabled bool     `yaml:"jailbreak_detection_enabled"`
	FuzzyJailbreakEnabled     bool     `yaml:"fuzzy_jailbreak_enabled"`
	AllowedCategories         []string `yaml:"allowed_categories"`
	MaxCheckBytes             int      `yaml:"max_check_bytes"`
	PacksDir                  string   `yaml:"packs_dir"`
	AuditLog                  string   `yaml:"audit_log"`
}

// Default returns the stock configuration rooted under ~/.promptshield.
func Default() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	configDir := filepath.Join(homeDir, DefaultConfigDir)

	fc := filter.DefaultConfig()
	return &Config{
		ContentFilterEnabled:      fc.ContentFilterEnabled,
		PIIDetectionEnabled:       fc.PIIDetectionEnabled,
		JailbreakDetectionEnabled: fc.JailbreakDetectionEnabled,
		AllowedCategories:         fc.AllowedCategories,
		MaxCheckBytes:             fc.MaxCheckBytes,
		PacksDir:                  filepath.Join(configDir, DefaultPacksDir),
		AuditLog:                  filepath.Join(configDir, DefaultAuditFile),
	}, nil
}

// Load reads the YAML config at path, or the default location when path is
// empty. A missing file is not an error; absent keys keep their defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir := filepath.Join(homeDir, DefaultConfigDir)
		if err := ensureDir(configDir); err != nil {
			return nil, err
		}
		path = filepath.Join(configDir, DefaultConfigFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxCheckBytes <= 0 {
		return fmt.Errorf("max_check_bytes must be positive, got %d", c.MaxCheckBytes)
	}
	return nil
}

// Filter converts to the plain value struct the engine takes.
func (c *Config) Filter() filter.Config {
	return filter.Config{
		ContentFilterEnabled:      c.ContentFilterEnabled,
		PIIDetectionEnabled:       c.PIIDetectionEnabled,
		JailbreakDetectionEnabled: c.JailbreakDetectionEnabled,
		FuzzyJailbreakEnabled:     c.FuzzyJailbreakEnabled,
		AllowedCategories:         c.AllowedCategories,
		MaxCheckBytes:             c.MaxCheckBytes,
	}
}

func ensureDir(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, 0700)
	}
	return nil
}
