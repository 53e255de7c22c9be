package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"
)

// Default returns the settings used when no settings file exists.
func Default() *AppConfig {
	cfg := &AppConfig{
		Input: InputConfig{SizeColumn: 1},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads settings from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.UnmarshalStrict([]byte(expandedData), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Input.Encoding == "" {
		c.Input.Encoding = "windows-31j"
	}
}

// Validate checks settings that cannot be fixed by defaults.
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	if c.Input.SpeciesColumn < 0 || c.Input.SizeColumn < 0 {
		return fmt.Errorf("column index must not be negative")
	}
	if c.Input.SpeciesColumn == c.Input.SizeColumn {
		return fmt.Errorf("species_column and size_column must differ")
	}
	return nil
}
