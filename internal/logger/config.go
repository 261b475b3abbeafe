package logger

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds logging configuration. It is embedded in heroforge.yaml under
// the logging key.
type Config struct {
	Level          string `yaml:"level" env:"LOG_LEVEL"`
	ConsoleEnabled *bool  `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format" env:"LOG_CONSOLE_FORMAT"`
	FileEnabled    bool   `yaml:"file_enabled" env:"LOG_FILE_ENABLED"`
	FilePath       string `yaml:"file_path" env:"LOG_FILE_PATH"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// DefaultConfig returns console-only text logging at INFO.
func DefaultConfig() Config {
	enabled := true
	return Config{
		Level:          "INFO",
		ConsoleEnabled: &enabled,
		ConsoleFormat:  "text",
		FilePath:       "logs/heroforge.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// WithDefaults fills every unset field from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Level == "" {
		c.Level = def.Level
	}
	if c.ConsoleEnabled == nil {
		c.ConsoleEnabled = def.ConsoleEnabled
	}
	if c.ConsoleFormat == "" {
		c.ConsoleFormat = def.ConsoleFormat
	}
	if c.FilePath == "" {
		c.FilePath = def.FilePath
	}
	if c.FileFormat == "" {
		c.FileFormat = def.FileFormat
	}
	if c.FileMaxSizeMB <= 0 {
		c.FileMaxSizeMB = def.FileMaxSizeMB
	}
	if c.FileMaxBackups <= 0 {
		c.FileMaxBackups = def.FileMaxBackups
	}
	if c.FileMaxAgeDays <= 0 {
		c.FileMaxAgeDays = def.FileMaxAgeDays
	}
	return c
}

// ApplyEnv overrides fields from LOG_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse logging env: %w", err)
	}
	return nil
}

func (c Config) consoleEnabled() bool {
	return c.ConsoleEnabled == nil || *c.ConsoleEnabled
}
