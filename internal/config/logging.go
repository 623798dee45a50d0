package config

import "fmt"

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string         `yaml:"level"`  // debug, info, warn, error
	Format   string         `yaml:"format"` // text, json
	Dir      string         `yaml:"dir"`    // log directory path
	Rotation RotationConfig `yaml:"rotation"`
	Console  ConsoleConfig  `yaml:"console"`
	File     FileConfig     `yaml:"file"`
}

// RotationConfig holds log rotation settings.
type RotationConfig struct {
	MaxSize    int  `yaml:"max_size"`    // MB
	MaxBackups int  `yaml:"max_backups"` // number of files
	MaxAge     int  `yaml:"max_age"`     // days
	Compress   bool `yaml:"compress"`    // gzip old files
}

// ConsoleConfig holds console output configuration.
type ConsoleConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // optional override
	Format  string `yaml:"format"` // text or json
}

// FileConfig holds file output configuration.
type FileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`  // optional override
	Format  string `yaml:"format"` // text or json
}

// DefaultLoggingConfig returns the production logging defaults.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "info",
		Format: "text",
		Dir:    "logs",
		Rotation: RotationConfig{
			MaxSize:    100,
			MaxBackups: 10,
			MaxAge:     30,
			Compress:   true,
		},
		Console: ConsoleConfig{
			Enabled: true,
			Level:   "info",
			Format:  "text",
		},
		File: FileConfig{
			Enabled: false,
			Level:   "info",
			Format:  "text",
		},
	}
}

// ApplyDefaults fills in missing values with defaults.
func (c *LoggingConfig) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "text"
	}
	if c.Dir == "" {
		c.Dir = "logs"
	}
	if c.Rotation.MaxSize == 0 {
		c.Rotation.MaxSize = 100
	}
	if c.Rotation.MaxBackups == 0 {
		c.Rotation.MaxBackups = 10
	}
	if c.Rotation.MaxAge == 0 {
		c.Rotation.MaxAge = 30
	}
	if c.Console.Level == "" {
		c.Console.Level = c.Level
	}
	if c.Console.Format == "" {
		c.Console.Format = c.Format
	}
	if c.File.Level == "" {
		c.File.Level = c.Level
	}
	if c.File.Format == "" {
		c.File.Format = c.Format
	}
}

// Validate checks level and format values.
func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q", c.Level)
	}
	switch c.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid logging format %q", c.Format)
	}
	return nil
}
