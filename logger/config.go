package logger

import (
	"fmt"
	"slices"

	"github.com/kbukum/handoff/errors"
)

// Config contains logging configuration.
type Config struct {
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}
	validFormats = []string{"json", "console", "pretty"}
)

// Validate validates logging configuration.
func (c *Config) Validate() error {
	if !slices.Contains(validLevels, c.Level) {
		return errors.InvalidConfig("logging.level",
			fmt.Sprintf("logging.level must be one of %v (got: %s)", validLevels, c.Level))
	}
	if !slices.Contains(validFormats, c.Format) {
		return errors.InvalidConfig("logging.format",
			fmt.Sprintf("logging.format must be one of %v (got: %s)", validFormats, c.Format))
	}
	return nil
}
