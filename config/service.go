package config

import (
	"github.com/kbukum/handoff/logger"
	"github.com/kbukum/handoff/validation"
)

// ServiceConfig contains the fields every handoff binary needs. Binaries
// extend it by embedding it in their own config structs.
//
// Example:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Pipeline pipeline.Config `yaml:"pipeline" mapstructure:"pipeline"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" json:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" json:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version" json:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug" json:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging" json:"logging" validate:"-"`
}

// GetServiceConfig returns the base ServiceConfig.
// When embedded in a larger config struct, this method is promoted
// so the embedding struct automatically satisfies bootstrap's Config.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Embedding structs that override it call c.ServiceConfig.ApplyDefaults() first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Logging.ServiceName == "" && c.Name != "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate validates the base configuration fields.
// Embedding structs that override it call c.ServiceConfig.Validate() first.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.Logging.Validate()
}
