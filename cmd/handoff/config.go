package main

import (
	"time"

	"github.com/kbukum/handoff/config"
	"github.com/kbukum/handoff/observability"
	"github.com/kbukum/handoff/pipeline"
	"github.com/kbukum/handoff/validation"
	"github.com/kbukum/handoff/version"
)

const (
	serviceName  = "handoff"
	defaultItems = 20
)

// AppConfig is the configuration of the handoff binary.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	// Items is the number of generated source items, Item-1 .. Item-N.
	Items int `yaml:"items" mapstructure:"items" json:"items"`
	// RunID pins the run id; empty generates one.
	RunID string `yaml:"run_id" mapstructure:"run_id" json:"run_id"`
	// ShutdownTimeout bounds the telemetry flush after the run. Zero keeps
	// the bootstrap default.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" json:"shutdown_timeout"`

	Pipeline  pipeline.Config      `yaml:"pipeline" mapstructure:"pipeline" json:"pipeline"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry" json:"telemetry"`
}

// defaultConfig returns the values LoadConfig starts from.
func defaultConfig() *AppConfig {
	return &AppConfig{
		ServiceConfig: config.ServiceConfig{Name: serviceName},
		Items:         defaultItems,
		Pipeline:      pipeline.DefaultConfig(),
	}
}

// ApplyDefaults implements bootstrap.Config.
func (c *AppConfig) ApplyDefaults() {
	if c.Version == "" {
		c.Version = version.Get().Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate implements bootstrap.Config.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	err := validation.New().
		Min("items", c.Items, 0).
		OptionalUUID("run_id", c.RunID).
		Check(c.ShutdownTimeout >= 0, "shutdown_timeout", "must not be negative").
		Err()
	if err != nil {
		return err
	}
	if err := c.Pipeline.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

// resource describes this process to the telemetry backend.
func (c *AppConfig) resource() observability.Resource {
	return observability.Resource{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
	}
}
