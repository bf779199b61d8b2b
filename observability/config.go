package observability

import (
	"time"

	"github.com/kbukum/handoff/validation"
)

// Config is the telemetry block of the application configuration.
type Config struct {
	// Enabled turns on OTLP export. When false, instruments record into the
	// global no-op providers.
	Enabled bool `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" json:"endpoint" validate:"required_if=Enabled true"`
	// Insecure allows plain HTTP (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure" json:"insecure"`
	// SampleRate is the trace sampling ratio in [0, 1].
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" json:"interval" validate:"gte=0"`
}

// ApplyDefaults fills unset fields with development defaults.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == 0 {
		c.Interval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Resource identifies the process in exported telemetry.
type Resource struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	Resource
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// TracerConfig configures the OpenTelemetry tracer provider.
type TracerConfig struct {
	Resource
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64
}

// MeterConfig derives the meter provider settings.
func (c Config) MeterConfig(res Resource) MeterConfig {
	return MeterConfig{Resource: res, Endpoint: c.Endpoint, Insecure: c.Insecure, Interval: c.Interval}
}

// TracerConfig derives the tracer provider settings.
func (c Config) TracerConfig(res Resource) TracerConfig {
	return TracerConfig{Resource: res, Endpoint: c.Endpoint, Insecure: c.Insecure, SampleRate: c.SampleRate}
}
