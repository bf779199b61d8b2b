package bootstrap

import (
	"github.com/kbukum/handoff/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it through promoted
// methods; override ApplyDefaults and Validate to cover the extra sections.
//
// Example:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Pipeline pipeline.Config `yaml:"pipeline" mapstructure:"pipeline"`
//	}
//
//	app, err := bootstrap.NewApp(&cfg)
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
