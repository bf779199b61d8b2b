package bootstrap

import (
	"time"

	"github.com/kbukum/handoff/component"
	"github.com/kbukum/handoff/logger"
)

// Option configures the App during creation. Options do not depend on the
// config type, so one option slice works for any App[C].
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout time.Duration
	components      []component.Component
}

func resolveOptions(opts []Option) appOptions {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger replaces the logger NewApp would build from the config's
// Logging section. The global logger is left untouched.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) { o.logger = l }
}

// WithGracefulTimeout bounds OnStop hooks plus component shutdown. Zero or a
// negative value keeps DefaultGracefulTimeout.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		if d > 0 {
			o.gracefulTimeout = d
		}
	}
}

// WithComponents registers components in the given order as part of NewApp.
func WithComponents(cs ...component.Component) Option {
	return func(o *appOptions) { o.components = append(o.components, cs...) }
}
