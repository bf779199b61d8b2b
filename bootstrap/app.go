package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/kbukum/handoff/component"
	"github.com/kbukum/handoff/logger"
)

// DefaultGracefulTimeout bounds OnStop hooks plus component shutdown.
const DefaultGracefulTimeout = 15 * time.Second

// App owns the lifecycle of one finite handoff process. The type parameter C
// is the config type; any struct embedding config.ServiceConfig satisfies
// Config.
//
// Example:
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithComponents(telemetry))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := pipeline.Run(ctx, items, cfg.Pipeline)
//	    return err
//	})
type App[C Config] struct {
	Name       string
	Version    string
	Cfg        C
	Components *component.Registry
	Logger     *logger.Logger

	gracefulTimeout time.Duration
	onConfigure     []func(ctx context.Context, app *App[C]) error

	onStart []Hook
	onStop  []Hook
}

// NewApp creates a new application instance from a typed config.
// It applies defaults, validates the config, and initializes the logger.
func NewApp[C Config](cfg C, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetServiceConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Cfg:             cfg,
		gracefulTimeout: DefaultGracefulTimeout,
	}
	if o.gracefulTimeout > 0 {
		app.gracefulTimeout = o.gracefulTimeout
	}

	// Logger: use custom if provided, otherwise init from config.
	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(&base.Logging)
		app.Logger = logger.GetGlobalLogger()
	}
	app.Components = component.NewRegistry(app.Logger)
	for _, c := range o.components {
		if err := app.Components.Register(c); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// RegisterComponent adds a component to the application's registry.
func (a *App[C]) RegisterComponent(c component.Component) error {
	return a.Components.Register(c)
}

// OnConfigure registers a callback to run once components are started.
// Use it to wire task dependencies that need a started component.
func (a *App[C]) OnConfigure(fn func(ctx context.Context, app *App[C]) error) {
	a.onConfigure = append(a.onConfigure, fn)
}

// ReadyCheck reports every component that is not healthy.
func (a *App[C]) ReadyCheck(ctx context.Context) error {
	var unhealthy []string
	for _, h := range a.Components.HealthAll(ctx) {
		if h.Status == component.StatusHealthy {
			continue
		}
		detail := h.Name + "=" + string(h.Status)
		if h.Message != "" {
			detail += "(" + h.Message + ")"
		}
		unhealthy = append(unhealthy, detail)
	}
	if len(unhealthy) > 0 {
		return fmt.Errorf("components not healthy: %s", strings.Join(unhealthy, ", "))
	}
	return nil
}

// RunTask starts components, runs task, and shuts down when the task
// returns. SIGINT and SIGTERM cancel the task's context; what the task does
// with that is up to the task. The task error takes precedence over a
// shutdown error.
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := a.startup(ctx); err != nil {
		if stopErr := a.stop(); stopErr != nil {
			a.Logger.Warn("Shutdown after failed startup reported errors", logger.MergeWithError(nil, stopErr))
		}
		return err
	}

	taskCtx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	taskErr := task(taskCtx)
	fields := logger.DurationFields("task", time.Since(start))
	if taskErr != nil {
		a.Logger.Debug("Task finished with error", logger.MergeWithError(fields, taskErr))
	} else {
		a.Logger.Debug("Task finished", fields)
	}

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// startup starts components, runs OnStart hooks and configure callbacks.
func (a *App[C]) startup(ctx context.Context) error {
	a.Logger.Debug("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
	))

	if err := a.Components.StartAll(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	if err := runHooks(ctx, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}
	for _, fn := range a.onConfigure {
		if err := fn(ctx, a); err != nil {
			return fmt.Errorf("configuration failed: %w", err)
		}
	}

	if err := a.ReadyCheck(ctx); err != nil {
		a.Logger.Debug("Ready check reported issues", logger.MergeWithError(nil, err))
	}
	return nil
}

// Shutdown performs graceful shutdown. Use when managing your own lifecycle.
func (a *App[C]) Shutdown() error {
	return a.stop()
}

// stop runs OnStop hooks and stops all components within the graceful timeout.
func (a *App[C]) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error
	if err := runHooks(ctx, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.MergeWithError(nil, err))
		shutdownErr = err
	}
	if err := a.Components.StopAll(ctx); err != nil {
		a.Logger.Error("Shutdown completed with errors", logger.MergeWithError(nil, err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Debug("Application shutdown complete")
	return shutdownErr
}
