package bootstrap

import (
	"context"
	"fmt"
)

// Hook is a lifecycle callback that runs during application startup or shutdown.
type Hook func(ctx context.Context) error

// OnStart registers a hook that runs after all components are started and
// before configure callbacks.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnStop registers a hook that runs during shutdown before components are
// stopped.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes a slice of hooks sequentially, returning the first error.
func runHooks(ctx context.Context, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
