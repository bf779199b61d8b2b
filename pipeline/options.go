package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
	"github.com/kbukum/handoff/observability"
	"github.com/kbukum/handoff/worker"
)

// Option configures a single run.
type Option func(*runOptions)

type runOptions struct {
	log          *logger.Logger
	metrics      *observability.Metrics
	runID        uuid.UUID
	producerHook any
	consumerHook any
}

func resolveOptions(opts []Option) runOptions {
	o := runOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}
	if o.runID == uuid.Nil {
		o.runID = uuid.New()
	}
	return o
}

// WithLogger sets the logger for the run and both workers.
func WithLogger(l *logger.Logger) Option {
	return func(o *runOptions) { o.log = l }
}

// WithMetrics records item, buffer and run metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *runOptions) { o.metrics = m }
}

// WithRunID sets the run id instead of generating one.
func WithRunID(id uuid.UUID) Option {
	return func(o *runOptions) { o.runID = id }
}

// WithProducerHook runs h for each item before it is put on the channel.
// The item type must match the run's item type.
func WithProducerHook[T any](h worker.Hook[T]) Option {
	return func(o *runOptions) { o.producerHook = h }
}

// WithConsumerHook runs h for each item before it is stored.
// The item type must match the run's item type.
func WithConsumerHook[T any](h worker.Hook[T]) Option {
	return func(o *runOptions) { o.consumerHook = h }
}

// hookFor narrows a stored hook to the run's item type.
func hookFor[T any](h any, field string) (worker.Hook[T], error) {
	if h == nil {
		return nil, nil
	}
	typed, ok := h.(worker.Hook[T])
	if !ok {
		var zero T
		return nil, errors.InvalidConfig(field, fmt.Sprintf("hook does not accept items of type %T", zero))
	}
	return typed, nil
}
