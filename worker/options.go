package worker

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
)

// Role names a worker in logs, spans and errors.
type Role string

const (
	RoleProducer Role = "producer"
	RoleConsumer Role = "consumer"
)

// Hook runs once per real item, before the producer hands it over or before
// the consumer stores it. index is the item's position in the source. A
// non-nil error or a panic is fatal to the run.
type Hook[T any] func(ctx context.Context, index int, item T) error

// call runs h and reports a panic inside it as an INTERNAL_ERROR.
func (h Hook[T]) call(ctx context.Context, index int, item T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internal(fmt.Errorf("hook panicked: %v", r)).WithDetail(logger.FieldIndex, index)
		}
	}()
	return h(ctx, index, item)
}

// Observer receives per-item progress. Implementations must be safe for
// concurrent use by both roles.
type Observer interface {
	ItemProduced(ctx context.Context, buffered int)
	ItemConsumed(ctx context.Context)
}

type nopObserver struct{}

func (nopObserver) ItemProduced(context.Context, int) {}
func (nopObserver) ItemConsumed(context.Context)      {}

// Jitter simulates per-item processing time drawn uniformly from [Min, Max].
// The zero value disables it.
type Jitter struct {
	Min time.Duration `yaml:"min" mapstructure:"min" json:"min" validate:"gte=0"`
	Max time.Duration `yaml:"max" mapstructure:"max" json:"max" validate:"gte=0,gtefield=Min"`
}

// Enabled reports whether Sleep does anything.
func (j Jitter) Enabled() bool { return j.Max > 0 }

// Duration draws one delay.
func (j Jitter) Duration() time.Duration {
	if !j.Enabled() {
		return 0
	}
	if j.Max <= j.Min {
		return j.Min
	}
	return j.Min + rand.N(j.Max-j.Min+1)
}

// Sleep pauses for one drawn delay.
func (j Jitter) Sleep() {
	if d := j.Duration(); d > 0 {
		time.Sleep(d)
	}
}

// Option configures a Producer or Consumer.
type Option func(*settings)

type settings struct {
	log      *logger.Logger
	jitter   Jitter
	observer Observer
	sizeHint int
}

func resolve(role Role, opts []Option) settings {
	s := settings{observer: nopObserver{}}
	for _, opt := range opts {
		opt(&s)
	}
	if s.log == nil {
		s.log = logger.WithComponent(string(role))
	} else {
		s.log = s.log.WithComponent(string(role))
	}
	return s
}

// WithLogger sets the logger. The role is added as the component field.
func WithLogger(l *logger.Logger) Option {
	return func(s *settings) { s.log = l }
}

// WithJitter enables simulated per-item processing time.
func WithJitter(j Jitter) Option {
	return func(s *settings) { s.jitter = j }
}

// WithObserver sets the per-item progress observer.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithSizeHint preallocates the consumer destination. Ignored by producers.
func WithSizeHint(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.sizeHint = n
		}
	}
}
