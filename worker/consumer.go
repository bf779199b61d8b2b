package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kbukum/handoff/channel"
	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
)

// State is the consumer's position in its lifecycle.
type State int32

const (
	// StateRunning is the initial state: the consumer keeps calling Get.
	StateRunning State = iota
	// StateDone is reached exactly once, on receipt of the sentinel.
	StateDone
	// StateFailed is reached when Get, the hook or Acknowledge fails.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Consumer takes messages off the channel until the sentinel and appends
// every real item to its destination.
type Consumer[T any] struct {
	ch   *channel.Bounded[T]
	hook Hook[T]
	settings

	dest    []T
	state   atomic.Int32
	started atomic.Bool
}

// NewConsumer creates a consumer draining ch. hook may be nil.
func NewConsumer[T any](ch *channel.Bounded[T], hook Hook[T], opts ...Option) *Consumer[T] {
	c := &Consumer[T]{
		ch:       ch,
		hook:     hook,
		settings: resolve(RoleConsumer, opts),
	}
	c.dest = make([]T, 0, c.sizeHint)
	return c
}

// Run consumes until the sentinel has been received and acknowledged. No Get
// is issued after that. A consumer runs once.
func (c *Consumer[T]) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.Protocol("consumer already ran").WithDetail("state", c.State().String())
	}

	log := c.log.WithContext(ctx)
	log.Debug("Consumption started")

	for index := 0; ; index++ {
		msg, err := c.ch.Get()
		if err != nil {
			return c.fail(err)
		}

		if msg.IsSentinel() {
			if err := c.ch.Acknowledge(); err != nil {
				return c.fail(err)
			}
			c.state.Store(int32(StateDone))
			log.Debug("Received sentinel, consumption complete", logger.Fields(
				logger.FieldDestination, len(c.dest),
			))
			return nil
		}

		item := msg.Value()
		c.jitter.Sleep()
		if c.hook != nil {
			if err := c.hook.call(ctx, index, item); err != nil {
				return c.fail(fmt.Errorf("consume item %d: %w", index, err))
			}
		}

		c.dest = append(c.dest, item)
		c.ch.MarkConsumed()
		if err := c.ch.Acknowledge(); err != nil {
			return c.fail(err)
		}

		c.observer.ItemConsumed(ctx)
		log.Debug("Item consumed", logger.Fields(
			logger.FieldIndex, index,
			logger.FieldDestination, len(c.dest),
		))
	}
}

func (c *Consumer[T]) fail(err error) error {
	c.state.Store(int32(StateFailed))
	return err
}

// State returns the current lifecycle state. Safe to call concurrently.
func (c *Consumer[T]) State() State {
	return State(c.state.Load())
}

// Destination returns the items stored so far. The slice belongs to the
// consumer until Run has returned.
func (c *Consumer[T]) Destination() []T {
	return c.dest
}
