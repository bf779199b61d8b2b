package worker

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/kbukum/handoff/channel"
	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
	"github.com/kbukum/handoff/source"
)

// Producer puts every source item on the channel in order, then the sentinel.
type Producer[T any] struct {
	src  source.Iterator[T]
	ch   *channel.Bounded[T]
	hook Hook[T]
	settings

	started  atomic.Bool
	produced atomic.Int64
}

// NewProducer creates a producer draining src into ch. hook may be nil.
func NewProducer[T any](src source.Iterator[T], ch *channel.Bounded[T], hook Hook[T], opts ...Option) *Producer[T] {
	return &Producer[T]{
		src:      src,
		ch:       ch,
		hook:     hook,
		settings: resolve(RoleProducer, opts),
	}
}

// Run drains the source. It returns after the sentinel has been put, or with
// the first error from the source, the hook, or the channel. The source is
// closed before Run returns. A producer runs once.
func (p *Producer[T]) Run(ctx context.Context) (err error) {
	if !p.started.CompareAndSwap(false, true) {
		return errors.Protocol("producer already ran")
	}
	defer func() {
		if cerr := p.src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close source: %w", cerr)
		}
	}()

	log := p.log.WithContext(ctx)
	log.Debug("Production started", logger.Fields(logger.FieldCapacity, p.ch.Cap()))

	for index := 0; ; index++ {
		item, ok, err := p.src.Next(ctx)
		if err != nil {
			return fmt.Errorf("read source item %d: %w", index, err)
		}
		if !ok {
			break
		}
		if p.hook != nil {
			if err := p.hook.call(ctx, index, item); err != nil {
				return fmt.Errorf("produce item %d: %w", index, err)
			}
		}
		p.jitter.Sleep()

		if err := p.ch.Put(channel.Item(item)); err != nil {
			return err
		}
		p.ch.MarkProduced()
		p.produced.Add(1)

		buffered := p.ch.Len()
		p.observer.ItemProduced(ctx, buffered)
		log.Debug("Item produced", logger.Fields(
			logger.FieldIndex, index,
			logger.FieldBuffered, buffered,
		))
	}

	if err := p.ch.Put(channel.Sentinel[T]()); err != nil {
		return err
	}
	log.Debug("Production complete, sentinel sent", logger.Fields("produced", p.produced.Load()))
	return nil
}

// Produced returns how many real items have been put so far.
func (p *Producer[T]) Produced() int { return int(p.produced.Load()) }
