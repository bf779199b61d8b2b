package channel

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/kbukum/handoff/errors"
)

// errAborted is recorded when Abort is called with a nil cause.
var errAborted = stderrors.New("channel aborted")

// Bounded is a fixed-capacity FIFO of messages guarded by one mutex and three
// condition variables. It is safe for one producer and one consumer goroutine
// plus any number of observers calling Len, Stats or WaitDrained.
type Bounded[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond
	drained  *sync.Cond

	// ring buffer: count messages starting at head
	buf   []Message[T]
	head  int
	count int

	// puts minus acks
	outstanding int
	abortErr    error

	peak         int
	puts         int
	gets         int
	acks         int
	sentinelsPut int
	sentinelsGot int
	produced     int
	consumed     int
}

// MaxCapacity is the largest buffer New allocates.
const MaxCapacity = 1 << 20

// New creates a channel holding at most capacity messages. A capacity outside
// [1, MaxCapacity] is a configuration error.
func New[T any](capacity int) (*Bounded[T], error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, errors.InvalidConfig("capacity",
			fmt.Sprintf("capacity must be between 1 and %d (got: %d)", MaxCapacity, capacity)).
			WithDetail("capacity", capacity)
	}
	c := &Bounded[T]{buf: make([]Message[T], capacity)}
	c.notFull = sync.NewCond(&c.mu)
	c.notEmpty = sync.NewCond(&c.mu)
	c.drained = sync.NewCond(&c.mu)
	return c, nil
}

// Put appends msg at the tail, blocking while the buffer is full. Each
// successful Put adds one unit of outstanding work. Putting anything after
// the sentinel is rejected without blocking.
func (c *Bounded[T]) Put(msg Message[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkPutLocked(); err != nil {
		return err
	}
	for c.count == len(c.buf) && c.abortErr == nil {
		c.notFull.Wait()
	}
	if err := c.checkPutLocked(); err != nil {
		return err
	}

	c.buf[(c.head+c.count)%len(c.buf)] = msg
	c.count++
	c.outstanding++
	c.puts++
	if msg.sentinel {
		c.sentinelsPut++
	}
	if c.count > c.peak {
		c.peak = c.count
	}
	c.notEmpty.Signal()
	return nil
}

func (c *Bounded[T]) checkPutLocked() error {
	if c.abortErr != nil {
		return errors.Aborted(c.abortErr)
	}
	if c.sentinelsPut > 0 {
		return errors.Protocol("put after the end-of-stream sentinel")
	}
	return nil
}

// Get removes and returns the message at the head, blocking while the buffer
// is empty. It does not acknowledge the message.
func (c *Bounded[T]) Get() (Message[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sentinelsGot > 0 {
		return Message[T]{}, errors.Protocol("get after the end-of-stream sentinel")
	}
	for c.count == 0 && c.abortErr == nil {
		c.notEmpty.Wait()
	}
	if c.abortErr != nil {
		return Message[T]{}, errors.Aborted(c.abortErr)
	}

	msg := c.buf[c.head]
	c.buf[c.head] = Message[T]{}
	c.head = (c.head + 1) % len(c.buf)
	c.count--
	c.gets++
	if msg.sentinel {
		c.sentinelsGot++
	}
	c.notFull.Signal()
	return msg, nil
}

// Acknowledge marks one dequeued message as fully processed. When the last
// outstanding unit is acknowledged every WaitDrained caller is released.
func (c *Bounded[T]) Acknowledge() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.acks >= c.gets {
		return errors.Protocol("acknowledge without a matching get").
			WithDetails(map[string]any{"gets": c.gets, "acks": c.acks})
	}
	c.acks++
	c.outstanding--
	if c.outstanding == 0 {
		c.drained.Broadcast()
	}
	return nil
}

// WaitDrained blocks until every message put so far has been acknowledged.
// It returns an aborted error if the channel is aborted first.
func (c *Bounded[T]) WaitDrained() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.outstanding > 0 && c.abortErr == nil {
		c.drained.Wait()
	}
	if c.abortErr != nil {
		return errors.Aborted(c.abortErr)
	}
	return nil
}

// Abort releases every blocked and future Put, Get and WaitDrained with an
// aborted error wrapping cause. Only the first cause is kept.
func (c *Bounded[T]) Abort(cause error) {
	if cause == nil {
		cause = errAborted
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.abortErr != nil {
		return
	}
	c.abortErr = cause
	c.notFull.Broadcast()
	c.notEmpty.Broadcast()
	c.drained.Broadcast()
}

// Err returns the cause passed to Abort, or nil.
func (c *Bounded[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.abortErr
}

// MarkProduced counts one real item handed over by the producer.
func (c *Bounded[T]) MarkProduced() {
	c.mu.Lock()
	c.produced++
	c.mu.Unlock()
}

// MarkConsumed counts one real item stored by the consumer.
func (c *Bounded[T]) MarkConsumed() {
	c.mu.Lock()
	c.consumed++
	c.mu.Unlock()
}

// Len returns the number of buffered messages.
func (c *Bounded[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Cap returns the channel capacity.
func (c *Bounded[T]) Cap() int { return len(c.buf) }

// Outstanding returns the number of put messages not yet acknowledged.
func (c *Bounded[T]) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outstanding
}

// Stats returns a consistent snapshot of the channel counters.
func (c *Bounded[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Capacity:     len(c.buf),
		Buffered:     c.count,
		Peak:         c.peak,
		Outstanding:  c.outstanding,
		Puts:         c.puts,
		Gets:         c.gets,
		Acks:         c.acks,
		SentinelsPut: c.sentinelsPut,
		SentinelsGot: c.sentinelsGot,
		Produced:     c.produced,
		Consumed:     c.consumed,
		Aborted:      c.abortErr != nil,
	}
}
