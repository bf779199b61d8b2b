// Package channel implements the bounded, blocking FIFO that hands items from
// one producer goroutine to one consumer goroutine.
//
// A Bounded channel holds at most Cap() messages. Put blocks while the buffer
// is full and Get blocks while it is empty, which gives backpressure in both
// directions and keeps memory at O(capacity) regardless of the source size.
//
// End of stream travels in-band: the producer puts a single Sentinel message
// after its last item. Completion is tracked separately from dequeueing. Every
// successful Put adds one unit of outstanding work and every Acknowledge
// removes one, so WaitDrained returns only once the consumer has finished
// with everything, the sentinel included.
//
//	ch, _ := channel.New[string](5)
//	go func() {
//	    for _, s := range items {
//	        _ = ch.Put(channel.Item(s))
//	    }
//	    _ = ch.Put(channel.Sentinel[string]())
//	}()
//	for {
//	    msg, _ := ch.Get()
//	    if msg.IsSentinel() {
//	        _ = ch.Acknowledge()
//	        break
//	    }
//	    use(msg.Value())
//	    _ = ch.Acknowledge()
//	}
//	_ = ch.WaitDrained()
//
// Put, Get and WaitDrained do not take a context. The only way to release a
// blocked call early is Abort, which is meant for a worker that has already
// failed so that its peer does not wait forever.
package channel
