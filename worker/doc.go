// Package worker contains the two roles of a handoff run.
//
// A Producer drains a source.Iterator into a channel.Bounded and finishes
// with exactly one end-of-stream sentinel, also when the source is empty. A
// Consumer drains the channel into its destination slice, acknowledging every
// message it takes, and stops when it sees the sentinel.
//
// Neither role retries. Any error from the source, a per-item hook, or the
// channel ends the role's Run and is returned to the caller, which is expected
// to abort the channel so the peer is released.
package worker
