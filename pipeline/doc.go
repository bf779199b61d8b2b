// Package pipeline runs one producer and one consumer over a bounded channel
// and verifies that the destination is an exact, ordered copy of the source.
//
// A run validates its configuration before any goroutine starts, launches
// both workers, joins them, waits for every handed-off item to be
// acknowledged, and only then compares counters and contents:
//
//	res, err := pipeline.Run(ctx, []string{"a", "b", "c"}, pipeline.Config{Capacity: 2})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Report())
//
// A worker that fails aborts the channel so its peer never blocks on a dead
// partner; the run then returns a WORKER_FAILED error wrapping the cause.
// Counter or content mismatches are reported as CONSISTENCY_VIOLATION and are
// never corrected.
package pipeline
