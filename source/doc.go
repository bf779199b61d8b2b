// Package source provides the pull-based iterators a producer drains.
//
// An Iterator yields values in order until it reports exhaustion. FromSlice
// reads an in-memory slice without copying or mutating it; FromFunc and
// Sequence build generated sources.
//
//	src := source.Sequence(20, func(i int) string { return fmt.Sprintf("Item-%d", i+1) })
//	defer src.Close()
//	for {
//	    v, ok, err := src.Next(ctx)
//	    if err != nil || !ok {
//	        break
//	    }
//	    use(v)
//	}
package source
