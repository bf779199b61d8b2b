package source

import "context"

// Iterator provides pull-based sequential access to a finite stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// FromSlice returns an iterator over items in index order. The slice is read,
// never written.
func FromSlice[T any](items []T) Iterator[T] {
	return &sliceIter[T]{items: items}
}

// FromFunc returns an iterator that calls next until it reports exhaustion or
// an error. close may be nil.
func FromFunc[T any](next func(ctx context.Context) (T, bool, error), close func() error) Iterator[T] {
	return &funcIter[T]{next: next, close: close}
}

// Sequence returns an iterator over gen(0) .. gen(n-1).
func Sequence[T any](n int, gen func(i int) T) Iterator[T] {
	i := 0
	return FromFunc(func(_ context.Context) (T, bool, error) {
		if i >= n {
			var zero T
			return zero, false, nil
		}
		v := gen(i)
		i++
		return v, true, nil
	}, nil)
}

// Collect drains it and returns all values. The iterator is closed.
func Collect[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	defer it.Close()
	var out []T
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type funcIter[T any] struct {
	next  func(ctx context.Context) (T, bool, error)
	close func() error
	done  bool
}

func (it *funcIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	v, ok, err := it.next(ctx)
	if err != nil || !ok {
		it.done = true
		return zero, false, err
	}
	return v, true, nil
}

func (it *funcIter[T]) Close() error {
	it.done = true
	if it.close != nil {
		return it.close()
	}
	return nil
}
