package channel

// Message is the unit stored in a Bounded channel: either a real item or the
// end-of-stream sentinel. The sentinel is distinguishable from every value of
// T, including the zero value.
type Message[T any] struct {
	value    T
	sentinel bool
}

// Item wraps a real value.
func Item[T any](v T) Message[T] {
	return Message[T]{value: v}
}

// Sentinel returns the end-of-stream marker.
func Sentinel[T any]() Message[T] {
	return Message[T]{sentinel: true}
}

// Value returns the wrapped item. It is the zero value for the sentinel.
func (m Message[T]) Value() T { return m.value }

// IsSentinel reports whether m marks the end of the stream.
func (m Message[T]) IsSentinel() bool { return m.sentinel }
