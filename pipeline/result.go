package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Result describes a finished run.
type Result[T any] struct {
	RunID uuid.UUID
	// Destination holds the consumed items in arrival order.
	Destination []T

	Produced     int
	Consumed     int
	SourceLen    int
	Capacity     int
	PeakBuffered int
	Duration     time.Duration

	// Integrity reports whether the destination is an exact ordered copy of
	// the source and every counter agrees.
	Integrity bool
}

// Report renders the run statistics as an indented text block.
func (r *Result[T]) Report() string {
	integrity := "FAIL"
	if r.Integrity {
		integrity = "PASS"
	}

	var b strings.Builder
	b.WriteString("Statistics:\n")
	fmt.Fprintf(&b, "  Run ID: %s\n", r.RunID)
	fmt.Fprintf(&b, "  Items Produced: %d\n", r.Produced)
	fmt.Fprintf(&b, "  Items Consumed: %d\n", r.Consumed)
	fmt.Fprintf(&b, "  Source Container Size: %d\n", r.SourceLen)
	fmt.Fprintf(&b, "  Destination Container Size: %d\n", len(r.Destination))
	fmt.Fprintf(&b, "  Channel Capacity: %d (peak %d)\n", r.Capacity, r.PeakBuffered)
	fmt.Fprintf(&b, "  Duration: %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  Data Integrity: %s\n", integrity)
	return b.String()
}
