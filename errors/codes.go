package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors, raised before any worker starts.
const (
	// ErrCodeInvalidConfig indicates a configuration value is out of range.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeMissingField indicates a required configuration field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Run errors
const (
	// ErrCodeConsistency indicates a post-run invariant did not hold.
	ErrCodeConsistency ErrorCode = "CONSISTENCY_VIOLATION"
	// ErrCodeWorkerFailed indicates the producer or consumer aborted the run.
	ErrCodeWorkerFailed ErrorCode = "WORKER_FAILED"
)

// Channel errors
const (
	// ErrCodeAborted indicates a channel operation was released by Abort.
	ErrCodeAborted ErrorCode = "CHANNEL_ABORTED"
	// ErrCodeProtocol indicates the sentinel or acknowledge protocol was misused.
	ErrCodeProtocol ErrorCode = "PROTOCOL_VIOLATION"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Process exit statuses used by the CLI.
const (
	ExitOK          = 0
	ExitInternal    = 1
	ExitConfig      = 2
	ExitWorker      = 3
	ExitConsistency = 4
)

var exitCodes = map[ErrorCode]int{
	ErrCodeInvalidConfig: ExitConfig,
	ErrCodeMissingField:  ExitConfig,
	ErrCodeConsistency:   ExitConsistency,
	ErrCodeWorkerFailed:  ExitWorker,
	ErrCodeAborted:       ExitWorker,
	ErrCodeProtocol:      ExitInternal,
	ErrCodeInternal:      ExitInternal,
}

// ExitCodeFor returns the process exit status for an error code.
func ExitCodeFor(code ErrorCode) int {
	if c, ok := exitCodes[code]; ok {
		return c
	}
	return ExitInternal
}

// Nothing in a pipeline run is retried: a failure is a bug or a dead peer.
var retryableCodes = map[ErrorCode]bool{}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
