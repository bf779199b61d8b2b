// Package errors provides the structured error type shared by handoff packages.
// Every failure a pipeline run can report carries a machine-readable code, a
// human-readable message, optional details, and the process exit status the
// CLI should use for it.
package errors
