package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/handoff/errors"
)

// Run statuses recorded on spans and the run counter.
const (
	StatusOK           = "ok"
	StatusFailed       = "failed"
	StatusInconsistent = "inconsistent"
)

// RunContext holds the telemetry state of one pipeline run.
type RunContext struct {
	RunID     string
	StartTime time.Time
	Metrics   *Metrics
}

// NewRunContext creates a run context. If metrics is nil, metric recording is
// silently skipped.
func NewRunContext(runID string, metrics *Metrics) *RunContext {
	return &RunContext{
		RunID:     runID,
		StartTime: time.Now(),
		Metrics:   metrics,
	}
}

type runContextKey struct{}

// WithRunContext stores a RunContext in the context.
func WithRunContext(ctx context.Context, rc *RunContext) context.Context {
	return context.WithValue(ctx, runContextKey{}, rc)
}

// RunContextFromContext retrieves the RunContext from context, or nil.
func RunContextFromContext(ctx context.Context) *RunContext {
	if rc, ok := ctx.Value(runContextKey{}).(*RunContext); ok {
		return rc
	}
	return nil
}

// StartSpan starts a span tagged with the run id.
func (rc *RunContext) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String(AttrRunID, rc.RunID))
	return StartSpan(ctx, name, trace.WithAttributes(attrs...))
}

// RecordError counts err against role. Errors that are not AppErrors count as
// INTERNAL_ERROR.
func (rc *RunContext) RecordError(ctx context.Context, err error, role string) {
	if rc.Metrics == nil || err == nil {
		return
	}
	code := errors.ErrCodeInternal
	if appErr, ok := errors.AsAppError(err); ok {
		code = appErr.Code
	}
	rc.Metrics.RecordError(ctx, string(code), role)
}

// End ends the run span and records the run metrics.
func (rc *RunContext) End(ctx context.Context, span trace.Span, status string, err error) {
	duration := time.Since(rc.StartTime)

	RecordSpanError(span, err)
	span.SetAttributes(attribute.String(AttrStatus, status))
	span.End()

	if rc.Metrics != nil {
		rc.Metrics.RecordRun(ctx, status, duration)
	}
}

// Duration returns the elapsed time since the run started.
func (rc *RunContext) Duration() time.Duration {
	return time.Since(rc.StartTime)
}
