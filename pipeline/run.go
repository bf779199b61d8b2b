package pipeline

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/handoff/channel"
	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
	"github.com/kbukum/handoff/observability"
	"github.com/kbukum/handoff/source"
	"github.com/kbukum/handoff/worker"
)

// Run hands every item of src from a producer to a consumer through a
// channel of cfg.Capacity and verifies the copy with ==.
//
// src is read and never written. The returned Result is non-nil whenever the
// workers were started, including when the run fails.
func Run[T comparable](ctx context.Context, src []T, cfg Config, opts ...Option) (*Result[T], error) {
	return RunFunc(ctx, src, cfg, func(a, b T) bool { return a == b }, opts...)
}

// RunFunc is Run for item types that need a custom equality.
func RunFunc[T any](ctx context.Context, src []T, cfg Config, equal func(a, b T) bool, opts ...Option) (*Result[T], error) {
	if equal == nil {
		return nil, errors.MissingField("equal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := resolveOptions(opts)
	producerHook, err := hookFor[T](o.producerHook, "producer_hook")
	if err != nil {
		return nil, err
	}
	consumerHook, err := hookFor[T](o.consumerHook, "consumer_hook")
	if err != nil {
		return nil, err
	}

	ch, err := channel.New[T](cfg.Capacity)
	if err != nil {
		return nil, err
	}

	runID := o.runID.String()
	ctx = logger.ContextWithRunID(ctx, runID)
	rc := observability.NewRunContext(runID, o.metrics)
	ctx, span := rc.StartSpan(ctx, observability.SpanPipelineRun,
		attribute.Int(observability.AttrCapacity, cfg.Capacity),
		attribute.Int(observability.AttrSourceLen, len(src)),
	)

	log := o.log.WithComponent("pipeline").WithContext(ctx)
	log.Info("Pipeline started", logger.Fields(
		logger.FieldCapacity, cfg.Capacity,
		"source_len", len(src),
	))

	base := []worker.Option{worker.WithLogger(o.log)}
	if o.metrics != nil {
		base = append(base, worker.WithObserver(o.metrics))
	}
	producer := worker.NewProducer(source.FromSlice(src), ch, producerHook,
		append(slices.Clone(base), worker.WithJitter(cfg.ProduceJitter))...)
	consumer := worker.NewConsumer(ch, consumerHook,
		append(slices.Clone(base), worker.WithJitter(cfg.ConsumeJitter), worker.WithSizeHint(len(src)))...)

	var producerErr, consumerErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumerErr = runWorker(gctx, rc, ch, worker.RoleConsumer, observability.SpanConsumer, consumer.Run)
		return consumerErr
	})
	g.Go(func() error {
		producerErr = runWorker(gctx, rc, ch, worker.RoleProducer, observability.SpanProducer, producer.Run)
		return producerErr
	})
	_ = g.Wait()

	stats := ch.Stats()
	res := &Result[T]{
		RunID:        o.runID,
		Destination:  consumer.Destination(),
		Produced:     stats.Produced,
		Consumed:     stats.Consumed,
		SourceLen:    len(src),
		Capacity:     cfg.Capacity,
		PeakBuffered: stats.Peak,
	}
	span.SetAttributes(
		attribute.Int(observability.AttrProduced, stats.Produced),
		attribute.Int(observability.AttrConsumed, stats.Consumed),
		attribute.Int(observability.AttrPeakBuffered, stats.Peak),
	)

	if role, cause := rootCause(ch, producerErr, consumerErr); cause != nil {
		res.Duration = rc.Duration()
		runErr := errors.WorkerFailed(string(role), cause)
		rc.RecordError(ctx, cause, string(role))
		rc.End(ctx, span, observability.StatusFailed, runErr)
		log.Error("Pipeline failed", logger.MergeWithError(logger.Fields(
			logger.FieldRole, role,
			"produced", stats.Produced,
			"consumed", stats.Consumed,
		), cause))
		return res, runErr
	}

	if err := ch.WaitDrained(); err != nil {
		res.Duration = rc.Duration()
		runErr := errors.Internal(err)
		rc.End(ctx, span, observability.StatusFailed, runErr)
		return res, runErr
	}
	res.Duration = rc.Duration()

	if err := verify(src, res.Destination, ch.Stats(), equal); err != nil {
		rc.RecordError(ctx, err, "pipeline")
		rc.End(ctx, span, observability.StatusInconsistent, err)
		log.Error("Consistency check failed", logger.MergeWithError(nil, err))
		return res, err
	}

	res.Integrity = true
	rc.End(ctx, span, observability.StatusOK, nil)
	log.Info("Pipeline complete", logger.Fields(
		"produced", res.Produced,
		"consumed", res.Consumed,
		"peak_buffered", res.PeakBuffered,
		logger.FieldDuration, res.Duration.String(),
	))
	return res, nil
}

// runWorker runs one role inside its own span. A worker that fails or panics
// aborts the channel so a peer blocked in Put or Get is released.
func runWorker(
	ctx context.Context,
	rc *observability.RunContext,
	abort interface{ Abort(error) },
	role worker.Role,
	spanName string,
	run func(context.Context) error,
) (err error) {
	ctx, span := rc.StartSpan(ctx, spanName, attribute.String(observability.AttrRole, string(role)))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err = errors.Internal(fmt.Errorf("%s panicked: %v", role, r))
		}
		if err != nil {
			abort.Abort(fmt.Errorf("%s: %w", role, err))
			observability.RecordSpanError(span, err)
		}
	}()

	return run(ctx)
}

// rootCause picks the worker whose failure triggered the abort. The peer of a
// failed worker returns a CHANNEL_ABORTED error that only echoes the cause.
func rootCause(ch interface{ Err() error }, producerErr, consumerErr error) (worker.Role, error) {
	if producerErr == nil && consumerErr == nil {
		return "", nil
	}
	switch {
	case producerErr != nil && !errors.IsCode(producerErr, errors.ErrCodeAborted):
		return worker.RoleProducer, producerErr
	case consumerErr != nil && !errors.IsCode(consumerErr, errors.ErrCodeAborted):
		return worker.RoleConsumer, consumerErr
	}
	// Both errors are aborts; report the recorded cause.
	if producerErr != nil {
		return worker.RoleProducer, ch.Err()
	}
	return worker.RoleConsumer, ch.Err()
}

// verify checks the counters and that dest is an exact ordered copy of src.
// Mismatches are reported, never corrected.
func verify[T any](src, dest []T, stats channel.Stats, equal func(a, b T) bool) error {
	details := map[string]any{
		"produced":        stats.Produced,
		"consumed":        stats.Consumed,
		"source_len":      len(src),
		"destination_len": len(dest),
	}

	switch {
	case stats.Produced != len(src):
		return errors.Consistency("produced count does not match the source length").WithDetails(details)
	case stats.Consumed != stats.Produced:
		return errors.Consistency("consumed count does not match the produced count").WithDetails(details)
	case len(dest) != len(src):
		return errors.Consistency("destination length does not match the source length").WithDetails(details)
	case stats.SentinelsPut != 1 || stats.SentinelsGot != 1:
		return errors.Consistency("end-of-stream sentinel was not handed off exactly once").WithDetails(details)
	case stats.Outstanding != 0:
		return errors.Consistency("channel still has unacknowledged work").
			WithDetails(details).WithDetail("outstanding", stats.Outstanding)
	}

	for i := range src {
		if !equal(src[i], dest[i]) {
			return errors.Consistency(fmt.Sprintf("item %d differs between source and destination", i)).
				WithDetails(details).WithDetail("index", i)
		}
	}
	return nil
}
