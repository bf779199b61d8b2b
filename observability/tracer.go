package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/handoff/logger"
)

// InitTracer initializes the OpenTelemetry tracer provider with an OTLP/HTTP
// exporter and installs it globally. The caller must shut it down.
func InitTracer(ctx context.Context, config TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(config.Resource)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(config.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Info("Tracer initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"sample_rate", config.SampleRate,
	))
	return tp, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// newResource merges the SDK defaults with the service identity.
func newResource(r Resource) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{attribute.String(AttrServiceName, r.ServiceName)}
	if r.ServiceVersion != "" {
		attrs = append(attrs, attribute.String(AttrServiceVersion, r.ServiceVersion))
	}
	if r.Environment != "" {
		attrs = append(attrs, attribute.String(AttrEnvironment, r.Environment))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// Tracer returns the handoff tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// StartSpan starts a new span using the handoff tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// SpanFromContext returns the span from context.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// SetSpanAttribute sets an attribute on the current span in context.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	switch v := value.(type) {
	case string:
		span.SetAttributes(attribute.String(key, v))
	case int:
		span.SetAttributes(attribute.Int(key, v))
	case int64:
		span.SetAttributes(attribute.Int64(key, v))
	case float64:
		span.SetAttributes(attribute.Float64(key, v))
	case bool:
		span.SetAttributes(attribute.Bool(key, v))
	}
}

// SetSpanError records err on the span in context and marks it failed.
func SetSpanError(ctx context.Context, err error) {
	RecordSpanError(SpanFromContext(ctx), err)
}

// RecordSpanError records err on span and marks it failed. A nil err is a no-op.
func RecordSpanError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Span names.
const (
	SpanPipelineRun = "pipeline.run"
	SpanProducer    = "worker.producer"
	SpanConsumer    = "worker.consumer"
)

// Attribute keys.
const (
	AttrServiceName    = "service.name"
	AttrServiceVersion = "service.version"
	AttrEnvironment    = "deployment.environment"
	AttrRunID          = "handoff.run_id"
	AttrCapacity       = "handoff.capacity"
	AttrSourceLen      = "handoff.source_len"
	AttrProduced       = "handoff.produced"
	AttrConsumed       = "handoff.consumed"
	AttrPeakBuffered   = "handoff.peak_buffered"
	AttrRole           = "handoff.role"
	AttrStatus         = "status"
	AttrErrorCode      = "error.code"
)
