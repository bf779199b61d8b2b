package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/handoff/logger"
)

// InstrumentationName is the meter and tracer name used by handoff.
const InstrumentationName = "github.com/kbukum/handoff"

// Metric names.
const (
	MetricItemsProduced   = "handoff.items.produced"
	MetricItemsConsumed   = "handoff.items.consumed"
	MetricBufferOccupancy = "handoff.buffer.occupancy"
	MetricRunDuration     = "handoff.run.duration"
	MetricRunTotal        = "handoff.run.total"
	MetricErrorTotal      = "handoff.errors.total"
)

// InitMeter initializes the OpenTelemetry meter provider with an OTLP/HTTP
// exporter and installs it globally. The caller must shut it down.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.Resource)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("Meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns the handoff meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Metrics holds the pipeline instruments. Its ItemProduced and ItemConsumed
// methods let it observe workers directly.
type Metrics struct {
	itemsProduced   metric.Int64Counter
	itemsConsumed   metric.Int64Counter
	bufferOccupancy metric.Int64Histogram
	runDuration     metric.Float64Histogram
	runTotal        metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	itemsProduced, err := meter.Int64Counter(MetricItemsProduced,
		metric.WithDescription("Items put on the channel by the producer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsProduced, err)
	}

	itemsConsumed, err := meter.Int64Counter(MetricItemsConsumed,
		metric.WithDescription("Items stored by the consumer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsConsumed, err)
	}

	bufferOccupancy, err := meter.Int64Histogram(MetricBufferOccupancy,
		metric.WithDescription("Buffered messages observed after each put"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 4, 8, 16, 32, 64, 128),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricBufferOccupancy, err)
	}

	runDuration, err := meter.Float64Histogram(MetricRunDuration,
		metric.WithDescription("Duration of pipeline runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricRunDuration, err)
	}

	runTotal, err := meter.Int64Counter(MetricRunTotal,
		metric.WithDescription("Pipeline runs by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricRunTotal, err)
	}

	errorTotal, err := meter.Int64Counter(MetricErrorTotal,
		metric.WithDescription("Run errors by code and role"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricErrorTotal, err)
	}

	return &Metrics{
		itemsProduced:   itemsProduced,
		itemsConsumed:   itemsConsumed,
		bufferOccupancy: bufferOccupancy,
		runDuration:     runDuration,
		runTotal:        runTotal,
		errorTotal:      errorTotal,
	}, nil
}

// ItemProduced counts one produced item and samples the buffer occupancy.
func (m *Metrics) ItemProduced(ctx context.Context, buffered int) {
	m.itemsProduced.Add(ctx, 1)
	m.bufferOccupancy.Record(ctx, int64(buffered))
}

// ItemConsumed counts one consumed item.
func (m *Metrics) ItemConsumed(ctx context.Context) {
	m.itemsConsumed.Add(ctx, 1)
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrStatus, status)))
	m.runDuration.Record(ctx, duration.Seconds())
}

// RecordError records a run error by code and the role that raised it.
func (m *Metrics) RecordError(ctx context.Context, code, role string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrErrorCode, code),
		attribute.String(AttrRole, role),
	))
}
