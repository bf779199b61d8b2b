package observability

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/handoff/component"
	"github.com/kbukum/handoff/logger"
)

// Telemetry owns the meter and tracer providers for the process lifetime and
// exposes the pipeline instruments.
type Telemetry struct {
	cfg Config
	res Resource

	mu      sync.RWMutex
	mp      *sdkmetric.MeterProvider
	tp      *sdktrace.TracerProvider
	metrics *Metrics
	started bool
}

var (
	_ component.Component   = (*Telemetry)(nil)
	_ component.Describable = (*Telemetry)(nil)
)

// NewTelemetry creates the telemetry component. Nothing is exported until
// Start runs.
func NewTelemetry(cfg Config, res Resource) *Telemetry {
	cfg.ApplyDefaults()
	return &Telemetry{cfg: cfg, res: res}
}

// Name implements component.Component.
func (t *Telemetry) Name() string { return "telemetry" }

// Start installs the exporting providers when enabled and creates the
// instruments on the global meter.
func (t *Telemetry) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		return nil
	}

	if t.cfg.Enabled {
		mp, err := InitMeter(ctx, t.cfg.MeterConfig(t.res))
		if err != nil {
			return err
		}
		tp, err := InitTracer(ctx, t.cfg.TracerConfig(t.res))
		if err != nil {
			_ = mp.Shutdown(ctx)
			return err
		}
		t.mp, t.tp = mp, tp
	} else {
		logger.Debug("Telemetry export disabled")
	}

	metrics, err := NewMetrics(Meter())
	if err != nil {
		return err
	}
	t.metrics = metrics
	t.started = true
	return nil
}

// Stop flushes and shuts down the providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		return nil
	}
	t.started = false

	var errs []error
	if t.tp != nil {
		if err := t.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if t.mp != nil {
		if err := t.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	t.tp, t.mp = nil, nil
	return stderrors.Join(errs...)
}

// Health implements component.Component.
func (t *Telemetry) Health(_ context.Context) component.Health {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h := component.Health{Name: t.Name(), Status: component.StatusHealthy}
	switch {
	case !t.started:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !t.cfg.Enabled:
		h.Status = component.StatusDegraded
		h.Message = "export disabled"
	}
	return h
}

// Describe implements component.Describable.
func (t *Telemetry) Describe() component.Description {
	details := "export disabled"
	if t.cfg.Enabled {
		details = fmt.Sprintf("otlp http %s sample=%.2f", t.cfg.Endpoint, t.cfg.SampleRate)
	}
	return component.Description{Name: "OpenTelemetry", Type: "telemetry", Details: details}
}

// Metrics returns the pipeline instruments, or nil before Start.
func (t *Telemetry) Metrics() *Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.metrics
}
