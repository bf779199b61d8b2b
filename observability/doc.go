// Package observability wires OpenTelemetry metrics and traces for pipeline
// runs.
//
// Telemetry is a lifecycle component. When enabled it installs OTLP/HTTP
// meter and tracer providers; otherwise instruments record into the global
// no-op providers.
//
//	tel := observability.NewTelemetry(cfg.Telemetry, observability.Resource{ServiceName: "handoff"})
//	if err := tel.Start(ctx); err != nil { ... }
//	defer tel.Stop(ctx)
//
// Metrics observes workers directly and records per-run totals:
//
//	rc := observability.NewRunContext(runID, tel.Metrics())
//	ctx, span := rc.StartSpan(ctx, observability.SpanPipelineRun)
//	defer rc.End(ctx, span, observability.StatusOK, nil)
package observability
