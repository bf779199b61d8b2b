package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "handoff", buf)
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid json line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")
	lines := decodeLines(t, &buf)
	if len(lines) != 1 || lines[0]["message"] != "shown" {
		t.Errorf("expected invalid level to fall back to info, got %v", lines)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")
	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", len(lines))
	}
}

func TestJSONServiceField(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").Info("hello", Fields("items", 3))
	lines := decodeLines(t, &buf)
	if lines[0]["service"] != "handoff" {
		t.Errorf("expected service=handoff, got %v", lines[0]["service"])
	}
	if lines[0]["items"] != float64(3) {
		t.Errorf("expected items=3, got %v", lines[0]["items"])
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	cl := jsonLogger(&buf, "info").WithComponent("producer")
	if cl.service != "handoff" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
	cl.Info("x")
	if got := decodeLines(t, &buf)[0][FieldComponent]; got != "producer" {
		t.Errorf("expected component=producer, got %v", got)
	}
}

func TestWithContext_RunID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRunID(context.Background(), "run-1")
	jsonLogger(&buf, "info").WithContext(ctx).Info("x")
	if got := decodeLines(t, &buf)[0][FieldRunID]; got != "run-1" {
		t.Errorf("expected run_id=run-1, got %v", got)
	}
	if RunIDFromContext(ctx) != "run-1" {
		t.Errorf("expected RunIDFromContext to return run-1")
	}
}

func TestWithContext_Span(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer tp.Shutdown(context.Background())
	ctx, span := tp.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithContext(ctx).Info("x")
	line := decodeLines(t, &buf)[0]
	if line[FieldTraceID] != span.SpanContext().TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", span.SpanContext().TraceID(), line[FieldTraceID])
	}
	if line[FieldSpanID] != span.SpanContext().SpanID().String() {
		t.Errorf("expected span_id %s, got %v", span.SpanContext().SpanID(), line[FieldSpanID])
	}
}

func TestWithContext_Empty(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithContext(context.Background()).Info("x")
	line := decodeLines(t, &buf)[0]
	if _, ok := line[FieldTraceID]; ok {
		t.Error("expected no trace_id without a span")
	}
	if _, ok := line[FieldRunID]; ok {
		t.Error("expected no run_id without a run")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").
		WithFields(map[string]interface{}{"key": "value"}).
		WithError(errors.New("boom")).
		Error("failed")
	line := decodeLines(t, &buf)[0]
	if line["key"] != "value" {
		t.Errorf("expected key=value, got %v", line["key"])
	}
	if line["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", line["error"])
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.WithComponent("x").Error("nothing")
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "handoff", &buf)
	l.Info("hello")
	out := buf.String()
	if !strings.Contains(out, "[HAN][INF]") {
		t.Errorf("expected service and level tags, got %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestInitAndGlobal(t *testing.T) {
	Init(&Config{Level: "info", Format: "json", ServiceName: "svc"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}

	l := NewNop()
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
	// These should not panic
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
	_ = WithComponent("x")

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(f) != 2 {
		t.Fatalf("expected 2 fields, got %v", f)
	}
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestErrorFields(t *testing.T) {
	f := ErrorFields("run", errors.New("bad"))
	if f[FieldOperation] != "run" || f[FieldError] != "bad" {
		t.Errorf("unexpected fields %v", f)
	}
}

func TestDurationFields(t *testing.T) {
	f := DurationFields("run", 1500*time.Millisecond)
	if f[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", f[FieldDuration])
	}
}

func TestMergeWithError(t *testing.T) {
	f := MergeWithError(nil, errors.New("x"))
	if f[FieldError] != "x" {
		t.Errorf("expected error=x, got %v", f)
	}
	f2 := MergeWithError(map[string]interface{}{"k": 1}, errors.New("y"))
	if f2["k"] != 1 || f2[FieldError] != "y" {
		t.Errorf("expected merged map, got %v", f2)
	}
}
