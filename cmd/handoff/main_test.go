package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/handoff/bootstrap"
	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
	"github.com/kbukum/handoff/observability"
	"github.com/kbukum/handoff/pipeline"
	"github.com/kbukum/handoff/version"
)

const quietConfig = `
name: handoff
logging:
  level: disabled
pipeline:
  capacity: 5
`

// executeCommand runs a fresh root command with args and returns captured output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := logger.GetGlobalLogger()
	t.Cleanup(func() { logger.SetGlobalLogger(prev) })

	root := newRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	root := newRootCmd()
	if root.Use != "handoff" {
		t.Errorf("root.Use = %q, want %q", root.Use, "handoff")
	}
	found := map[string]bool{}
	for _, c := range root.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"run", "version"} {
		if !found[name] {
			t.Errorf("expected subcommand %q", name)
		}
	}
}

func TestRunCommand(t *testing.T) {
	cfg := writeConfig(t, quietConfig)
	out, err := executeCommand(t, "run", "--config", cfg, "--items", "5", "--capacity", "2")
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, out)
	}

	for _, want := range []string{
		"Source Data: [Item-1 Item-2 Item-3 Item-4 Item-5]",
		"Destination Data: [Item-1 Item-2 Item-3 Item-4 Item-5]",
		"Items Produced: 5",
		"Items Consumed: 5",
		"Channel Capacity: 2",
		"Data Integrity: PASS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRunCommandDefaults(t *testing.T) {
	cfg := writeConfig(t, quietConfig)
	out, err := executeCommand(t, "run", "--config", cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "Item-20]") || !strings.Contains(out, "Items Consumed: 20") {
		t.Errorf("expected 20 default items, got:\n%s", out)
	}
	if !strings.Contains(out, "Channel Capacity: 5") {
		t.Errorf("expected default capacity 5, got:\n%s", out)
	}
}

func TestRunCommandEmptySource(t *testing.T) {
	cfg := writeConfig(t, quietConfig)
	out, err := executeCommand(t, "run", "--config", cfg, "--items", "0")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "Destination Data: []") || !strings.Contains(out, "Data Integrity: PASS") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunCommandEnvOverride(t *testing.T) {
	t.Setenv("HANDOFF_PIPELINE_CAPACITY", "3")
	t.Setenv("HANDOFF_RUN_ID", "6f1d3c1e-8d2a-4b7e-9a55-0c2f4e3b1a90")

	cfg := writeConfig(t, quietConfig)
	out, err := executeCommand(t, "run", "--config", cfg, "--items", "4")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "Channel Capacity: 3") {
		t.Errorf("expected env capacity, got:\n%s", out)
	}
	if !strings.Contains(out, "Run ID: 6f1d3c1e-8d2a-4b7e-9a55-0c2f4e3b1a90") {
		t.Errorf("expected env run id, got:\n%s", out)
	}
}

func TestRunCommandFlagBeatsEnv(t *testing.T) {
	t.Setenv("HANDOFF_PIPELINE_CAPACITY", "3")

	cfg := writeConfig(t, quietConfig)
	out, err := executeCommand(t, "run", "--config", cfg, "--items", "2", "--capacity", "1")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "Channel Capacity: 1") {
		t.Errorf("expected flag capacity, got:\n%s", out)
	}
}

func TestRunCommandJitter(t *testing.T) {
	cfg := writeConfig(t, quietConfig)
	out, err := executeCommand(t, "run", "--config", cfg, "--items", "3", "--jitter")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "Data Integrity: PASS") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestRunCommandErrors(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		args     []string
		exitCode int
	}{
		{"zero capacity", quietConfig, []string{"--capacity", "0"}, errors.ExitConfig},
		{"negative shutdown timeout", quietConfig + "shutdown_timeout: -1s\n", nil, errors.ExitConfig},
		{"capacity too large", quietConfig, []string{"--capacity", "1000000000000"}, errors.ExitConfig},
		{"negative items", quietConfig, []string{"--items", "-1"}, errors.ExitConfig},
		{"bad log level", quietConfig, []string{"--log-level", "loud"}, errors.ExitConfig},
		{"bad run id", quietConfig + "run_id: not-a-uuid\n", nil, errors.ExitConfig},
		{"inverted jitter", quietConfig + "  produce_jitter:\n    min: 20ms\n    max: 10ms\n", nil, errors.ExitConfig},
		{"sample rate out of range", quietConfig + "telemetry:\n  sample_rate: 2\n", nil, errors.ExitConfig},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"run", "--config", writeConfig(t, tc.config)}, tc.args...)
			_, err := executeCommand(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.ExitCode(err); got != tc.exitCode {
				t.Errorf("ExitCode = %d, want %d (err: %v)", got, tc.exitCode, err)
			}
		})
	}
}

func TestRunCommandMissingConfigFile(t *testing.T) {
	_, err := executeCommand(t, "run", "--config", filepath.Join(t.TempDir(), "absent.yml"))
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestRunCommandRejectsArgs(t *testing.T) {
	if _, err := executeCommand(t, "run", "extra"); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestLoadRunConfig(t *testing.T) {
	path := writeConfig(t, quietConfig+"items: 7\n")
	cmd := newRunCmd()
	if err := cmd.ParseFlags([]string{"--capacity", "9", "--log-level", "warn"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadRunConfig(cmd, runFlags{configFile: path, items: defaultItems, capacity: 9, logLevel: "warn"})
	if err != nil {
		t.Fatalf("loadRunConfig failed: %v", err)
	}
	if cfg.Items != 7 {
		t.Errorf("expected items from file, got %d", cfg.Items)
	}
	if cfg.Pipeline.Capacity != 9 {
		t.Errorf("expected capacity from flag, got %d", cfg.Pipeline.Capacity)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level from flag, got %q", cfg.Logging.Level)
	}
	if cfg.Pipeline.ProduceJitter.Enabled() {
		t.Error("expected jitter off without --jitter")
	}
}

func TestAppConfigDefaults(t *testing.T) {
	cfg := defaultConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Version != version.Get().Short() {
		t.Errorf("expected build version, got %q", cfg.Version)
	}
	if cfg.Telemetry.Enabled {
		t.Error("expected telemetry export off by default")
	}
	res := cfg.resource()
	if res.ServiceName != "handoff" || res.Environment != "development" {
		t.Errorf("unexpected resource: %+v", res)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "handoff "+version.Get().Short()) {
		t.Errorf("unexpected version output: %q", out)
	}

	out, err = executeCommand(t, "version", "--json")
	if err != nil {
		t.Fatalf("version --json failed: %v", err)
	}
	var info version.Info
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if info.Version != version.Version {
		t.Errorf("expected version %q, got %q", version.Version, info.Version)
	}
}

// findLog returns the first JSON log line with the given message.
func findLog(t *testing.T, logs io.Reader, msg string) map[string]any {
	t.Helper()
	sc := bufio.NewScanner(logs)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			continue
		}
		if entry["message"] == msg {
			return entry
		}
	}
	return nil
}

func testAppConfig(t *testing.T) *AppConfig {
	t.Helper()
	cfg := defaultConfig()
	cfg.Items = 3
	cfg.RunID = "6f1d3c1e-8d2a-4b7e-9a55-0c2f4e3b1a90"
	cfg.ShutdownTimeout = 2 * time.Second
	return cfg
}

func TestRunPipelineLogsSummaryOnStop(t *testing.T) {
	cfg := testAppConfig(t)
	var logs bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, serviceName, &logs)

	var out bytes.Buffer
	if err := runPipeline(context.Background(), cfg, &out, bootstrap.WithLogger(log)); err != nil {
		t.Fatalf("runPipeline failed: %v", err)
	}

	entry := findLog(t, &logs, "Run finished")
	if entry == nil {
		t.Fatalf("expected a run summary log, got:\n%s", logs.String())
	}
	if entry[logger.FieldRunID] != cfg.RunID {
		t.Errorf("run_id = %v, want %s", entry[logger.FieldRunID], cfg.RunID)
	}
	if entry[logger.FieldStatus] != observability.StatusOK {
		t.Errorf("status = %v, want %s", entry[logger.FieldStatus], observability.StatusOK)
	}
	if _, ok := entry["error_code"]; ok {
		t.Errorf("unexpected error_code on a clean run: %v", entry)
	}
}

func TestRunPipelineSkipsSummaryWithoutRun(t *testing.T) {
	cfg := testAppConfig(t)
	cfg.RunID = ""
	cfg.Pipeline = pipeline.Config{Capacity: 0}

	var logs bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, serviceName, &logs)
	// NewApp validates the config, so nothing runs and nothing is summarized.
	err := runPipeline(context.Background(), cfg, io.Discard, bootstrap.WithLogger(log))
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
	if entry := findLog(t, &logs, "Run finished"); entry != nil {
		t.Errorf("unexpected summary for a rejected config: %v", entry)
	}
}

func TestRunStatus(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, observability.StatusOK},
		{errors.Consistency("mismatch"), observability.StatusInconsistent},
		{errors.WorkerFailed("consumer", errors.Internal(nil)), observability.StatusFailed},
		{io.EOF, observability.StatusFailed},
	}
	for _, tc := range tests {
		if got := runStatus(tc.err); got != tc.want {
			t.Errorf("runStatus(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestRunSummaryFields(t *testing.T) {
	f := runSummary{runID: "r1", status: observability.StatusFailed, err: errors.WorkerFailed("producer", io.EOF)}.fields()
	if f["error_code"] != string(errors.ErrCodeWorkerFailed) {
		t.Errorf("error_code = %v, want %s", f["error_code"], errors.ErrCodeWorkerFailed)
	}
	if f = (runSummary{runID: "r2", status: observability.StatusOK}).fields(); f["error_code"] != nil {
		t.Errorf("unexpected error_code %v", f["error_code"])
	}
}
