package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kbukum/handoff/bootstrap"
	"github.com/kbukum/handoff/config"
	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
	"github.com/kbukum/handoff/observability"
	"github.com/kbukum/handoff/pipeline"
	"github.com/kbukum/handoff/source"
	"github.com/kbukum/handoff/validation"
	"github.com/kbukum/handoff/version"
)

// runFlags holds the command line overrides of run. A flag only overrides
// the loaded config when it was set explicitly.
type runFlags struct {
	configFile string
	items      int
	capacity   int
	jitter     bool
	logLevel   string
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline over Item-1 .. Item-N",
		Long: `Run generates the source items, hands them from the producer to the
consumer, and prints the source, the destination and the run statistics.

Configuration is read from config.yml, .env and HANDOFF_* environment
variables, e.g. HANDOFF_PIPELINE_CAPACITY=3. Flags override all of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadRunConfig(cmd, f)
			if err != nil {
				return err
			}
			return runPipeline(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configFile, "config", "c", "", "config file (default: searched config.yml)")
	flags.IntVarP(&f.items, "items", "n", defaultItems, "number of source items")
	flags.IntVar(&f.capacity, "capacity", pipeline.DefaultCapacity, "channel capacity")
	flags.BoolVar(&f.jitter, "jitter", false, "simulate per-item processing time")
	flags.StringVar(&f.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, disabled)")
	return cmd
}

// loadRunConfig reads the config sources and applies explicit flags on top.
func loadRunConfig(cmd *cobra.Command, f runFlags) (*AppConfig, error) {
	cfg := defaultConfig()
	opts := []config.LoaderOption{config.WithEnvPrefix(serviceName)}
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("items") {
		cfg.Items = f.items
	}
	if flags.Changed("capacity") {
		cfg.Pipeline.Capacity = f.capacity
	}
	if f.jitter {
		cfg.Pipeline.ProduceJitter, cfg.Pipeline.ConsumeJitter = pipeline.DemoJitter()
	}
	if f.logLevel != "" {
		cfg.Logging.Level = f.logLevel
	}
	return cfg, nil
}

// runSummary is what the stop hook reports about the finished run.
type runSummary struct {
	runID  string
	status string
	err    error
}

func (s runSummary) fields() map[string]interface{} {
	fields := logger.Fields(
		logger.FieldRunID, s.runID,
		logger.FieldStatus, s.status,
	)
	if s.err != nil {
		fields["error_code"] = string(errorCode(s.err))
	}
	return fields
}

// runStatus maps a run error onto the status recorded in run metrics.
func runStatus(err error) string {
	switch {
	case err == nil:
		return observability.StatusOK
	case errors.IsCode(err, errors.ErrCodeConsistency):
		return observability.StatusInconsistent
	default:
		return observability.StatusFailed
	}
}

func errorCode(err error) errors.ErrorCode {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr.Code
	}
	return errors.ErrCodeInternal
}

// runPipeline runs one pipeline inside the application lifecycle and writes
// the demo output to out. opts are applied after the config-derived options.
func runPipeline(ctx context.Context, cfg *AppConfig, out io.Writer, opts ...bootstrap.Option) error {
	tel := observability.NewTelemetry(cfg.Telemetry, cfg.resource())
	app, err := bootstrap.NewApp(cfg, append([]bootstrap.Option{
		bootstrap.WithComponents(tel),
		bootstrap.WithGracefulTimeout(cfg.ShutdownTimeout),
	}, opts...)...)
	if err != nil {
		return err
	}
	app.Logger.Debug("Build info", version.Get().Fields())

	var metrics *observability.Metrics
	app.OnConfigure(func(context.Context, *bootstrap.App[*AppConfig]) error {
		if metrics = tel.Metrics(); metrics == nil {
			return errors.Internal(fmt.Errorf("telemetry started without metrics"))
		}
		return nil
	})

	var summary runSummary
	app.OnStop(func(context.Context) error {
		if summary.runID == "" {
			return nil
		}
		app.Logger.Info("Run finished", summary.fields())
		return nil
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		items, err := source.Collect(ctx, source.Sequence(cfg.Items, func(i int) string {
			return fmt.Sprintf("Item-%d", i+1)
		}))
		if err != nil {
			return err
		}

		runOpts := []pipeline.Option{
			pipeline.WithLogger(app.Logger),
			pipeline.WithMetrics(metrics),
		}
		runID, err := validation.ParseUUID("run_id", cfg.RunID)
		if err != nil {
			return err
		}
		if cfg.RunID != "" {
			runOpts = append(runOpts, pipeline.WithRunID(runID))
		}

		fmt.Fprintln(out, "Source Data:", items)
		res, runErr := pipeline.Run(ctx, items, cfg.Pipeline, runOpts...)
		if res != nil {
			summary = runSummary{runID: res.RunID.String(), status: runStatus(runErr), err: runErr}
			fmt.Fprintln(out, "Destination Data:", res.Destination)
			fmt.Fprintln(out)
			fmt.Fprint(out, res.Report())
		}
		if runErr != nil {
			app.Logger.Error("Run failed", logger.MergeWithError(nil, runErr))
		}
		return runErr
	})
}
