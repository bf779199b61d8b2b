// Package bootstrap runs a finite handoff process with a uniform lifecycle:
// validate config, initialize logging, start components, run one task, and
// shut everything down again.
//
// # Quick Start
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.RegisterComponent(telemetry)
//	return app.RunTask(ctx, runPipeline)
//
// SIGINT and SIGTERM cancel the task context. Components stop in reverse
// registration order once the task returns.
package bootstrap
