// Package logger provides structured logging for handoff using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers. Loggers pick up the run ID and the active
// OpenTelemetry span from a context via WithContext.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("handoff").WithComponent("producer")
//	log.Info("item produced", logger.Fields("index", 3, "buffered", 2))
package logger
