// Package config loads configuration for handoff binaries.
//
// It uses Viper to read a YAML file, overlays a .env file through godotenv,
// and then the process environment. Variables are bound by name with an
// optional prefix, so HANDOFF_PIPELINE_CAPACITY overrides pipeline.capacity.
//
// # Usage
//
//	cfg := AppConfig{Pipeline: pipeline.DefaultConfig()}
//	err := config.LoadConfig("handoff", &cfg, config.WithEnvPrefix("HANDOFF"))
package config
