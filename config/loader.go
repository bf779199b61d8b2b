package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/handoff/errors"
	"github.com/kbukum/handoff/logger"
)

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles finds config and env files for a service.
// Returns explicit paths if provided, otherwise searches for them.
func (r *Resolver) ResolveFiles(serviceName string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = r.findConfigFile(serviceName)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = r.findEnvFile(serviceName)
	}

	return resolved
}

// findConfigFile searches for config.yml in standard locations.
func (r *Resolver) findConfigFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		fmt.Sprintf("../cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"../config/config.yml",
		"./config.yml",
	}

	for _, path := range searchPaths {
		if r.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// findEnvFile searches for .env files in standard locations.
func (r *Resolver) findEnvFile(serviceName string) string {
	envFiles := []string{
		fmt.Sprintf(".env.%s", serviceName),
		".env",
	}
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s", serviceName),
		"./config",
		".",
	}

	for _, envFile := range envFiles {
		for _, basePath := range searchPaths {
			fullPath := basePath + "/" + envFile
			if r.FileSystem.Exists(fullPath) {
				return fullPath
			}
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Only variables starting with PREFIX_ are bound
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path. Unlike a searched file,
// an explicit file that is missing or unreadable is an error.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix binds only environment variables named PREFIX_<KEY>, with
// the prefix stripped. HANDOFF_PIPELINE_CAPACITY sets pipeline.capacity.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) }
}

// LoadConfig loads configuration for a service into cfg. It reads the YAML
// file, then the .env file, then the environment, each overriding the last.
// Fields of cfg that no source mentions keep their current values, so
// callers pre-populate defaults before loading.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	if lc.ConfigFile != "" && !lc.FileSystem.Exists(lc.ConfigFile) {
		return errors.InvalidConfig("config", fmt.Sprintf("config file %s does not exist", lc.ConfigFile))
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(serviceName, lc)

	return loadFromResolvedFiles(serviceName, cfg, files, lc)
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(serviceName string, cfg interface{}, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidConfig("config", fmt.Sprintf("read %s: %v", files.ConfigFile, err)).WithCause(err)
		}
		logger.Debug("Config file loaded", logger.Fields("path", files.ConfigFile))
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("Failed to load .env file", logger.MergeWithError(logger.Fields("path", files.EnvFile), err))
		}
	}

	autoBindEnvVars(v, lc.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig("config", fmt.Sprintf("unmarshal config for service %s: %v", serviceName, err)).WithCause(err)
	}
	return nil
}

// autoBindEnvVars binds environment variables to Viper by converting
// UPPER_CASE_WITH_UNDERSCORES to every nested key format it could denote.
func autoBindEnvVars(v *viper.Viper, prefix string) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			stripped, found := strings.CutPrefix(key, prefix+"_")
			if !found || stripped == "" {
				continue
			}
			key = stripped
		}

		for _, variant := range generateEnvKeyVariants(key) {
			v.Set(variant, value)
		}
	}
}

// maxVariantParts bounds the exhaustive expansion; longer keys only get the
// flat and fully dotted forms.
const maxVariantParts = 7

// generateEnvKeyVariants creates the key variants an environment variable may
// denote, joining each pair of adjacent words with either "." or "_".
//
//	PIPELINE_CAPACITY -> [pipeline_capacity, pipeline.capacity]
//	PIPELINE_PRODUCE_JITTER_MAX -> [..., pipeline.produce_jitter.max, ...]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}
	if len(parts) > maxVariantParts {
		return []string{lowerKey, strings.Join(parts, ".")}
	}

	gaps := len(parts) - 1
	variants := make([]string, 0, 1<<gaps)
	var b strings.Builder
	for mask := 0; mask < 1<<gaps; mask++ {
		b.Reset()
		b.WriteString(parts[0])
		for i := 1; i < len(parts); i++ {
			if mask&(1<<(i-1)) != 0 {
				b.WriteByte('.')
			} else {
				b.WriteByte('_')
			}
			b.WriteString(parts[i])
		}
		variants = append(variants, b.String())
	}
	return variants
}
