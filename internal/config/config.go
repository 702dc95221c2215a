// Package config provides the configuration schema, loader, and
// validation for the text normalization engine.
package config

import (
	"log/slog"
	"time"

	"github.com/sicoreai/NeMo-text-processing/pkg/grammar"
)

// LogLevel controls log verbosity for the engine.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Level returns the slog level l names. Unset or unknown maps to info.
func (l LogLevel) Level() slog.Level {
	switch l {
	case LogDebug:
		return slog.LevelDebug
	case LogWarn:
		return slog.LevelWarn
	case LogError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// CacheBackend selects where compiled grammar archives are kept.
type CacheBackend string

const (
	// CacheNone disables archiving; every start assembles from scratch.
	CacheNone CacheBackend = "none"

	// CacheSQLite keeps archives in a local database file.
	CacheSQLite CacheBackend = "sqlite"

	// CachePostgres shares archives across hosts through PostgreSQL.
	CachePostgres CacheBackend = "postgres"
)

// IsValid reports whether b is a recognised cache backend.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheNone, CacheSQLite, CachePostgres:
		return true
	}
	return false
}

// Config is the root configuration for the engine.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	// LogLevel controls verbosity. Empty means info.
	LogLevel LogLevel `yaml:"log_level"`

	// DefaultLanguage is the language served when a request names none.
	// Empty means "en".
	DefaultLanguage string `yaml:"default_language"`

	Cache     CacheConfig      `yaml:"cache"`
	Build     BuildConfig      `yaml:"build"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`
	Languages []LanguageConfig `yaml:"languages"`
}

// TelemetryConfig configures the OpenTelemetry providers.
type TelemetryConfig struct {
	// Enabled turns on the metrics and tracing providers with the
	// Prometheus exporter bridge. Off, every instrument is a no-op.
	Enabled bool `yaml:"enabled"`

	// ServiceName overrides the service name reported in telemetry.
	// Empty means the engine default.
	ServiceName string `yaml:"service_name"`
}

// CacheConfig configures the compiled grammar archive store.
type CacheConfig struct {
	// Backend selects the archive store. Empty means none.
	Backend CacheBackend `yaml:"backend"`

	// DSN locates the store: a file path for sqlite, a connection string
	// for postgres. Ignored when the backend is none.
	DSN string `yaml:"dsn"`
}

// BuildConfig bounds grammar assembly.
type BuildConfig struct {
	// MaxStates caps the state count of each optimized sub-grammar.
	// 0 means unbounded.
	MaxStates int `yaml:"max_states"`

	// Timeout bounds one grammar assembly, in time.ParseDuration syntax
	// ("90s", "2m"). Empty means unbounded.
	Timeout string `yaml:"timeout"`
}

// Budget returns the assembly budget this section describes. [Validate]
// rejects unparseable timeouts, so on a validated config Budget is exact.
func (b BuildConfig) Budget() grammar.Budget {
	d, _ := time.ParseDuration(b.Timeout)
	return grammar.Budget{MaxStates: b.MaxStates, Timeout: d}
}

// LanguageConfig enables one language's grammars. An empty Languages list
// in [Config] enables every registered grammar source in both directions.
type LanguageConfig struct {
	// Tag is the language's BCP 47 tag ("en").
	Tag string `yaml:"tag"`

	// Directions lists the directions to build for this language.
	// Empty means both.
	Directions []grammar.Direction `yaml:"directions"`
}
