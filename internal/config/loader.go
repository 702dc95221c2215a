package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Load reads the YAML configuration file at path and returns a validated
// [Config]. It is a convenience wrapper around [LoadFromReader] and
// [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.DefaultLanguage != "" {
		if _, err := language.Parse(cfg.DefaultLanguage); err != nil {
			errs = append(errs, fmt.Errorf("default_language %q is not a valid BCP 47 tag: %w", cfg.DefaultLanguage, err))
		}
	}

	// Cache
	if cfg.Cache.Backend != "" && !cfg.Cache.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("cache.backend %q is invalid; valid values: none, sqlite, postgres", cfg.Cache.Backend))
	}
	if (cfg.Cache.Backend == CacheSQLite || cfg.Cache.Backend == CachePostgres) && cfg.Cache.DSN == "" {
		errs = append(errs, fmt.Errorf("cache.dsn is required when cache.backend is %s", cfg.Cache.Backend))
	}
	if (cfg.Cache.Backend == "" || cfg.Cache.Backend == CacheNone) && cfg.Cache.DSN != "" {
		slog.Warn("cache.dsn is set but cache.backend is none; archives are disabled")
	}

	// Build
	if cfg.Build.MaxStates < 0 {
		errs = append(errs, fmt.Errorf("build.max_states %d is negative", cfg.Build.MaxStates))
	}
	if cfg.Build.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Build.Timeout); err != nil {
			errs = append(errs, fmt.Errorf("build.timeout %q is not a duration: %w", cfg.Build.Timeout, err))
		} else if d < 0 {
			errs = append(errs, fmt.Errorf("build.timeout %q is negative", cfg.Build.Timeout))
		}
	}

	// Telemetry
	if !cfg.Telemetry.Enabled && cfg.Telemetry.ServiceName != "" {
		slog.Warn("telemetry.service_name is set but telemetry is disabled")
	}

	// Languages
	tagsSeen := make(map[string]int, len(cfg.Languages))
	for i, lang := range cfg.Languages {
		prefix := fmt.Sprintf("languages[%d]", i)
		if lang.Tag == "" {
			errs = append(errs, fmt.Errorf("%s.tag is required", prefix))
		} else {
			if _, err := language.Parse(lang.Tag); err != nil {
				errs = append(errs, fmt.Errorf("%s.tag %q is not a valid BCP 47 tag: %w", prefix, lang.Tag, err))
			}
			if prev, ok := tagsSeen[lang.Tag]; ok {
				errs = append(errs, fmt.Errorf("%s.tag %q is a duplicate of languages[%d]", prefix, lang.Tag, prev))
			}
			tagsSeen[lang.Tag] = i
		}
		for _, d := range lang.Directions {
			if !d.IsValid() {
				errs = append(errs, fmt.Errorf("%s.directions has invalid value %q; valid values: text_to_spoken, spoken_to_text", prefix, string(d)))
			}
		}
	}

	if cfg.DefaultLanguage != "" && len(cfg.Languages) > 0 {
		if _, ok := tagsSeen[cfg.DefaultLanguage]; !ok {
			slog.Warn("default_language is not among the configured languages",
				"default_language", cfg.DefaultLanguage)
		}
	}

	return errors.Join(errs...)
}
