package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	validateRunner(cfg, ve)
	validateProbe(cfg, ve)
	validateStore(cfg, ve)
	validateUI(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true, "": true,
}

var validLogFormats = map[string]bool{"text": true, "json": true, "": true}

func validateLogger(cfg *Config, ve *ValidationError) {
	if !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	if !validLogFormats[strings.ToLower(cfg.Logger.Format)] {
		ve.Add("logger.format %q is not one of text, json", cfg.Logger.Format)
	}
	if cfg.Logger.MaxSizeMB < 0 {
		ve.Add("logger.max_size_mb must not be negative")
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !cfg.Tracer.Enabled {
		return
	}
	switch cfg.Tracer.Exporter {
	case "noop", "stdout", "":
	default:
		ve.Add("tracer.exporter %q is not supported (want noop or stdout)", cfg.Tracer.Exporter)
	}
}

func validateRunner(cfg *Config, ve *ValidationError) {
	if cfg.Runner.StopGrace <= 0 {
		ve.Add("runner.stop_grace must be > 0")
	}
	if cfg.Runner.EventBuffer < 0 {
		ve.Add("runner.event_buffer must be >= 0")
	}
	if cfg.Runner.MaxLineBytes < 0 {
		ve.Add("runner.max_line_bytes must be >= 0")
	}
}

func validateProbe(cfg *Config, ve *ValidationError) {
	if !cfg.Probe.Enabled {
		return
	}
	if cfg.Probe.Timeout <= 0 {
		ve.Add("probe.timeout must be > 0 when the probe is enabled")
	}
	if cfg.Probe.FailureThreshold <= 0 {
		ve.Add("probe.failure_threshold must be > 0 when the probe is enabled")
	}
	if cfg.Probe.OpenTimeout < 0 {
		ve.Add("probe.open_timeout must be >= 0")
	}
}

func validateStore(cfg *Config, ve *ValidationError) {
	switch cfg.Store.Driver {
	case "memory":
	case "sqlite", "":
		if cfg.Store.Path == "" {
			ve.Add("store.path must not be empty for the sqlite driver")
		}
	default:
		ve.Add("store.driver %q is not supported (want sqlite or memory)", cfg.Store.Driver)
	}
}

func validateUI(cfg *Config, ve *ValidationError) {
	if cfg.UI.MaxLogLines < 0 {
		ve.Add("ui.max_log_lines must be >= 0")
	}
	if cfg.UI.LogFlushPerSec < 0 {
		ve.Add("ui.log_flush_per_sec must be >= 0")
	}
	if cfg.UI.ProgressInterval <= 0 {
		ve.Add("ui.progress_interval must be > 0")
	}
	if cfg.UI.ProgressStep <= 0 {
		ve.Add("ui.progress_step must be > 0")
	}
	if cfg.UI.ProgressCap <= 0 || cfg.UI.ProgressCap > 100 {
		ve.Add("ui.progress_cap must be within 1..100")
	}
}
