package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	DataDir string       `yaml:"data_dir"`
	Profile string       `yaml:"profile"` // profile loaded by the TUI at startup; empty = blank form
	Logger  LoggerConfig `yaml:"logger"`
	Tracer  TracerConfig `yaml:"tracer"`
	Runner  RunnerConfig `yaml:"runner"`
	Probe   ProbeConfig  `yaml:"probe"`
	Store   StoreConfig  `yaml:"store"`
	UI      UIConfig     `yaml:"ui"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output    string `yaml:"output"`      // stdout, stderr, or a file path
	MaxSizeMB int    `yaml:"max_size_mb"` // a larger log file is rotated to <file>.1 on open; 0 = never
}

// TracerConfig holds tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // noop, stdout
	Output   string `yaml:"output"`   // file for the stdout exporter; empty = os.Stdout
}

// RunnerConfig holds child process settings.
type RunnerConfig struct {
	StopGrace    time.Duration `yaml:"stop_grace"`     // wait after terminate before killing
	EventBuffer  int           `yaml:"event_buffer"`   // run event channel capacity
	MaxLineBytes int           `yaml:"max_line_bytes"` // longest output line accepted
	WorkDir      string        `yaml:"work_dir"`       // child working directory; empty = current
}

// ProbeConfig holds tool detection settings.
type ProbeConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Timeout          time.Duration `yaml:"timeout"`           // per subprocess probe
	FailureThreshold int           `yaml:"failure_threshold"` // consecutive failures that open the breaker
	OpenTimeout      time.Duration `yaml:"open_timeout"`      // how long the breaker stays open
}

// StoreConfig selects the preference and run-history backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // sqlite, memory
	Path   string `yaml:"path"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	ASCIISymbols     bool          `yaml:"ascii_symbols"`
	MaxLogLines      int           `yaml:"max_log_lines"`
	LogFlushPerSec   float64       `yaml:"log_flush_per_sec"` // bridge flush rate
	LogFlushBurst    int           `yaml:"log_flush_burst"`
	ProgressInterval time.Duration `yaml:"progress_interval"`
	ProgressStep     int           `yaml:"progress_step"`
	ProgressCap      int           `yaml:"progress_cap"`
}

// defaultDataDir returns the persistent data directory under $HOME/.packdeck.
// Falls back to "./.packdeck" if $HOME cannot be determined.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./.packdeck"
	}
	return filepath.Join(home, ".packdeck")
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	dataDir := defaultDataDir()
	return &Config{
		DataDir: dataDir,
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output:    filepath.Join(dataDir, "packdeck.log"),
			MaxSizeMB: 10,
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
		Runner: RunnerConfig{
			StopGrace:    2 * time.Second,
			EventBuffer:  256,
			MaxLineBytes: 1024 * 1024,
		},
		Probe: ProbeConfig{
			Enabled:          true,
			Timeout:          2 * time.Second,
			FailureThreshold: 3,
			OpenTimeout:      30 * time.Second,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   filepath.Join(dataDir, "packdeck.db"),
		},
		UI: UIConfig{
			MaxLogLines:      5000,
			LogFlushPerSec:   20,
			LogFlushBurst:    1,
			ProgressInterval: time.Second,
			ProgressStep:     5,
			ProgressCap:      90,
		},
	}
}

// Load reads a YAML config file and applies env var overrides. A missing
// file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)
	cfg.expandPaths()

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating the parent directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides maps PACKDECK_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PACKDECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PACKDECK_PROFILE"); v != "" {
		cfg.Profile = v
	}
	if v := os.Getenv("PACKDECK_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("PACKDECK_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("PACKDECK_LOGGER_OUTPUT"); v != "" {
		cfg.Logger.Output = v
	}
	if v := os.Getenv("PACKDECK_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("PACKDECK_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
	if v := os.Getenv("PACKDECK_TRACER_OUTPUT"); v != "" {
		cfg.Tracer.Output = v
	}
	if v := os.Getenv("PACKDECK_RUNNER_STOP_GRACE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Runner.StopGrace = d
		}
	}
	if v := os.Getenv("PACKDECK_RUNNER_WORK_DIR"); v != "" {
		cfg.Runner.WorkDir = v
	}
	if v := os.Getenv("PACKDECK_PROBE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Probe.Timeout = d
		}
	}
	if v := os.Getenv("PACKDECK_PROBE_DISABLED"); v == "true" {
		cfg.Probe.Enabled = false
	}
	if v := os.Getenv("PACKDECK_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("PACKDECK_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("PACKDECK_ASCII_SYMBOLS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UI.ASCIISymbols = b
		}
	}
}

// ForTerminalUI moves log and trace output that would land on the
// terminal into files under the data directory. The TUI owns the screen
// while it runs.
func (c *Config) ForTerminalUI() {
	switch strings.ToLower(c.Logger.Output) {
	case "stdout", "stderr", "":
		c.Logger.Output = filepath.Join(c.DataDir, "packdeck.log")
	}
	if c.Tracer.Enabled && c.Tracer.Exporter == "stdout" && c.Tracer.Output == "" {
		c.Tracer.Output = filepath.Join(c.DataDir, "traces.json")
	}
}

// expandPaths resolves a leading "~/" in path fields.
func (c *Config) expandPaths() {
	c.DataDir = expandHome(c.DataDir)
	c.Profile = expandHome(c.Profile)
	c.Store.Path = expandHome(c.Store.Path)
	c.Tracer.Output = expandHome(c.Tracer.Output)
	switch strings.ToLower(c.Logger.Output) {
	case "stdout", "stderr", "":
	default:
		c.Logger.Output = expandHome(c.Logger.Output)
	}
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
