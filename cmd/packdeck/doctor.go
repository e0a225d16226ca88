package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"packdeck/internal/adapter/store"
	"packdeck/internal/domain"
	"packdeck/internal/infra/config"
	"packdeck/internal/infra/logger"
	"packdeck/internal/usecase/probe"
	"packdeck/internal/usecase/workbench"
)

// CheckStatus represents the result of a health check.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusWarn CheckStatus = "WARN"
	StatusFail CheckStatus = "FAIL"
)

// CheckResult holds the outcome of a single health check.
type CheckResult struct {
	Name    string
	Status  CheckStatus
	Message string
	Fix     string // optional fix suggestion
}

// Check is a named health check function.
type Check struct {
	Name string
	Fn   func(cfg *config.Config) CheckResult
}

// runDoctor executes all health checks and reports results.
func runDoctor(args []string) error {
	cfgPath := configPath(args)

	// Try to load config; some checks work without it.
	cfg, cfgErr := config.Load(cfgPath)

	python, _ := flagValue(args, "--python")
	if python == "" && cfg != nil {
		if opts, err := loadOptions(profilePath(args, cfg), false); err == nil {
			python = opts.Interpreter
		}
	}

	checks := []Check{
		{Name: "Config file", Fn: checkConfigFile(cfgPath, cfgErr)},
		{Name: "Data directory", Fn: checkDataDir},
		{Name: "Log output", Fn: checkLogOutput},
		{Name: "Store", Fn: checkStore},
		{Name: "Python interpreter", Fn: checkInterpreter(python)},
		{Name: "Nuitka", Fn: checkNuitka(python, newProber)},
	}
	return report(os.Stdout, checks, cfg)
}

// report runs checks and prints their results to w. It fails when any
// check fails.
func report(w io.Writer, checks []Check, cfg *config.Config) error {
	fmt.Fprintln(w, "packdeck doctor")
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintln(w)

	var pass, warn, fail int
	for _, check := range checks {
		result := check.Fn(cfg)
		result.Name = check.Name

		fmt.Fprintf(w, "  %s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
		if result.Fix != "" {
			fmt.Fprintf(w, "      Fix: %s\n", result.Fix)
		}

		switch result.Status {
		case StatusPass:
			pass++
		case StatusWarn:
			warn++
		case StatusFail:
			fail++
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "Results: %d passed, %d warnings, %d failed\n", pass, warn, fail)

	if fail > 0 {
		fmt.Fprintln(w, "\nFix the FAIL issues above before packaging.")
		return fmt.Errorf("%d check(s) failed", fail)
	}
	if warn > 0 {
		fmt.Fprintln(w, "\npackdeck should work, but consider addressing the warnings.")
	} else {
		fmt.Fprintln(w, "\nAll checks passed! packdeck is ready to package.")
	}
	return nil
}

func statusIcon(s CheckStatus) string {
	switch s {
	case StatusPass:
		return "[PASS]"
	case StatusWarn:
		return "[WARN]"
	case StatusFail:
		return "[FAIL]"
	default:
		return "[????]"
	}
}

// checkConfigFile returns a check that verifies the config file parses.
// A missing file is fine: the defaults apply.
func checkConfigFile(cfgPath string, cfgErr error) func(*config.Config) CheckResult {
	return func(_ *config.Config) CheckResult {
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusWarn,
				Message: fmt.Sprintf("no config file at %s, using defaults", cfgPath),
				Fix:     "Create packdeck.yaml to change logging, storage or stop grace",
			}
		}

		if cfgErr != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("config file error: %v", cfgErr),
				Fix:     fmt.Sprintf("Check %s syntax and values", cfgPath),
			}
		}

		return CheckResult{
			Status:  StatusPass,
			Message: fmt.Sprintf("config loaded from %s", cfgPath),
		}
	}
}

// checkDataDir verifies the data directory exists or can be created and
// accepts writes.
func checkDataDir(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "cannot check, config not loaded"}
	}
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("cannot create %s: %v", cfg.DataDir, err),
			Fix:     "Set data_dir to a writable directory",
		}
	}
	f, err := os.CreateTemp(cfg.DataDir, ".doctor-*")
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("%s is not writable: %v", cfg.DataDir, err),
			Fix:     "Fix the directory permissions or set data_dir elsewhere",
		}
	}
	name := f.Name()
	f.Close()
	os.Remove(name)

	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("%s is writable", cfg.DataDir)}
}

// checkLogOutput warns when logs would be written over the TUI.
func checkLogOutput(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "cannot check, config not loaded"}
	}
	switch strings.ToLower(cfg.Logger.Output) {
	case "", "stdout", "stderr":
		return CheckResult{
			Status:  StatusWarn,
			Message: "logs go to the terminal and will mix with the workbench screen",
			Fix:     "Set logger.output to a file, e.g. " + filepath.Join(cfg.DataDir, "packdeck.log"),
		}
	}
	log, closer, err := logger.New(cfg.Logger)
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("cannot open log file %s: %v", cfg.Logger.Output, err),
			Fix:     "Set logger.output to a writable path",
		}
	}
	log.Debug("doctor log check")
	closer()
	return CheckResult{Status: StatusPass, Message: fmt.Sprintf("logging to %s", cfg.Logger.Output)}
}

// checkStore opens the preference store and reads the theme.
func checkStore(cfg *config.Config) CheckResult {
	if cfg == nil {
		return CheckResult{Status: StatusFail, Message: "cannot check, config not loaded"}
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("store unavailable (%v); the theme and history will not persist", err),
			Fix:     "Check store.path, or set store.driver: memory",
		}
	}
	defer st.Close()

	dark, err := st.GetBool(context.Background(), domain.PreferenceDarkTheme, true)
	if err != nil {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("preferences unreadable: %v", err),
			Fix:     "Delete " + cfg.Store.Path + " to start over",
		}
	}
	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s store ok, theme %s", cfg.Store.Driver, domain.ThemeFromDark(dark)),
	}
}

// checkInterpreter verifies the interpreter path resolves to a file.
func checkInterpreter(python string) func(*config.Config) CheckResult {
	return func(_ *config.Config) CheckResult {
		if strings.TrimSpace(python) == "" {
			return CheckResult{
				Status:  StatusWarn,
				Message: "no interpreter given",
				Fix:     "Run 'packdeck doctor --python PATH' or set interpreter in the profile",
			}
		}
		path, err := resolveExecutable(python)
		if err != nil {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("%s not found: %v", python, err),
				Fix:     "Point --python at the environment's python executable",
			}
		}
		return CheckResult{Status: StatusPass, Message: path}
	}
}

func resolveExecutable(name string) (string, error) {
	if strings.ContainsAny(name, `/\`) {
		info, err := os.Stat(name)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("is a directory")
		}
		return name, nil
	}
	return exec.LookPath(name)
}

// newProber builds the detector from config; nil when detection is off.
func newProber(cfg *config.Config) workbench.Prober {
	if cfg == nil || !cfg.Probe.Enabled {
		return nil
	}
	return probe.New(probe.Config{
		Timeout:          cfg.Probe.Timeout,
		FailureThreshold: cfg.Probe.FailureThreshold,
		OpenTimeout:      cfg.Probe.OpenTimeout,
	}, probe.ExecExecutor{}, logger.Discard())
}

// checkNuitka runs the packager detection for python.
func checkNuitka(python string, prober func(*config.Config) workbench.Prober) func(*config.Config) CheckResult {
	return func(cfg *config.Config) CheckResult {
		if strings.TrimSpace(python) == "" {
			return CheckResult{Status: StatusWarn, Message: "skipped, no interpreter given"}
		}
		p := prober(cfg)
		if p == nil {
			return CheckResult{
				Status:  StatusWarn,
				Message: "detection disabled in config",
				Fix:     "Set probe.enabled: true to check before each run",
			}
		}
		res := p.Detect(context.Background(), python)
		if !res.Installed {
			return CheckResult{
				Status:  StatusFail,
				Message: fmt.Sprintf("nuitka is not installed for %s", python),
				Fix:     "Install it with: " + python + " -m pip install nuitka",
			}
		}
		msg := fmt.Sprintf("found via %s check", res.Strategy)
		if res.Detail != "" {
			msg += " (" + res.Detail + ")"
		}
		return CheckResult{Status: StatusPass, Message: msg}
	}
}
