// Package probe answers "is the packager installed for this interpreter?"
// using a fixed chain of best-effort checks.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"packdeck/internal/domain"
	"packdeck/internal/infra/tracer"
)

// Strategy names the check that found the tool.
type Strategy string

const (
	StrategyWrapper  Strategy = "wrapper"  // the interpreter path is the tool itself
	StrategyModule   Strategy = "module"   // <interp> -m nuitka --version
	StrategyScripts  Strategy = "scripts"  // executable in the environment's scripts dir
	StrategyMetadata Strategy = "metadata" // uv / pip show
)

// Result is the outcome of Detect. A zero Strategy means not installed.
type Result struct {
	Installed bool
	Strategy  Strategy
	Detail    string
}

// Executor runs a short-lived command and returns its stdout.
type Executor interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecExecutor runs commands through os/exec.
type ExecExecutor struct{}

// Output runs name with args and returns stdout; stderr is discarded.
func (ExecExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	err := cmd.Run()
	return stdout.Bytes(), err
}

// Config holds configuration for the Detector.
type Config struct {
	Timeout          time.Duration // per subprocess probe (default: 2s)
	FailureThreshold int           // consecutive timeouts that open an interpreter's breaker (default: 3)
	OpenTimeout      time.Duration // how long an open breaker rejects probes (default: 30s)
}

var (
	scriptDirs  = []string{"Scripts", "bin"}
	scriptNames = []string{"nuitka", "nuitka.exe", "nuitka.cmd", "nuitka-script.py"}
	metadataVia = []string{"uv", "pip"}
)

const metadataMarker = "Name: nuitka"

// Detector runs the probe chain. It is safe for concurrent use.
type Detector struct {
	exec   Executor
	config Config
	logger *slog.Logger
	stat   func(string) (os.FileInfo, error)
	look   func(string) (string, error)

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]byte]
}

// New creates a Detector. exec may be nil for the os/exec implementation.
func New(cfg Config, executor Executor, logger *slog.Logger) *Detector {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	if executor == nil {
		executor = ExecExecutor{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		exec:     executor,
		config:   cfg,
		logger:   logger,
		stat:     os.Stat,
		look:     exec.LookPath,
		breakers: make(map[string]*gobreaker.CircuitBreaker[[]byte]),
	}
}

// Detect runs the checks in order and returns on the first hit:
//
//  1. the interpreter's base name contains "nuitka";
//  2. <interp> -m nuitka --version exits 0;
//  3. nuitka, nuitka.exe, nuitka.cmd or nuitka-script.py exists in the
//     environment's Scripts or bin directory;
//  4. <interp> -m uv show nuitka, then -m pip show nuitka, prints "Name: nuitka".
//
// Errors never escape; a failed check just falls through to the next.
func (d *Detector) Detect(ctx context.Context, interpreter string) Result {
	ctx, span := tracer.StartSpan(ctx, "probe.detect", tracer.WithAttrs(
		tracer.StringAttr("probe.interpreter", interpreter),
	))
	defer span.End()

	res := d.detect(ctx, strings.TrimSpace(interpreter))
	span.SetAttributes(
		tracer.BoolAttr("probe.installed", res.Installed),
		tracer.StringAttr("probe.strategy", string(res.Strategy)),
	)
	d.logger.Debug("probe finished",
		"interpreter", interpreter,
		"installed", res.Installed,
		"strategy", string(res.Strategy),
	)
	return res
}

func (d *Detector) detect(ctx context.Context, interpreter string) Result {
	if interpreter == "" {
		return Result{Detail: "no interpreter selected"}
	}

	if strings.Contains(strings.ToLower(baseName(interpreter)), "nuitka") {
		return Result{Installed: true, Strategy: StrategyWrapper, Detail: interpreter}
	}

	if _, err := d.run(ctx, interpreter, "-m", "nuitka", "--version"); err == nil {
		return Result{Installed: true, Strategy: StrategyModule, Detail: "-m nuitka --version"}
	}

	if path, ok := d.scanScripts(interpreter); ok {
		return Result{Installed: true, Strategy: StrategyScripts, Detail: path}
	}

	for _, tool := range metadataVia {
		out, err := d.run(ctx, interpreter, "-m", tool, "show", "nuitka")
		if err == nil && bytes.Contains(out, []byte(metadataMarker)) {
			return Result{Installed: true, Strategy: StrategyMetadata, Detail: tool + " show nuitka"}
		}
	}

	return Result{Detail: "all checks failed"}
}

// scanScripts looks next to the interpreter's environment root.
func (d *Detector) scanScripts(interpreter string) (string, bool) {
	resolved := interpreter
	if !strings.ContainsAny(interpreter, `/\`) {
		p, err := d.look(interpreter)
		if err != nil {
			return "", false
		}
		resolved = p
	}
	root := filepath.Dir(filepath.Dir(resolved))
	for _, dir := range scriptDirs {
		for _, name := range scriptNames {
			candidate := filepath.Join(root, dir, name)
			if _, err := d.stat(candidate); err == nil {
				return candidate, true
			}
		}
	}
	return "", false
}

// run executes one bounded subprocess probe behind the interpreter's breaker.
func (d *Detector) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cb := d.breaker(name)
	out, err := cb.Execute(func() ([]byte, error) {
		pctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
		out, err := d.exec.Output(pctx, name, args...)
		if err != nil && errors.Is(pctx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewSubSystemError("probe", "Detector.run", domain.ErrTimeout,
				fmt.Sprintf("%s %s", name, strings.Join(args, " ")))
		}
		return out, err
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		d.logger.Debug("probe skipped, breaker open", "interpreter", name)
	}
	return out, err
}

// breaker returns the per-interpreter breaker. Only timeouts count as
// failures; a non-zero exit is a valid "not installed" answer.
func (d *Detector) breaker(interpreter string) *gobreaker.CircuitBreaker[[]byte] {
	d.mu.Lock()
	defer d.mu.Unlock()

	if cb, ok := d.breakers[interpreter]; ok {
		return cb
	}
	threshold := uint32(d.config.FailureThreshold)
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "probe:" + interpreter,
		MaxRequests: 1,
		Timeout:     d.config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, domain.ErrTimeout)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			d.logger.Warn("probe breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	d.breakers[interpreter] = cb
	return cb
}

func baseName(p string) string {
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return p
}
