// Package workbench holds the control logic shared by the TUI and the
// headless commands: precondition checks, tool detection, run start/stop
// and timestamped logging.
package workbench

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"packdeck/internal/domain"
	"packdeck/internal/usecase/command"
	"packdeck/internal/usecase/probe"
	"packdeck/internal/usecase/runner"
)

// Listener receives log lines and the completion notice. Calls arrive on
// arbitrary goroutines; implementations marshal onto their own thread.
type Listener interface {
	OnLog(line string)
	OnFinished(result domain.RunResult)
}

// Prober reports whether the packager is installed for an interpreter.
type Prober interface {
	Detect(ctx context.Context, interpreter string) probe.Result
}

// Config holds configuration for the Controller.
type Config struct {
	StopGrace time.Duration    // wait after a stop request before killing (default: 2s)
	Clock     func() time.Time // log timestamp source (default: time.Now)
}

// Controller is the single owner of run start/stop decisions.
type Controller struct {
	runner   *runner.Runner
	prober   Prober
	listener Listener
	logger   *slog.Logger
	grace    time.Duration
	now      func() time.Time

	mu   sync.Mutex
	idle chan struct{} // closed when no pump is active
}

// NewController wires a controller. prober may be nil to skip detection.
func NewController(cfg Config, r *runner.Runner, prober Prober, listener Listener, logger *slog.Logger) *Controller {
	if cfg.StopGrace <= 0 {
		cfg.StopGrace = 2 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	idle := make(chan struct{})
	close(idle)
	return &Controller{
		runner:   r,
		prober:   prober,
		listener: listener,
		logger:   logger,
		grace:    cfg.StopGrace,
		now:      cfg.Clock,
		idle:     idle,
	}
}

// Log stamps msg with the wall-clock time and forwards it to the listener.
func (c *Controller) Log(msg string) {
	c.listener.OnLog(Stamp(c.now(), msg))
}

// Stamp formats a log line as "[HH:MM:SS] msg".
func Stamp(t time.Time, msg string) string {
	return fmt.Sprintf("[%s] %s", t.Format("15:04:05"), msg)
}

// Preview returns the command view text for opts.
func (c *Controller) Preview(opts domain.OptionSet) string {
	return command.Preview(opts)
}

// Running reports whether a run is alive or its output and completion are
// still being relayed to the listener.
func (c *Controller) Running() bool {
	return c.runner.Running() || c.relaying()
}

func (c *Controller) relaying() bool {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()
	select {
	case <-idle:
		return false
	default:
		return true
	}
}

// Execute validates opts and starts a run. commandText is the user-edited
// command view: when it holds a real command it is executed verbatim,
// otherwise the command is rebuilt from opts. Precondition and
// missing-tool errors are returned for the caller to show as a dialog;
// nothing is started in that case.
func (c *Controller) Execute(ctx context.Context, opts domain.OptionSet, commandText string) error {
	if c.Running() {
		c.Log("⚠ packaging already in progress, wait for it to finish")
		return domain.NewSubSystemError("workbench", "Controller.Execute", domain.ErrRunBusy, "")
	}
	if err := checkPreconditions(opts); err != nil {
		return err
	}

	if c.prober != nil {
		if res := c.prober.Detect(ctx, opts.Interpreter); !res.Installed {
			return domain.NewSubSystemError("probe", "Controller.Execute", domain.ErrToolNotInstalled, opts.Interpreter)
		}
	}

	tokens, err := c.tokens(opts, commandText)
	if err != nil {
		return err
	}

	run, err := c.runner.Start(ctx, tokens)
	if err != nil {
		if domain.ErrorCodeOf(err) == domain.CodeRunBusy {
			c.Log("⚠ packaging already in progress, wait for it to finish")
		}
		return err
	}

	idle := make(chan struct{})
	c.mu.Lock()
	c.idle = idle
	c.mu.Unlock()

	c.logger.Info("packaging started", "run_id", run.ID())
	c.Log("packaging started...")
	go c.pump(run, strings.TrimSpace(opts.OutputDir), idle)
	return nil
}

func checkPreconditions(opts domain.OptionSet) error {
	const op = "Controller.Execute"
	switch {
	case strings.TrimSpace(opts.Interpreter) == "":
		return domain.NewSubSystemError("workbench", op, domain.ErrInterpreterMissing, "")
	case strings.TrimSpace(opts.Script) == "":
		return domain.NewSubSystemError("workbench", op, domain.ErrScriptMissing, "")
	case strings.TrimSpace(opts.OutputDir) == "":
		return domain.NewSubSystemError("workbench", op, domain.ErrOutputDirMissing, "")
	}
	return nil
}

func (c *Controller) tokens(opts domain.OptionSet, commandText string) ([]string, error) {
	text := strings.TrimSpace(commandText)
	if text == "" || text == command.Placeholder {
		return command.Build(opts)
	}
	return command.Split(text)
}

// pump relays run events to the listener until the run ends.
func (c *Controller) pump(run *runner.Run, outputDir string, idle chan struct{}) {
	defer close(idle)

	var result domain.RunResult
	for ev := range run.Events() {
		switch ev.Kind {
		case domain.RunEventLine:
			c.Log(ev.Line)
		case domain.RunEventFinished:
			result = *ev.Result
		}
	}
	if result.Success && outputDir != "" {
		c.Log("output directory: " + outputDir)
	}
	c.listener.OnFinished(result)
}

// Stop asks the live run to end, waits up to the grace period and then
// kills it. It returns once the stop decision is made, not when the
// listener sees the completion.
func (c *Controller) Stop(ctx context.Context) error {
	run := c.runner.Active()
	if run == nil {
		c.Log("no packaging run in progress")
		return nil
	}

	c.Log("stopping packaging...")
	c.logger.Info("stop requested", "run_id", run.ID())
	if err := run.Cancel(); err != nil {
		// Finished between Active and Cancel.
		return nil
	}

	timer := time.NewTimer(c.grace)
	defer timer.Stop()
	select {
	case <-run.Done():
		return nil
	case <-ctx.Done():
	case <-timer.C:
	}

	if err := run.Kill(); err != nil {
		c.logger.Warn("kill failed", "run_id", run.ID(), "error", err)
		return err
	}
	c.Log("process did not exit in time and was forcibly terminated")
	return nil
}

// CheckTool runs the advisory detection for interpreter. It logs a hit and
// returns ErrToolNotInstalled on a miss; with detection disabled it does
// nothing.
func (c *Controller) CheckTool(ctx context.Context, interpreter string) (probe.Result, error) {
	if c.prober == nil || strings.TrimSpace(interpreter) == "" {
		return probe.Result{}, nil
	}
	res := c.prober.Detect(ctx, interpreter)
	if !res.Installed {
		return res, domain.NewSubSystemError("probe", "Controller.CheckTool", domain.ErrToolNotInstalled, interpreter)
	}
	c.Log(fmt.Sprintf("✔ nuitka detected (%s)", res.Strategy))
	return res, nil
}

// WaitIdle blocks until the last started run has been fully relayed.
func (c *Controller) WaitIdle(ctx context.Context) error {
	c.mu.Lock()
	idle := c.idle
	c.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
