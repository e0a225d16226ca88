package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"packdeck/internal/domain"
	"packdeck/internal/infra/tracer"
	"packdeck/internal/usecase/command"
)

// terminate sends the polite stop signal; replaced in tests.
var terminate = terminateProcess

// Run is a single execution of a command.
type Run struct {
	id     string
	tokens []string
	config Config
	logger *slog.Logger

	events    chan domain.RunEvent
	stop      chan struct{}
	stopOnce  sync.Once
	cancelMu  sync.Mutex // held for a whole Cancel call
	cancelled atomic.Bool
	done      chan struct{}

	mu      sync.Mutex
	cmd     *exec.Cmd
	result  *domain.RunResult
	termErr error
}

func newRun(id string, tokens []string, cfg Config, logger *slog.Logger) *Run {
	return &Run{
		id:     id,
		tokens: append([]string(nil), tokens...),
		config: cfg,
		logger: logger.With("run_id", id),
		events: make(chan domain.RunEvent, cfg.EventBuffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// ID returns the run's ULID.
func (run *Run) ID() string { return run.id }

// Command returns the tokens being executed.
func (run *Run) Command() []string { return append([]string(nil), run.tokens...) }

// Events delivers output lines in arrival order followed by exactly one
// finished event; the channel is closed afterwards.
func (run *Run) Events() <-chan domain.RunEvent { return run.events }

// Done is closed once the run reached a terminal state.
func (run *Run) Done() <-chan struct{} { return run.done }

// Cancelled reports whether Cancel was called.
func (run *Run) Cancelled() bool { return run.cancelled.Load() }

// Result returns the terminal result once Done is closed.
func (run *Run) Result() (domain.RunResult, bool) {
	run.mu.Lock()
	defer run.mu.Unlock()
	if run.result == nil {
		return domain.RunResult{}, false
	}
	return *run.result, true
}

// Wait blocks until the run ends or ctx is done.
func (run *Run) Wait(ctx context.Context) (domain.RunResult, error) {
	select {
	case <-run.done:
		res, _ := run.Result()
		return res, nil
	case <-ctx.Done():
		return domain.RunResult{}, ctx.Err()
	}
}

// Cancel stops relaying output and asks the child to terminate. It does not
// wait; callers escalate with Kill after a bounded wait. A failed terminate
// signal is reported as a log line after StopNotice, not returned.
func (run *Run) Cancel() error {
	select {
	case <-run.done:
		return domain.NewSubSystemError("runner", "Run.Cancel", domain.ErrNotRunning, run.id)
	default:
	}

	run.cancelMu.Lock()
	defer run.cancelMu.Unlock()
	defer run.stopOnce.Do(func() { close(run.stop) })
	run.cancelled.Store(true)

	run.mu.Lock()
	cmd := run.cmd
	run.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		run.signalTerminate(cmd.Process)
	}
	return nil
}

func (run *Run) signalTerminate(p *os.Process) {
	err := terminate(p)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return
	}
	run.logger.Warn("terminate signal failed", "error", err)
	run.mu.Lock()
	if run.termErr == nil {
		run.termErr = err
	}
	run.mu.Unlock()
}

func (run *Run) terminateError() error {
	run.mu.Lock()
	defer run.mu.Unlock()
	return run.termErr
}

// Kill forcefully ends the child process.
func (run *Run) Kill() error {
	run.cancelled.Store(true)
	run.stopOnce.Do(func() { close(run.stop) })

	run.mu.Lock()
	cmd := run.cmd
	run.mu.Unlock()
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return domain.WrapOp("Run.Kill", err)
	}
	return nil
}

// work owns the child process for its whole life and returns the result.
func (run *Run) work(ctx context.Context, onStarted func()) domain.RunResult {
	_, span := tracer.StartSpan(ctx, "runner.run", tracer.WithAttrs(
		tracer.StringAttr("run.id", run.id),
		tracer.StringAttr("run.program", run.tokens[0]),
	))
	defer span.End()

	result := domain.RunResult{RunID: run.id, Command: run.tokens, StartedAt: time.Now(), ExitCode: -1}

	run.emitFinal("running: " + command.Render(run.tokens))

	cmd := exec.Command(run.tokens[0], run.tokens[1:]...)
	cmd.Dir = run.config.Dir
	if len(run.config.Env) > 0 {
		cmd.Env = append(os.Environ(), run.config.Env...)
	}
	pipe, err := cmd.StdoutPipe()
	if err == nil {
		// Same *os.File for both streams: output is merged in write order.
		cmd.Stderr = cmd.Stdout
		err = cmd.Start()
	}
	if err != nil {
		launchErr := domain.NewSubSystemError("runner", "Run.Start", domain.ErrLaunchFailed, err.Error())
		tracer.RecordError(span, launchErr)
		run.logger.Error("launch failed", "error", err)
		result.Err = launchErr.Error()
		result.EndedAt = time.Now()
		run.emitFinal(fmt.Sprintf("%s: error during execution: %v", FailureMarker, err))
		return run.settle(result)
	}

	run.mu.Lock()
	run.cmd = cmd
	run.mu.Unlock()
	// Cancel may have raced the launch.
	if run.cancelled.Load() {
		run.signalTerminate(cmd.Process)
	}
	onStarted()

	run.relay(pipe)
	// Waits for an in-flight Cancel to record its signal outcome.
	run.cancelMu.Lock()
	stopped := run.cancelled.Load()
	run.cancelMu.Unlock()
	if stopped {
		run.emitFinal(StopNotice)
		if err := run.terminateError(); err != nil {
			run.emitFinal(fmt.Sprintf("%s: %v", TerminateFailedNotice, err))
		}
	}

	waitErr := cmd.Wait()
	result.EndedAt = time.Now()
	result.Cancelled = run.cancelled.Load()
	switch {
	case waitErr == nil:
		result.ExitCode = 0
	default:
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		result.Err = waitErr.Error()
	}
	result.Success = waitErr == nil && !result.Cancelled
	span.SetAttributes(
		tracer.IntAttr("run.exit_code", result.ExitCode),
		tracer.BoolAttr("run.cancelled", result.Cancelled),
	)

	if result.Success {
		tracer.SetOK(span)
		run.emitFinal(SuccessMarker)
	} else {
		tracer.RecordError(span, fmt.Errorf("exit code %d", result.ExitCode))
		run.emitFinal(failureLine(result))
	}
	return run.settle(result)
}

// relay forwards decoded lines until the output ends or a stop is observed.
// Output still buffered at that point is dropped.
func (run *Run) relay(pipe io.Reader) {
	lines := make(chan string)
	go scanLines(pipe, run.config.MaxLineBytes, lines, run.stop, run.logger)

	for {
		select {
		case line, ok := <-lines:
			if !ok || run.cancelled.Load() {
				return
			}
			select {
			case run.events <- domain.RunEvent{Kind: domain.RunEventLine, Line: line}:
			case <-run.stop:
				return
			}
		case <-run.stop:
			return
		}
	}
}

// scanLines decodes r as UTF-8, substituting U+FFFD for invalid bytes, and
// sends each line with trailing whitespace removed.
func scanLines(r io.Reader, maxLine int, out chan<- string, stop <-chan struct{}, logger *slog.Logger) {
	defer close(out)

	scanner := bufio.NewScanner(transform.NewReader(r, xunicode.UTF8.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := strings.TrimRightFunc(scanner.Text(), unicode.IsSpace)
		select {
		case out <- line:
		case <-stop:
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, os.ErrClosed) {
		logger.Warn("output scan ended early", "error", err)
		// Keep the pipe drained so the child never blocks on a full buffer.
		_, _ = io.Copy(io.Discard, r)
	}
}

// emitFinal delivers lines that must not be dropped even after a stop.
func (run *Run) emitFinal(line string) {
	run.events <- domain.RunEvent{Kind: domain.RunEventLine, Line: line}
}

func (run *Run) settle(result domain.RunResult) domain.RunResult {
	run.mu.Lock()
	run.result = &result
	run.mu.Unlock()
	run.events <- domain.RunEvent{Kind: domain.RunEventFinished, Result: &result}
	close(run.events)
	return result
}

// finish marks the run terminal; called after the runner slot is released.
func (run *Run) finish() {
	close(run.done)
}
