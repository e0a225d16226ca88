// Package runner launches a packaging command as a child process and relays
// its combined output line by line over a bounded channel.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"packdeck/internal/domain"
)

// Defaults for Config fields left at zero.
const (
	DefaultEventBuffer  = 256
	DefaultMaxLineBytes = 1024 * 1024
)

// Config holds configuration for the Runner.
type Config struct {
	EventBuffer  int      // capacity of each run's event channel (default: 256)
	MaxLineBytes int      // longest output line accepted (default: 1MB)
	Dir          string   // working directory of the child; empty = current
	Env          []string // extra NAME=value pairs appended to os.Environ()
}

// Runner owns at most one live Run.
type Runner struct {
	mu      sync.Mutex
	active  *Run
	entropy *ulid.MonotonicEntropy
	config  Config
	bus     domain.EventBus
	logger  *slog.Logger
}

// New creates a Runner. bus may be nil.
func New(cfg Config, bus domain.EventBus, logger *slog.Logger) *Runner {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultEventBuffer
	}
	if cfg.MaxLineBytes <= 0 {
		cfg.MaxLineBytes = DefaultMaxLineBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	t := time.Now()
	return &Runner{
		config:  cfg,
		bus:     bus,
		logger:  logger,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0),
	}
}

// Start launches tokens[0] with the remaining tokens as arguments. It returns
// ErrRunBusy while another run is alive; launch failures are reported on the
// returned run's event channel rather than here. Callers must drain Events().
func (r *Runner) Start(ctx context.Context, tokens []string) (*Run, error) {
	if len(tokens) == 0 || tokens[0] == "" {
		return nil, domain.NewSubSystemError("runner", "Runner.Start", domain.ErrEmptyCommand, "")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active != nil {
		return nil, domain.NewSubSystemError("runner", "Runner.Start", domain.ErrRunBusy, r.active.id)
	}

	run := newRun(r.newID(), tokens, r.config, r.logger)
	r.active = run
	go r.supervise(ctx, run)

	r.logger.Info("run started", "run_id", run.id, "program", tokens[0], "args", len(tokens)-1)
	return run, nil
}

// Active returns the live run, or nil when idle.
func (r *Runner) Active() *Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Running reports whether a run is alive.
func (r *Runner) Running() bool {
	return r.Active() != nil
}

// supervise runs the worker and then releases the runner slot.
func (r *Runner) supervise(ctx context.Context, run *Run) {
	result := run.work(ctx, func() {
		r.emitEvent(ctx, domain.EventRunStarted, run.id, map[string]any{"command": run.tokens})
	})

	r.mu.Lock()
	if r.active == run {
		r.active = nil
	}
	r.mu.Unlock()

	if result.Cancelled {
		r.emitEvent(ctx, domain.EventRunCancelled, run.id, result)
	}
	r.emitEvent(ctx, domain.EventRunFinished, run.id, result)
	r.logger.Info("run finished",
		"run_id", run.id,
		"success", result.Success,
		"cancelled", result.Cancelled,
		"exit_code", result.ExitCode,
		"duration", result.EndedAt.Sub(result.StartedAt),
	)
	run.finish()
}

func (r *Runner) emitEvent(ctx context.Context, eventType domain.EventType, runID string, payload any) {
	if r.bus == nil {
		return
	}
	data, _ := json.Marshal(payload)
	r.bus.Publish(context.WithoutCancel(ctx), domain.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		RunID:     runID,
		Payload:   data,
	})
}

// newID must be called with r.mu held.
func (r *Runner) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), r.entropy).String()
}

// Markers that open the final log line of a run.
const (
	SuccessMarker = "✔ packaging completed successfully"
	FailureMarker = "✘ packaging failed"
	StopNotice    = "■ stop requested by user, remaining output discarded"

	TerminateFailedNotice = "⚠ failed to terminate the packaging process"
)

func failureLine(result domain.RunResult) string {
	if result.Cancelled {
		return fmt.Sprintf("%s: stopped by user (exit code %d)", FailureMarker, result.ExitCode)
	}
	return fmt.Sprintf("%s, exit code: %d", FailureMarker, result.ExitCode)
}
