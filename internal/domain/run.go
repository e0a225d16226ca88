package domain

import (
	"context"
	"time"
)

// RunStatus represents the lifecycle state of a packaging run.
type RunStatus string

const (
	RunStatusIdle      RunStatus = "idle"
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunResult is the terminal outcome of a run. Cancelled runs land in the
// failure bucket; Cancelled only tells the log apart from a natural failure.
type RunResult struct {
	RunID     string    `json:"run_id"`
	Command   []string  `json:"command"`
	Success   bool      `json:"success"`
	Cancelled bool      `json:"cancelled"`
	ExitCode  int       `json:"exit_code"`
	Err       string    `json:"error,omitempty"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at"`
}

// Status maps the result to a terminal RunStatus.
func (r RunResult) Status() RunStatus {
	if r.Success {
		return RunStatusSucceeded
	}
	return RunStatusFailed
}

// RunEventKind distinguishes output lines from the completion notice.
type RunEventKind int

const (
	RunEventLine RunEventKind = iota
	RunEventFinished
)

// RunEvent is one item on a run's output channel.
type RunEvent struct {
	Kind   RunEventKind
	Line   string
	Result *RunResult // set when Kind == RunEventFinished
}

// RunRecord is the persisted summary of a finished run.
type RunRecord struct {
	ID        string
	Command   string
	Status    RunStatus
	ExitCode  int
	Cancelled bool
	StartedAt time.Time
	EndedAt   time.Time
}

// RunHistory persists finished runs.
type RunHistory interface {
	RecordRun(ctx context.Context, rec RunRecord) error
	RecentRuns(ctx context.Context, limit int) ([]RunRecord, error)
}
