// Package history turns finished-run events into persisted run records.
package history

import (
	"context"
	"encoding/json"
	"log/slog"

	"packdeck/internal/domain"
	"packdeck/internal/usecase/command"
)

// Recorder persists every run.finished event into a RunHistory.
type Recorder struct {
	store  domain.RunHistory
	logger *slog.Logger
	unsub  func()
}

// NewRecorder subscribes to bus; call Stop to unsubscribe.
func NewRecorder(bus domain.EventBus, store domain.RunHistory, logger *slog.Logger) *Recorder {
	r := &Recorder{store: store, logger: logger}
	r.unsub = bus.Subscribe(domain.EventRunFinished, r.handle)
	return r
}

// Stop unsubscribes from the bus.
func (r *Recorder) Stop() {
	if r.unsub != nil {
		r.unsub()
	}
}

func (r *Recorder) handle(ctx context.Context, event domain.Event) {
	var result domain.RunResult
	if err := json.Unmarshal(event.Payload, &result); err != nil {
		r.logger.Warn("history: undecodable run.finished payload", "run_id", event.RunID, "error", err)
		return
	}
	if err := r.store.RecordRun(ctx, RecordFromResult(result)); err != nil {
		r.logger.Warn("history: record run failed",
			"run_id", result.RunID,
			"code", string(domain.ErrorCodeOf(err)),
			"error", err,
		)
	}
}

// RecordFromResult summarises a result for storage.
func RecordFromResult(result domain.RunResult) domain.RunRecord {
	return domain.RunRecord{
		ID:        result.RunID,
		Command:   command.Render(result.Command),
		Status:    result.Status(),
		ExitCode:  result.ExitCode,
		Cancelled: result.Cancelled,
		StartedAt: result.StartedAt,
		EndedAt:   result.EndedAt,
	}
}
