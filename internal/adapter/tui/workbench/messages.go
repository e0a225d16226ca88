// Package workbench implements the Bubble Tea workbench: option tabs, the
// editable command view, the run log and the progress footer.
package workbench

import (
	"packdeck/internal/domain"
)

// LogBatchMsg carries stamped log lines from the bridge, in order.
type LogBatchMsg struct {
	Lines []string
}

// RunFinishedMsg is delivered once per run after its last log line.
type RunFinishedMsg struct {
	Result domain.RunResult
}

// EventBusMsg wraps a domain.Event from the EventBus subscription.
type EventBusMsg struct {
	Event domain.Event
}

// progressTickMsg advances the cosmetic progress bar. gen ties it to one run.
type progressTickMsg struct {
	gen int
}

// executeResultMsg reports whether a run was started.
type executeResultMsg struct {
	Err error
}

// stopDoneMsg reports the end of a stop request.
type stopDoneMsg struct {
	Err error
}

// toolCheckMsg carries the advisory tool detection for an interpreter.
type toolCheckMsg struct {
	Interpreter string
	Strategy    string
	Err         error
}

// themeSavedMsg reports the outcome of persisting the theme preference.
type themeSavedMsg struct {
	Theme domain.Theme
	Err   error
}

// profileSavedMsg reports the outcome of ctrl+s.
type profileSavedMsg struct {
	Path string
	Err  error
}
