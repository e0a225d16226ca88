package workbench

import (
	"fmt"
	"io"
	"sync"

	"packdeck/internal/domain"
)

// WriterListener prints log lines to a writer and hands the completion to
// a channel. It backs the headless commands.
type WriterListener struct {
	mu   sync.Mutex
	w    io.Writer
	done chan domain.RunResult
}

// NewWriterListener creates a listener writing to w.
func NewWriterListener(w io.Writer) *WriterListener {
	return &WriterListener{w: w, done: make(chan domain.RunResult, 1)}
}

func (l *WriterListener) OnLog(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, line)
}

func (l *WriterListener) OnFinished(result domain.RunResult) {
	select {
	case l.done <- result:
	default:
	}
}

// Done delivers the result of the run.
func (l *WriterListener) Done() <-chan domain.RunResult { return l.done }
