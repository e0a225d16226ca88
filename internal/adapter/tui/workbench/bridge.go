package workbench

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"packdeck/internal/domain"
	control "packdeck/internal/usecase/workbench"
)

// Bridge implements the controller's Listener for the TUI. Log lines are
// batched under a rate limiter so a chatty build does not flood the update
// loop; whatever is left is flushed on progress ticks and at completion.
//
// Send must never be called from inside Update: tea's Program.Send blocks
// until the loop reads it.
type Bridge struct {
	sendMu sync.Mutex // serializes flushes so batches stay in order

	mu      sync.Mutex
	send    func(tea.Msg)
	pending []string
	limiter *rate.Limiter
	timer   *time.Timer
}

var _ control.Listener = (*Bridge)(nil)

// NewBridge creates a bridge flushing at most perSec times per second.
func NewBridge(perSec float64, burst int) *Bridge {
	if perSec <= 0 {
		perSec = 20
	}
	if burst <= 0 {
		burst = 1
	}
	return &Bridge{limiter: rate.NewLimiter(rate.Limit(perSec), burst)}
}

// SetSender connects the bridge to a running program. Lines logged before
// that are kept and delivered on the next flush.
func (b *Bridge) SetSender(send func(tea.Msg)) {
	b.mu.Lock()
	b.send = send
	b.mu.Unlock()
}

// OnLog queues a line and flushes when the limiter allows. Otherwise a
// single deferred flush is scheduled for when the next token is due.
func (b *Bridge) OnLog(line string) {
	b.mu.Lock()
	b.pending = append(b.pending, line)
	if b.limiter.Allow() {
		b.mu.Unlock()
		b.Flush()
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.limiter.Reserve().Delay(), b.Flush)
	}
	b.mu.Unlock()
}

// OnFinished flushes pending lines and then reports the result.
func (b *Bridge) OnFinished(result domain.RunResult) {
	b.Flush()

	b.sendMu.Lock()
	defer b.sendMu.Unlock()
	b.mu.Lock()
	send := b.send
	b.mu.Unlock()
	if send != nil {
		send(RunFinishedMsg{Result: result})
	}
}

// Flush delivers every pending line as one LogBatchMsg.
func (b *Bridge) Flush() {
	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	send := b.send
	if send == nil || len(b.pending) == 0 {
		b.mu.Unlock()
		return
	}
	lines := b.pending
	b.pending = nil
	b.mu.Unlock()

	send(LogBatchMsg{Lines: lines})
}

// Stop cancels a scheduled flush.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
