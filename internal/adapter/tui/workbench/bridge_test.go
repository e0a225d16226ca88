package workbench

import (
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"packdeck/internal/domain"
)

type sink struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (s *sink) send(msg tea.Msg) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
}

func (s *sink) all() []tea.Msg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]tea.Msg(nil), s.msgs...)
}

func (s *sink) finished() (domain.RunResult, bool) {
	for _, msg := range s.all() {
		if f, ok := msg.(RunFinishedMsg); ok {
			return f.Result, true
		}
	}
	return domain.RunResult{}, false
}

func TestBridge_FlushesImmediatelyWhenAllowed(t *testing.T) {
	s := &sink{}
	b := NewBridge(1000, 10)
	b.SetSender(s.send)

	b.OnLog("a")
	assert.Equal(t, []tea.Msg{LogBatchMsg{Lines: []string{"a"}}}, s.all())
}

func TestBridge_BatchesUnderLimit(t *testing.T) {
	s := &sink{}
	b := NewBridge(0.001, 1)
	b.SetSender(s.send)
	defer b.Stop()

	b.OnLog("a")
	b.OnLog("b")
	b.OnLog("c")
	require.Len(t, s.all(), 1)

	b.Flush()
	assert.Equal(t, []tea.Msg{
		LogBatchMsg{Lines: []string{"a"}},
		LogBatchMsg{Lines: []string{"b", "c"}},
	}, s.all())

	// Nothing pending: no empty batch.
	b.Flush()
	assert.Len(t, s.all(), 2)
}

func TestBridge_FinishedAfterLastLine(t *testing.T) {
	s := &sink{}
	b := NewBridge(0.001, 1)
	b.SetSender(s.send)

	b.OnLog("a")
	b.OnLog("b")
	b.OnFinished(domain.RunResult{Success: true})

	msgs := s.all()
	require.Len(t, msgs, 3)
	assert.Equal(t, LogBatchMsg{Lines: []string{"b"}}, msgs[1])
	assert.Equal(t, RunFinishedMsg{Result: domain.RunResult{Success: true}}, msgs[2])
}

func TestBridge_KeepsLinesUntilSenderSet(t *testing.T) {
	s := &sink{}
	b := NewBridge(1000, 10)

	b.OnLog("early")
	b.OnLog("earlier still waiting")
	assert.Empty(t, s.all())

	b.SetSender(s.send)
	b.Flush()
	assert.Equal(t, []tea.Msg{LogBatchMsg{Lines: []string{"early", "earlier still waiting"}}}, s.all())
}
