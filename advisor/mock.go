package advisor

import (
	"context"
	"fmt"
	"sync"

	"github.com/Bbowlby22/oxproxion/core"
)

// Mock is a lightweight in-memory Advisor useful for tests and examples.
// Set ChatReply/QueryReply for blanket replies, AddResponse for per-prompt
// canned replies, or Err to make every call fail.
type Mock struct {
	mu         sync.Mutex
	QueryReply string
	ChatReply  string
	Err        error

	responses  map[string]string
	stored     []core.Learning
	chatCalls  int
	queryCalls int
}

var _ core.Advisor = (*Mock)(nil)

// NewMock constructs an empty mock advisor.
func NewMock() *Mock {
	return &Mock{responses: make(map[string]string)}
}

// AddResponse registers a deterministic canned reply for an exact prompt.
func (m *Mock) AddResponse(prompt, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = reply
}

// Query implements core.Advisor.
func (m *Mock) Query(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queryCalls++
	if m.Err != nil {
		return "", m.Err
	}
	if reply, ok := m.responses[text]; ok {
		return reply, nil
	}
	if m.QueryReply != "" {
		return m.QueryReply, nil
	}
	return fmt.Sprintf("Mock guidance for: %s", text), nil
}

// Chat implements core.Advisor.
func (m *Mock) Chat(_ context.Context, message string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls++
	if m.Err != nil {
		return "", m.Err
	}
	if reply, ok := m.responses[message]; ok {
		return reply, nil
	}
	if m.ChatReply != "" {
		return m.ChatReply, nil
	}
	return fmt.Sprintf("Mock reply to: %s", message), nil
}

// Store implements core.Advisor.
func (m *Mock) Store(_ context.Context, learning core.Learning) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.stored = append(m.stored, learning)
	return nil
}

// Stored returns a copy of the learnings written so far.
func (m *Mock) Stored() []core.Learning {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Learning, len(m.stored))
	copy(out, m.stored)
	return out
}

// ChatCalls returns the number of Chat invocations.
func (m *Mock) ChatCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.chatCalls
}

// QueryCalls returns the number of Query invocations.
func (m *Mock) QueryCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queryCalls
}
