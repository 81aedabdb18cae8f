package gateway

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/hupe1980/roundtable/core"
)

// MockGateway is a lightweight in-memory Gateway useful for tests & examples.
// Responses are keyed by model key; unregistered keys get a deterministic
// placeholder reply.
type MockGateway struct {
	mu        sync.Mutex
	responses map[string]string
	failures  map[string]error
	calls     []core.ModelCall
}

// NewMockGateway constructs a MockGateway with no canned responses.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		responses: make(map[string]string),
		failures:  make(map[string]error),
	}
}

// AddResponse registers a deterministic canned completion for a model key.
func (m *MockGateway) AddResponse(modelKey, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.responses[modelKey] = response
}

// Fail makes every call for the given model key return err.
func (m *MockGateway) Fail(modelKey string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failures[modelKey] = err
}

// Calls returns a copy of every recorded call in submission order.
func (m *MockGateway) Calls() []core.ModelCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]core.ModelCall, len(m.calls))
	copy(calls, m.calls)

	return calls
}

func (m *MockGateway) respond(call core.ModelCall) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, call)

	if err, ok := m.failures[call.Model.Key]; ok {
		return "", err
	}

	if resp, ok := m.responses[call.Model.Key]; ok {
		return resp, nil
	}

	return fmt.Sprintf("Mock response from %s", call.Model.Name), nil
}

// Complete implements core.Gateway. Reported usage mirrors the length based
// estimate so accounting paths see consistent numbers.
func (m *MockGateway) Complete(ctx context.Context, call core.ModelCall) (*core.CallResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := m.respond(call)
	if err != nil {
		return nil, err
	}

	return &core.CallResult{
		MessageID: core.NewID(),
		Content:   content,
		Usage:     &core.Usage{TotalTokens: (utf8.RuneCountInString(content) + 3) / 4},
	}, nil
}

// CompleteStreaming implements core.Gateway; emits per-rune chunks carrying
// the full accumulated content, then returns the final result without usage.
func (m *MockGateway) CompleteStreaming(ctx context.Context, call core.ModelCall, emit core.StreamFunc) (*core.CallResult, error) {
	content, err := m.respond(call)
	if err != nil {
		return nil, err
	}

	messageID := core.NewID()

	var partial string
	for _, r := range content {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		partial += string(r)
		if emit != nil {
			emit(messageID, partial)
		}
	}

	return &core.CallResult{MessageID: messageID, Content: content}, nil
}

var _ core.Gateway = (*MockGateway)(nil)
