package conversation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/roundtable/core"
)

// DefaultTemperature is applied when CreateParams leaves temperature unset.
const DefaultTemperature = 0.7

// InMemoryStore is a volatile core.ConversationStore implementation keeping
// conversations in a process local map. It is safe for concurrent access and
// is the reference backing for the engine; state is lost on restart. Each
// returned conversation is cloned to prevent external mutation of internal
// state.
type InMemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*core.Conversation
}

// NewInMemoryStore constructs an empty in-memory conversation store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{conversations: make(map[string]*core.Conversation)}
}

// Create builds a conversation with defaults, applying the template preset
// first when present. An empty resulting active-model set is rejected before
// any state is stored.
func (s *InMemoryStore) Create(params core.CreateParams) (*core.Conversation, error) {
	activeModels := append([]string(nil), params.ActiveModels...)
	mode := params.Mode
	personas := map[string]string{}
	for k, v := range params.Personas {
		personas[k] = v
	}
	templateKey := ""

	if tmpl := params.Template; tmpl != nil {
		activeModels = append([]string(nil), tmpl.SuggestedModels...)
		mode = tmpl.Mode
		personas = map[string]string{}
		for k, v := range tmpl.Personas {
			personas[k] = v
		}
		templateKey = tmpl.Key
	}

	if mode == "" {
		mode = core.ModeParallel
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownMode, mode)
	}
	if len(activeModels) == 0 {
		return nil, core.ErrEmptyModelSelection
	}

	temperature := params.Temperature
	if temperature == 0 {
		temperature = DefaultTemperature
	}

	conv := &core.Conversation{
		ID:           core.NewID(),
		Messages:     []core.Message{},
		ActiveModels: activeModels,
		Mode:         mode,
		Personas:     personas,
		Temperature:  temperature,
		Template:     templateKey,
		CreatedAt:    time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.ID] = conv

	return conv.Clone(), nil
}

// Get returns a clone of the conversation or ErrNotFound.
func (s *InMemoryStore) Get(id string) (*core.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return conv.Clone(), nil
}

// Patch shallow-merges settings into an existing conversation and returns the
// updated clone. Nil patch fields leave the current values untouched. The
// whole patch is validated before anything is mutated; a rejected patch has
// no side effects.
func (s *InMemoryStore) Patch(id string, patch core.Patch) (*core.Conversation, error) {
	if patch.Mode != nil && !patch.Mode.Valid() {
		return nil, fmt.Errorf("%w: %q", core.ErrUnknownMode, *patch.Mode)
	}
	if patch.ActiveModels != nil && len(patch.ActiveModels) == 0 {
		return nil, core.ErrEmptyModelSelection
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if patch.ActiveModels != nil {
		conv.ActiveModels = append([]string(nil), patch.ActiveModels...)
	}
	if patch.Mode != nil {
		conv.Mode = *patch.Mode
	}
	if patch.Personas != nil {
		personas := make(map[string]string, len(patch.Personas))
		for k, v := range patch.Personas {
			personas[k] = v
		}
		conv.Personas = personas
	}
	if patch.Temperature != nil {
		conv.Temperature = *patch.Temperature
	}

	return conv.Clone(), nil
}

// AppendMessage adds a message to the end of the log.
func (s *InMemoryStore) AppendMessage(id string, msg core.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	conv.Messages = append(conv.Messages, msg.Clone())
	return nil
}

// React increments the emoji count on a message and returns the updated map.
// Repeat reactions from the same actor are indistinguishable from distinct
// actors; counts accumulate blindly.
func (s *InMemoryStore) React(id, messageID, emoji string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg, err := s.findMessageLocked(id, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Reactions == nil {
		msg.Reactions = map[string]int{}
	}
	msg.Reactions[emoji]++

	out := make(map[string]int, len(msg.Reactions))
	for k, v := range msg.Reactions {
		out[k] = v
	}
	return out, nil
}

// Vote appends a 1..5 rating to a message and returns the list plus its mean.
func (s *InMemoryStore) Vote(id, messageID string, value int) ([]int, float64, error) {
	if value < 1 || value > 5 {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidVote, value)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	msg, err := s.findMessageLocked(id, messageID)
	if err != nil {
		return nil, 0, err
	}
	msg.Votes = append(msg.Votes, value)

	votes := append([]int(nil), msg.Votes...)
	return votes, msg.AverageVote(), nil
}

// TruncateAfter removes every message after the anchor message. The anchor
// itself always survives; calling twice with the same anchor is a no-op.
func (s *InMemoryStore) TruncateAfter(id, messageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for i, m := range conv.Messages {
		if m.ID == messageID {
			conv.Messages = conv.Messages[:i+1]
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
}

// AddUsage accumulates token and cost counters. Negative deltas are rejected
// so the counters stay monotonic.
func (s *InMemoryStore) AddUsage(id string, tokens int, cost float64) error {
	if tokens < 0 || cost < 0 {
		return fmt.Errorf("usage deltas must be non-negative (tokens=%d cost=%f)", tokens, cost)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	conv.TotalTokens += tokens
	conv.TotalCost += cost
	return nil
}

// NextTurnIndex returns the current rotation index and advances it.
func (s *InMemoryStore) NextTurnIndex(id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conv, ok := s.conversations[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	idx := conv.TurnIndex
	conv.TurnIndex++
	return idx, nil
}

// Search filters the message log by case-insensitive substring and optional
// model key. User messages always pass a model filter so the surrounding
// exchange stays readable.
func (s *InMemoryStore) Search(id, query, modelKey string) ([]core.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	needle := strings.ToLower(query)
	results := []core.Message{}
	for _, m := range conv.Messages {
		if needle != "" && !strings.Contains(strings.ToLower(m.Content), needle) {
			continue
		}
		if modelKey != "" && m.ModelKey != modelKey && m.Role != core.RoleUser {
			continue
		}
		results = append(results, m.Clone())
	}
	return results, nil
}

// findMessageLocked locates a live message pointer; caller must hold the
// write lock.
func (s *InMemoryStore) findMessageLocked(id, messageID string) (*core.Message, error) {
	conv, ok := s.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for i := range conv.Messages {
		if conv.Messages[i].ID == messageID {
			return &conv.Messages[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMessageNotFound, messageID)
}
