package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author class of a message.
type Role string

// Conversation roles. System messages are reserved for injected instructions
// and never originate from a turn.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single entry in a conversation's append-only log. After
// creation it is mutated only by reaction and vote appends; content, author
// and role are immutable.
type Message struct {
	ID        string         `json:"id"`
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Name      string         `json:"name"`
	ModelKey  string         `json:"modelKey,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Reactions map[string]int `json:"reactions"`
	Votes     []int          `json:"votes,omitempty"`
}

// NewUserMessage creates a user-authored message with a fresh identity.
func NewUserMessage(content string) Message {
	return Message{
		ID:        NewID(),
		Role:      RoleUser,
		Content:   content,
		Name:      "You",
		Timestamp: time.Now().UTC(),
		Reactions: map[string]int{},
	}
}

// NewAssistantMessage creates an assistant message attributed to the given
// model. The id is caller-supplied so a streaming gateway's stable messageId
// can be reused for the persisted message.
func NewAssistantMessage(id, content string, model ModelDescriptor) Message {
	if id == "" {
		id = NewID()
	}
	return Message{
		ID:        id,
		Role:      RoleAssistant,
		Content:   content,
		Name:      model.Name,
		ModelKey:  model.Key,
		Timestamp: time.Now().UTC(),
		Reactions: map[string]int{},
	}
}

// AverageVote returns the arithmetic mean of all recorded votes, or zero when
// no votes exist.
func (m Message) AverageVote() float64 {
	if len(m.Votes) == 0 {
		return 0
	}
	sum := 0
	for _, v := range m.Votes {
		sum += v
	}
	return float64(sum) / float64(len(m.Votes))
}

// Clone returns a deep copy safe for independent mutation.
func (m Message) Clone() Message {
	c := m
	c.Reactions = make(map[string]int, len(m.Reactions))
	for k, v := range m.Reactions {
		c.Reactions[k] = v
	}
	if m.Votes != nil {
		c.Votes = append([]int(nil), m.Votes...)
	}
	return c
}

// ChatMessage is the wire shape sent to model backends.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatHistory re-serializes a message log for a model call. Assistant entries
// are content-prefixed with "[<author>]: " so models can attribute prior
// turns; the name never travels in a dedicated field.
func ChatHistory(messages []Message) []ChatMessage {
	out := make([]ChatMessage, 0, len(messages))
	for _, m := range messages {
		content := m.Content
		if m.Role == RoleAssistant && m.Name != "" {
			content = fmt.Sprintf("[%s]: %s", m.Name, m.Content)
		}
		out = append(out, ChatMessage{Role: string(m.Role), Content: content})
	}
	return out
}

// NewID generates a new unique identifier for conversations, messages and
// turns.
func NewID() string { return uuid.NewString() }
