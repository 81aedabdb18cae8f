package core

import "time"

// Conversation is a stateful container for one multi-model exchange: an
// append-only ordered message log plus the configuration that governs how
// models respond (active set, mode, personas, temperature) and running usage
// counters.
//
// Contract:
//   - Messages are never removed except by an explicit TruncateAfter
//   - TotalTokens and TotalCost are monotonically non-decreasing
//   - TurnIndex is consumed only by the turn-rotation mode
//   - Clone performs deep copies so snapshots can diverge safely.
type Conversation struct {
	ID           string            `json:"id"`
	Messages     []Message         `json:"messages"`
	ActiveModels []string          `json:"activeModels"`
	Mode         Mode              `json:"mode"`
	Personas     map[string]string `json:"personas"`
	Temperature  float64           `json:"temperature"`
	TotalTokens  int               `json:"totalTokens"`
	TotalCost    float64           `json:"totalCost"`
	Template     string            `json:"template,omitempty"`
	TurnIndex    int               `json:"turnIndex"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Clone returns a deep copy of the conversation safe for independent mutation.
func (c *Conversation) Clone() *Conversation {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	for i, m := range c.Messages {
		clone.Messages[i] = m.Clone()
	}
	clone.ActiveModels = append([]string(nil), c.ActiveModels...)
	clone.Personas = make(map[string]string, len(c.Personas))
	for k, v := range c.Personas {
		clone.Personas[k] = v
	}
	return &clone
}

// LastUserMessage returns the most recent user-authored message, if any.
// It is the anchor for regenerate-by-truncation.
func (c *Conversation) LastUserMessage() (Message, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i].Clone(), true
		}
	}
	return Message{}, false
}

// FindMessage returns the message with the given id, if present.
func (c *Conversation) FindMessage(messageID string) (Message, bool) {
	for _, m := range c.Messages {
		if m.ID == messageID {
			return m.Clone(), true
		}
	}
	return Message{}, false
}
