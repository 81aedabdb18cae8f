package core

// CreateParams configures a new conversation. Zero values fall back to
// defaults (temperature 0.7, parallel mode). When Template is set its
// suggested models, mode and personas are applied first; explicit fields
// then override nothing (the template wins, matching the reference UI flow).
type CreateParams struct {
	ActiveModels []string
	Mode         Mode
	Personas     map[string]string
	Temperature  float64
	Template     *Template
}

// Patch shallow-merges conversation settings. Nil fields are left untouched.
type Patch struct {
	ActiveModels []string
	Mode         *Mode
	Personas     map[string]string
	Temperature  *float64
}

// ConversationStore owns all Conversation and Message entities. Implementations
// are volatile (no persistence beyond process lifetime) and must be safe for
// concurrent use. All read operations return defensive copies.
type ConversationStore interface {
	Create(params CreateParams) (*Conversation, error)
	Get(id string) (*Conversation, error)
	Patch(id string, patch Patch) (*Conversation, error)
	AppendMessage(id string, msg Message) error

	// React increments the emoji's count by one (no idempotence, no per-user
	// identity) and returns the updated reaction map.
	React(id, messageID, emoji string) (map[string]int, error)

	// Vote appends a 1..5 value and returns the updated list plus its mean.
	Vote(id, messageID string, value int) ([]int, float64, error)

	// TruncateAfter removes every message after the anchor. Idempotent; the
	// anchor itself is never removed.
	TruncateAfter(id, messageID string) error

	// AddUsage accumulates token/cost counters. Counters never decrease.
	AddUsage(id string, tokens int, cost float64) error

	// NextTurnIndex returns the current rotation index and advances it.
	NextTurnIndex(id string) (int, error)

	// Search filters messages by case-insensitive substring and optional
	// model key; user messages always match a model filter.
	Search(id, query, modelKey string) ([]Message, error)
}
