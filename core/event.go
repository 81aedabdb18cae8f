package core

// EventType discriminates the broadcast event kinds delivered to observers.
type EventType string

const (
	// EventMessage announces a newly appended message (user or assistant).
	EventMessage EventType = "message"
	// EventThinking signals that a model is about to be invoked.
	EventThinking EventType = "thinking"
	// EventStream carries an in-progress streaming increment. Content is the
	// full accumulated text so far, not a delta.
	EventStream EventType = "stream"
	// EventComplete terminates a turn; emitted exactly once per turn after
	// all responders have settled.
	EventComplete EventType = "complete"
	// EventReaction announces the updated reaction map for a message.
	EventReaction EventType = "reaction"
	// EventVote announces the updated vote list and mean for a message.
	EventVote EventType = "vote"
)

// Event is the unit of communication fanned out to observers. After emission
// it should be treated as immutable. The bus performs no per-conversation
// routing; subscribers filter by ConversationID themselves. Only the fields
// relevant to the Type are populated.
type Event struct {
	Type           EventType      `json:"type"`
	ConversationID string         `json:"conversationId"`
	Message        *Message       `json:"message,omitempty"`
	Model          string         `json:"model,omitempty"`
	ModelKey       string         `json:"modelKey,omitempty"`
	MessageID      string         `json:"messageId,omitempty"`
	Content        string         `json:"content,omitempty"`
	IsComplete     *bool          `json:"isComplete,omitempty"`
	Reactions      map[string]int `json:"reactions,omitempty"`
	Votes          []int          `json:"votes,omitempty"`
	AvgVote        float64        `json:"avgVote,omitempty"`
}

// NewMessageEvent announces an appended message.
func NewMessageEvent(conversationID string, msg Message) Event {
	return Event{Type: EventMessage, ConversationID: conversationID, Message: &msg}
}

// NewThinkingEvent signals imminent invocation of the given model.
func NewThinkingEvent(conversationID, modelKey string) Event {
	return Event{Type: EventThinking, ConversationID: conversationID, Model: modelKey}
}

// NewStreamEvent carries a streaming increment tagged with the stable
// messageId generated at call start. Content is the full text accumulated so
// far; the last event for a messageId has isComplete=true.
func NewStreamEvent(conversationID, modelKey, messageID, content string, isComplete bool) Event {
	return Event{
		Type:           EventStream,
		ConversationID: conversationID,
		ModelKey:       modelKey,
		MessageID:      messageID,
		Content:        content,
		IsComplete:     &isComplete,
	}
}

// NewCompleteEvent closes a turn.
func NewCompleteEvent(conversationID string) Event {
	return Event{Type: EventComplete, ConversationID: conversationID}
}

// NewReactionEvent announces an updated reaction map.
func NewReactionEvent(conversationID, messageID string, reactions map[string]int) Event {
	return Event{Type: EventReaction, ConversationID: conversationID, MessageID: messageID, Reactions: reactions}
}

// NewVoteEvent announces an updated vote list plus the derived mean.
func NewVoteEvent(conversationID, messageID string, votes []int, avgVote float64) Event {
	return Event{Type: EventVote, ConversationID: conversationID, MessageID: messageID, Votes: votes, AvgVote: avgVote}
}

// Streaming reports whether the event is an in-progress stream increment.
func (e Event) Streaming() bool {
	return e.Type == EventStream && (e.IsComplete == nil || !*e.IsComplete)
}
