package core

import "context"

// ModelCall captures the normalized input for one model backend invocation.
type ModelCall struct {
	Model       ModelDescriptor `json:"model"`
	Messages    []ChatMessage   `json:"messages"`
	Persona     string          `json:"persona,omitempty"`
	Temperature float64         `json:"temperature"`
}

// Usage carries token statistics reported by a backend.
type Usage struct {
	TotalTokens int `json:"total_tokens"`
}

// CallResult is the settled outcome of a gateway call. MessageID is the
// stable id minted at call start (streaming emits reuse it); Usage is nil
// when the backend does not report it, which is typical for streaming.
type CallResult struct {
	MessageID string `json:"messageId,omitempty"`
	Content   string `json:"content"`
	Usage     *Usage `json:"usage,omitempty"`
}

// StreamFunc receives streaming increments. Content is always the full
// accumulated text so far (not a delta) tagged with the call's stable
// messageID.
type StreamFunc func(messageID, content string)

// Gateway invokes a single external model backend. Implementations perform no
// retries; a failed call fails exactly once and the caller decides what to
// skip. Both operations build the system prompt from the collaboration
// etiquette template plus the call's optional persona.
type Gateway interface {
	// Complete performs a blocking completion returning content plus any
	// reported usage.
	Complete(ctx context.Context, call ModelCall) (*CallResult, error)

	// CompleteStreaming requests incremental output, invoking emit after
	// every non-empty increment with the full accumulated content so far.
	// Malformed individual frames are skipped without aborting the stream.
	CompleteStreaming(ctx context.Context, call ModelCall, emit StreamFunc) (*CallResult, error)
}
