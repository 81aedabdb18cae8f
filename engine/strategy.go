package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/logging"
)

// strategy executes one turn against the resolved responder set. A failing
// responder is skipped; it must never abort the turn for the others.
type strategy interface {
	run(ctx context.Context, e *Engine, conversationID string, responders []core.ModelDescriptor)
}

// strategyFor is the single dispatch point from mode to execution strategy.
// The facilitator family shares the sequential strategy; its semantics live
// entirely in persona text the engine never inspects.
func strategyFor(mode core.Mode) strategy {
	switch {
	case mode == core.ModeTurnBased:
		return turnBasedStrategy{}
	case mode.Sequentialish():
		return sequentialStrategy{}
	default:
		return parallelStrategy{}
	}
}

// parallelStrategy fires every responder concurrently with streaming output.
// Each responder sees the same history snapshot taken at turn start; progress
// is announced via stream events carrying the full content so far, closed by
// one stream event with isComplete=true per settled responder.
type parallelStrategy struct{}

func (parallelStrategy) run(ctx context.Context, e *Engine, conversationID string, responders []core.ModelDescriptor) {
	conv, err := e.store.Get(conversationID)
	if err != nil {
		e.logger.Error("turn aborted", "conversation_id", conversationID, "error", err)
		return
	}

	history := core.ChatHistory(conv.Messages)

	var wg sync.WaitGroup
	for _, md := range responders {
		wg.Add(1)
		go func(md core.ModelDescriptor) {
			defer wg.Done()
			e.invokeStreaming(ctx, conversationID, md, conv, history)
		}(md)
	}
	wg.Wait()
}

// sequentialStrategy awaits each responder fully before dispatching the next,
// refreshing the history each iteration so later responders see earlier
// replies of the same turn, with a pacing delay between completions.
type sequentialStrategy struct{}

func (sequentialStrategy) run(ctx context.Context, e *Engine, conversationID string, responders []core.ModelDescriptor) {
	for i, md := range responders {
		if ctx.Err() != nil {
			return
		}
		if i > 0 && !pace(ctx, e.pacing) {
			return
		}
		e.invokeBlocking(ctx, conversationID, md)
	}
}

// turnBasedStrategy dispatches exactly one responder per turn, rotating
// through the resolved set by the conversation's turn index.
type turnBasedStrategy struct{}

func (turnBasedStrategy) run(ctx context.Context, e *Engine, conversationID string, responders []core.ModelDescriptor) {
	index, err := e.store.NextTurnIndex(conversationID)
	if err != nil {
		e.logger.Error("turn aborted", "conversation_id", conversationID, "error", err)
		return
	}

	e.invokeBlocking(ctx, conversationID, responders[index%len(responders)])
}

// invokeBlocking runs one blocking gateway call and appends the settled
// response. The history is read fresh from the store so responses of the same
// turn accumulate. Failures are logged and skipped.
func (e *Engine) invokeBlocking(ctx context.Context, conversationID string, md core.ModelDescriptor) {
	conv, err := e.store.Get(conversationID)
	if err != nil {
		e.logger.Error("responder skipped", "conversation_id", conversationID, "model", md.Key, "error", err)
		return
	}

	e.bus.Publish(core.NewThinkingEvent(conversationID, md.Key))

	start := time.Now()
	result, err := e.gateway.Complete(ctx, core.ModelCall{
		Model:       md,
		Messages:    core.ChatHistory(conv.Messages),
		Persona:     conv.Personas[md.Key],
		Temperature: conv.Temperature,
	})
	if err != nil {
		logging.LogModelCall(e.logger, md.Key, 0, time.Since(start), err)
		return
	}

	msg := core.NewAssistantMessage(result.MessageID, result.Content, md)
	if err := e.store.AppendMessage(conversationID, msg); err != nil {
		e.logger.Error("append failed", "conversation_id", conversationID, "model", md.Key, "error", err)
		return
	}

	if err := e.accountant.RecordReported(conversationID, result.Usage); err != nil {
		e.logger.Error("usage accounting failed", "conversation_id", conversationID, "model", md.Key, "error", err)
	}

	e.bus.Publish(core.NewMessageEvent(conversationID, msg))

	tokens := 0
	if result.Usage != nil {
		tokens = result.Usage.TotalTokens
	}
	logging.LogModelCall(e.logger, md.Key, tokens, time.Since(start), nil)
}

// invokeStreaming runs one streaming gateway call against a fixed history
// snapshot. Every increment is rebroadcast with the full content so far; the
// settled response is appended under the stream's stable message id and closed
// with an isComplete stream event. Usage is estimated from content length.
func (e *Engine) invokeStreaming(ctx context.Context, conversationID string, md core.ModelDescriptor, conv *core.Conversation, history []core.ChatMessage) {
	e.bus.Publish(core.NewThinkingEvent(conversationID, md.Key))

	start := time.Now()
	result, err := e.gateway.CompleteStreaming(ctx, core.ModelCall{
		Model:       md,
		Messages:    history,
		Persona:     conv.Personas[md.Key],
		Temperature: conv.Temperature,
	}, func(messageID, content string) {
		e.bus.Publish(core.NewStreamEvent(conversationID, md.Key, messageID, content, false))
	})
	if err != nil {
		logging.LogModelCall(e.logger, md.Key, 0, time.Since(start), err)
		return
	}

	msg := core.NewAssistantMessage(result.MessageID, result.Content, md)
	if err := e.store.AppendMessage(conversationID, msg); err != nil {
		e.logger.Error("append failed", "conversation_id", conversationID, "model", md.Key, "error", err)
		return
	}

	tokens, err := e.accountant.RecordEstimated(conversationID, result.Content)
	if err != nil {
		e.logger.Error("usage accounting failed", "conversation_id", conversationID, "model", md.Key, "error", err)
	}

	e.bus.Publish(core.NewStreamEvent(conversationID, md.Key, result.MessageID, result.Content, true))

	logging.LogModelCall(e.logger, md.Key, tokens, time.Since(start), nil)
}

// pace sleeps for the pacing delay unless the turn is cancelled first.
func pace(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
