package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/roundtable/conversation"
	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/gateway"
	"github.com/hupe1980/roundtable/usage"
)

// recorderBus captures every published event in order.
type recorderBus struct {
	mu     sync.Mutex
	events []core.Event
}

func (b *recorderBus) Publish(event core.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = append(b.events, event)
}

func (b *recorderBus) Events() []core.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := make([]core.Event, len(b.events))
	copy(events, b.events)

	return events
}

func (b *recorderBus) ofType(t core.EventType) []core.Event {
	var filtered []core.Event
	for _, e := range b.Events() {
		if e.Type == t {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

var _ core.Bus = (*recorderBus)(nil)

type fixture struct {
	store  *conversation.InMemoryStore
	gw     *gateway.MockGateway
	bus    *recorderBus
	engine *Engine
}

func newFixture(t *testing.T, optFns ...func(o *Options)) *fixture {
	t.Helper()

	store := conversation.NewInMemoryStore()
	gw := gateway.NewMockGateway()
	bus := &recorderBus{}

	optFns = append([]func(o *Options){func(o *Options) {
		o.Pacing = time.Millisecond
	}}, optFns...)

	return &fixture{
		store:  store,
		gw:     gw,
		bus:    bus,
		engine: New(store, gw, bus, optFns...),
	}
}

func (f *fixture) create(t *testing.T, mode core.Mode, activeModels ...string) *core.Conversation {
	t.Helper()

	conv, err := f.store.Create(core.CreateParams{ActiveModels: activeModels, Mode: mode})
	require.NoError(t, err)

	return conv
}

func assistantMessages(conv *core.Conversation) []core.Message {
	var out []core.Message
	for _, m := range conv.Messages {
		if m.Role == core.RoleAssistant {
			out = append(out, m)
		}
	}
	return out
}

func TestSubmitTurnUnknownConversation(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.SubmitTurn(context.Background(), "nope", "hello")
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestSubmitTurnSequentialEventOrder(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude", "gpt5")

	f.gw.AddResponse("claude", "First reply.")
	f.gw.AddResponse("gpt5", "Second reply.")

	userMsg, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, core.RoleUser, userMsg.Role)

	f.engine.Wait()

	events := f.bus.Events()
	require.Len(t, events, 6)

	assert.Equal(t, core.EventMessage, events[0].Type)
	assert.Equal(t, core.RoleUser, events[0].Message.Role)
	assert.Equal(t, core.EventThinking, events[1].Type)
	assert.Equal(t, "claude", events[1].Model)
	assert.Equal(t, core.EventMessage, events[2].Type)
	assert.Equal(t, "claude", events[2].Message.ModelKey)
	assert.Equal(t, core.EventThinking, events[3].Type)
	assert.Equal(t, "gpt5", events[3].Model)
	assert.Equal(t, core.EventMessage, events[4].Type)
	assert.Equal(t, "gpt5", events[4].Message.ModelKey)
	assert.Equal(t, core.EventComplete, events[5].Type)

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "First reply.", got.Messages[1].Content)
	assert.Equal(t, "Second reply.", got.Messages[2].Content)
}

func TestSubmitTurnSequentialLaterModelsSeeEarlierReplies(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude", "gpt5")

	f.gw.AddResponse("claude", "An idea from Claude.")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	f.engine.Wait()

	calls := f.gw.Calls()
	require.Len(t, calls, 2)

	// The second call's history must contain the first call's attributed reply.
	var seen bool
	for _, m := range calls[1].Messages {
		if m.Role == "assistant" && strings.Contains(m.Content, "[Claude]: An idea from Claude.") {
			seen = true
		}
	}
	assert.True(t, seen)
}

func TestFacilitatorFamilyRunsSequentially(t *testing.T) {
	for _, mode := range []core.Mode{core.ModeFacilitator, core.ModeSocratic, core.ModeDebateRounds} {
		f := newFixture(t)
		conv := f.create(t, mode, "claude", "gpt5")

		_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
		require.NoError(t, err)

		f.engine.Wait()

		var types []core.EventType
		for _, e := range f.bus.Events() {
			types = append(types, e.Type)
		}
		assert.Equal(t, []core.EventType{
			core.EventMessage,
			core.EventThinking,
			core.EventMessage,
			core.EventThinking,
			core.EventMessage,
			core.EventComplete,
		}, types, "mode %s", mode)
	}
}

func TestSubmitTurnParallelStreaming(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeParallel, "claude", "gpt5")

	f.gw.AddResponse("claude", "abc")
	f.gw.AddResponse("gpt5", "xyz")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	f.engine.Wait()

	// Streaming monotonicity per message id; the last event per id is complete.
	lastByID := map[string]core.Event{}
	for _, e := range f.bus.ofType(core.EventStream) {
		if prev, ok := lastByID[e.MessageID]; ok {
			assert.True(t, strings.HasPrefix(e.Content, prev.Content))
		}
		lastByID[e.MessageID] = e
	}
	require.Len(t, lastByID, 2)
	for _, e := range lastByID {
		require.NotNil(t, e.IsComplete)
		assert.True(t, *e.IsComplete)
	}

	assert.Len(t, f.bus.ofType(core.EventThinking), 2)
	assert.Len(t, f.bus.ofType(core.EventComplete), 1)

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, assistantMessages(got), 2)

	// Persisted messages reuse the stream's stable message id.
	for _, m := range assistantMessages(got) {
		_, ok := lastByID[m.ID]
		assert.True(t, ok)
	}
}

func TestSubmitTurnMentionFiltering(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeParallel, "claude", "gpt5", "gemini")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "@gpt5 what do you think?")
	require.NoError(t, err)

	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)

	replies := assistantMessages(got)
	require.Len(t, replies, 1)
	assert.Equal(t, "gpt5", replies[0].ModelKey)
}

func TestSubmitTurnNoRespondersStillCompletes(t *testing.T) {
	f := newFixture(t)
	// Active key absent from the catalog resolves to zero responders.
	conv := f.create(t, core.ModeParallel, "retired-model")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 1)
	assert.Len(t, f.bus.ofType(core.EventComplete), 1)
}

func TestTurnBasedRotation(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeTurnBased, "claude", "gpt5", "gemini")

	var order []string
	for i := 0; i < 4; i++ {
		_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "go")
		require.NoError(t, err)
		f.engine.Wait()

		got, err := f.store.Get(conv.ID)
		require.NoError(t, err)

		replies := assistantMessages(got)
		require.Len(t, replies, i+1)
		order = append(order, replies[i].ModelKey)
	}

	assert.Equal(t, []string{"claude", "gpt5", "gemini", "claude"}, order)
	assert.Len(t, f.bus.ofType(core.EventComplete), 4)
}

func TestFailedResponderIsSkipped(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude", "gpt5")

	f.gw.Fail("claude", errors.New("upstream unavailable"))
	f.gw.AddResponse("gpt5", "Still here.")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)

	replies := assistantMessages(got)
	require.Len(t, replies, 1)
	assert.Equal(t, "gpt5", replies[0].ModelKey)
	assert.Len(t, f.bus.ofType(core.EventComplete), 1)
}

func TestUsageAccountingSequential(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude", "gpt5")

	// Mock usage reports ceil(len/4): 1 token then 2 tokens.
	f.gw.AddResponse("claude", "aaaa")
	f.gw.AddResponse("gpt5", "bbbbbbbb")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalTokens)
	assert.InDelta(t, 3*usage.DefaultRate, got.TotalCost, 1e-12)
}

func TestUsageAccountingParallelEstimates(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeParallel, "claude")

	f.gw.AddResponse("claude", "abcdefghij") // ceil(10/4) = 3 tokens estimated

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalTokens)
	assert.InDelta(t, 3*usage.DefaultRate, got.TotalCost, 1e-12)
}

func TestRegenerate(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude")

	f.gw.AddResponse("claude", "Take one.")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	f.engine.Wait()

	f.gw.AddResponse("claude", "Take two.")

	require.NoError(t, f.engine.Regenerate(context.Background(), conv.ID))
	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, core.RoleUser, got.Messages[0].Role)
	assert.Equal(t, "Take two.", got.Messages[1].Content)
}

func TestRegenerateWithoutUserMessage(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude")

	err := f.engine.Regenerate(context.Background(), conv.ID)
	assert.ErrorIs(t, err, core.ErrNoUserMessage)
}

// blockingGateway parks every call until its context is cancelled.
type blockingGateway struct {
	started chan struct{}
}

func (g *blockingGateway) Complete(ctx context.Context, _ core.ModelCall) (*core.CallResult, error) {
	close(g.started)
	<-ctx.Done()
	return nil, ctx.Err()
}

func (g *blockingGateway) CompleteStreaming(ctx context.Context, call core.ModelCall, _ core.StreamFunc) (*core.CallResult, error) {
	return g.Complete(ctx, call)
}

func TestStopTurnCancelsInFlightWork(t *testing.T) {
	store := conversation.NewInMemoryStore()
	gw := &blockingGateway{started: make(chan struct{})}
	bus := &recorderBus{}
	eng := New(store, gw, bus, func(o *Options) {
		o.Pacing = time.Millisecond
	})

	conv, err := store.Create(core.CreateParams{ActiveModels: []string{"claude"}, Mode: core.ModeSequential})
	require.NoError(t, err)

	_, err = eng.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)

	<-gw.started
	assert.True(t, eng.StopTurn(conv.ID))

	eng.Wait()

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	assert.Empty(t, assistantMessages(got))
	assert.Len(t, bus.ofType(core.EventComplete), 1)
}

func TestStopTurnImmediatelyAfterSubmit(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude")

	// The cancel func is registered before SubmitTurn returns, so an
	// immediate stop must find the turn even if it has not started running.
	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	assert.True(t, f.engine.StopTurn(conv.ID))

	f.engine.Wait()
	assert.Len(t, f.bus.ofType(core.EventComplete), 1)
}

func TestStopTurnReachesQueuedTurns(t *testing.T) {
	store := conversation.NewInMemoryStore()
	gw := &blockingGateway{started: make(chan struct{})}
	bus := &recorderBus{}
	eng := New(store, gw, bus, func(o *Options) {
		o.Pacing = time.Millisecond
	})

	conv, err := store.Create(core.CreateParams{ActiveModels: []string{"claude"}, Mode: core.ModeSequential})
	require.NoError(t, err)

	_, err = eng.SubmitTurn(context.Background(), conv.ID, "first")
	require.NoError(t, err)
	<-gw.started

	// Second turn queues behind the in-flight one; one stop cancels both.
	_, err = eng.SubmitTurn(context.Background(), conv.ID, "second")
	require.NoError(t, err)
	assert.True(t, eng.StopTurn(conv.ID))

	eng.Wait()

	got, err := store.Get(conv.ID)
	require.NoError(t, err)
	assert.Empty(t, assistantMessages(got))
	assert.Len(t, bus.ofType(core.EventComplete), 2)
	assert.False(t, eng.StopTurn(conv.ID))
}

func TestStopTurnWithoutActiveTurn(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.engine.StopTurn("whatever"))
}

func TestReactPublishesEvent(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)
	msgID := got.Messages[0].ID

	for i := 0; i < 3; i++ {
		reactions, err := f.engine.React(conv.ID, msgID, "👍")
		require.NoError(t, err)
		assert.Equal(t, i+1, reactions["👍"])
	}

	events := f.bus.ofType(core.EventReaction)
	require.Len(t, events, 3)
	assert.Equal(t, 3, events[2].Reactions["👍"])
}

func TestVotePublishesEvent(t *testing.T) {
	f := newFixture(t)
	conv := f.create(t, core.ModeSequential, "claude")

	_, err := f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	f.engine.Wait()

	got, err := f.store.Get(conv.ID)
	require.NoError(t, err)
	msgID := got.Messages[0].ID

	votes, avg, err := f.engine.Vote(conv.ID, msgID, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, votes)
	assert.InDelta(t, 4.0, avg, 1e-12)

	votes, avg, err = f.engine.Vote(conv.ID, msgID, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 2}, votes)
	assert.InDelta(t, 3.0, avg, 1e-12)

	events := f.bus.ofType(core.EventVote)
	require.Len(t, events, 2)
	assert.InDelta(t, 3.0, events[1].AvgVote, 1e-12)
}

func TestPersonaAndTemperatureReachGateway(t *testing.T) {
	f := newFixture(t)

	conv, err := f.store.Create(core.CreateParams{
		ActiveModels: []string{"claude"},
		Mode:         core.ModeSequential,
		Personas:     map[string]string{"claude": "You are the skeptic."},
		Temperature:  0.9,
	})
	require.NoError(t, err)

	_, err = f.engine.SubmitTurn(context.Background(), conv.ID, "hello")
	require.NoError(t, err)
	f.engine.Wait()

	calls := f.gw.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "You are the skeptic.", calls[0].Persona)
	assert.InDelta(t, 0.9, calls[0].Temperature, 1e-12)
}
