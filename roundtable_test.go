package roundtable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/engine"
	"github.com/hupe1980/roundtable/gateway"
)

func collectUntilComplete(t *testing.T, events <-chan core.Event) []core.Event {
	t.Helper()

	var collected []core.Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			collected = append(collected, ev)
			if ev.Type == core.EventComplete {
				return collected
			}
		case <-timeout:
			t.Fatal("timed out waiting for complete event")
		}
	}
}

func TestRoundtableEndToEnd(t *testing.T) {
	gw := gateway.NewMockGateway()
	gw.AddResponse("claude", "Let us start small.")
	gw.AddResponse("gpt5", "Agreed, then iterate.")

	rt := New(gw, func(o *Options) {
		o.EngineOptions = []func(o *engine.Options){func(o *engine.Options) {
			o.Pacing = time.Millisecond
		}}
	})
	defer rt.Close()

	conv, err := rt.CreateConversation(core.CreateParams{
		ActiveModels: []string{"claude", "gpt5"},
		Mode:         core.ModeSequential,
	})
	require.NoError(t, err)

	events, cancel := rt.Subscribe()
	defer cancel()

	userMsg, err := rt.SubmitTurn(context.Background(), conv.ID, "How should we launch?")
	require.NoError(t, err)
	assert.Equal(t, "How should we launch?", userMsg.Content)

	collected := collectUntilComplete(t, events)

	var types []core.EventType
	for _, ev := range collected {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []core.EventType{
		core.EventMessage,
		core.EventThinking,
		core.EventMessage,
		core.EventThinking,
		core.EventMessage,
		core.EventComplete,
	}, types)

	got, err := rt.Store().Get(conv.ID)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "Let us start small.", got.Messages[1].Content)
	assert.Equal(t, "Agreed, then iterate.", got.Messages[2].Content)
	assert.Positive(t, got.TotalTokens)
}

func TestRoundtableDefaults(t *testing.T) {
	rt := New(gateway.NewMockGateway())
	defer rt.Close()

	assert.NotNil(t, rt.Engine())
	assert.NotNil(t, rt.Store())

	_, ok := rt.Engine().Catalog().Lookup("claude")
	assert.True(t, ok)
}
