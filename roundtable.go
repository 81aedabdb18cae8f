// Package roundtable provides a high-level façade over the orchestration core:
// a conversation store, a broadcast bus and the turn engine wired together.
// Most applications interact with this package by:
//  1. Creating a Roundtable via New() with a gateway (OpenRouter, Anthropic
//     or the mock), optionally overriding the in-memory defaults
//  2. Creating a conversation and subscribing to the event stream
//  3. Submitting turns and reacting to the broadcast events
//
// The façade delegates orchestration to engine.Engine while keeping setup
// ergonomics concise. All defaults are safe for local development and testing.
package roundtable

import (
	"context"

	"github.com/hupe1980/roundtable/bus"
	"github.com/hupe1980/roundtable/conversation"
	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/engine"
	"github.com/hupe1980/roundtable/logging"
)

// Options configures the Roundtable instance.
type Options struct {
	// Store defaults to an in-memory implementation.
	Store core.ConversationStore

	// Bus defaults to a best-effort broadcast bus. Must implement
	// core.Bus; supplying a *bus.Broadcast keeps Subscribe available.
	Bus *bus.Broadcast

	// Catalog defaults to core.DefaultCatalog.
	Catalog core.Catalog

	// Logger defaults to the NoOp logger.
	Logger logging.Logger

	// EngineOptions are applied to the underlying engine after the
	// façade-level defaults.
	EngineOptions []func(o *engine.Options)
}

// Roundtable aggregates the store, bus and engine behind one entry point.
type Roundtable struct {
	store  core.ConversationStore
	bus    *bus.Broadcast
	engine *engine.Engine
}

// New creates a Roundtable around the given gateway. Any unset collaborator
// is initialized with an in-memory implementation.
func New(gateway core.Gateway, optFns ...func(o *Options)) *Roundtable {
	opts := Options{
		Store:   conversation.NewInMemoryStore(),
		Catalog: core.DefaultCatalog(),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Bus == nil {
		opts.Bus = bus.New(func(o *bus.Options) {
			o.Logger = opts.Logger
		})
	}

	engineOpts := append([]func(o *engine.Options){func(o *engine.Options) {
		o.Catalog = opts.Catalog
		o.Logger = opts.Logger
	}}, opts.EngineOptions...)

	return &Roundtable{
		store:  opts.Store,
		bus:    opts.Bus,
		engine: engine.New(opts.Store, gateway, opts.Bus, engineOpts...),
	}
}

// CreateConversation starts a new conversation.
func (r *Roundtable) CreateConversation(params core.CreateParams) (*core.Conversation, error) {
	return r.store.Create(params)
}

// Subscribe attaches a new observer to the event stream. The returned cancel
// func disconnects it.
func (r *Roundtable) Subscribe() (<-chan core.Event, func()) {
	return r.bus.Subscribe()
}

// SubmitTurn records a user message and dispatches model responses
// asynchronously; progress arrives on subscribed channels.
func (r *Roundtable) SubmitTurn(ctx context.Context, conversationID, content string) (*core.Message, error) {
	return r.engine.SubmitTurn(ctx, conversationID, content)
}

// Engine exposes the underlying orchestration engine for regenerate, stop,
// reaction and vote operations.
func (r *Roundtable) Engine() *engine.Engine { return r.engine }

// Store exposes the underlying conversation store.
func (r *Roundtable) Store() core.ConversationStore { return r.store }

// Close waits for in-flight turns and disconnects all observers.
func (r *Roundtable) Close() {
	r.engine.Wait()
	r.bus.Close()
}
