package engine

import (
	"context"
	"sync"
	"time"

	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/logging"
	"github.com/hupe1980/roundtable/usage"
)

// DefaultPacing is the delay between completions in the sequential mode
// family. It keeps multi-model exchanges readable instead of dumping every
// reply at once.
const DefaultPacing = 1500 * time.Millisecond

// Options configure the Engine.
type Options struct {
	// Catalog is the static model catalog mentions and active keys resolve
	// against. Defaults to core.DefaultCatalog.
	Catalog core.Catalog
	// Logger receives orchestration diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
	// Pacing is the delay between sequential completions. Defaults to
	// DefaultPacing.
	Pacing time.Duration
	// Accountant overrides the default usage accountant built on the store.
	Accountant *usage.Accountant
}

// Engine is the orchestration core. It owns no conversation state itself;
// everything lives in the injected store, and observers learn about progress
// through the injected bus.
type Engine struct {
	store      core.ConversationStore
	gateway    core.Gateway
	bus        core.Bus
	catalog    core.Catalog
	accountant *usage.Accountant
	logger     logging.Logger
	pacing     time.Duration

	mu          sync.Mutex
	turnLocks   map[string]*sync.Mutex
	activeTurns map[string]map[int]context.CancelFunc
	nextTurn    int

	wg sync.WaitGroup
}

// New constructs an Engine around the given store, gateway and bus.
func New(store core.ConversationStore, gateway core.Gateway, bus core.Bus, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Catalog: core.DefaultCatalog(),
		Logger:  logging.NoOpLogger{},
		Pacing:  DefaultPacing,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Accountant == nil {
		opts.Accountant = usage.New(store)
	}

	return &Engine{
		store:       store,
		gateway:     gateway,
		bus:         bus,
		catalog:     opts.Catalog,
		accountant:  opts.Accountant,
		logger:      opts.Logger,
		pacing:      opts.Pacing,
		turnLocks:   make(map[string]*sync.Mutex),
		activeTurns: make(map[string]map[int]context.CancelFunc),
	}
}

// Catalog returns the model catalog the engine resolves keys against.
func (e *Engine) Catalog() core.Catalog { return e.catalog }

// SubmitTurn records and broadcasts the user message, then dispatches model
// responses asynchronously. It returns as soon as the user message is
// persisted; everything else is observed via the bus, terminated by exactly
// one complete event. Turns against the same conversation run one at a time.
func (e *Engine) SubmitTurn(ctx context.Context, conversationID, content string) (*core.Message, error) {
	conv, err := e.store.Get(conversationID)
	if err != nil {
		return nil, err
	}

	userMsg := core.NewUserMessage(content)
	if err := e.store.AppendMessage(conversationID, userMsg); err != nil {
		return nil, err
	}
	e.bus.Publish(core.NewMessageEvent(conversationID, userMsg))

	responders := ResolveResponders(e.catalog, content, conv.ActiveModels)

	e.logger.Info("turn submitted",
		"conversation_id", conversationID,
		"mode", string(conv.Mode),
		"responders", len(responders),
	)

	e.startTurn(ctx, conversationID, conv.Mode, responders)

	return &userMsg, nil
}

// Regenerate truncates the log back to the last user message and re-dispatches
// that turn. The anchor message itself is kept.
func (e *Engine) Regenerate(ctx context.Context, conversationID string) error {
	conv, err := e.store.Get(conversationID)
	if err != nil {
		return err
	}

	anchor, ok := conv.LastUserMessage()
	if !ok {
		return core.ErrNoUserMessage
	}

	if err := e.store.TruncateAfter(conversationID, anchor.ID); err != nil {
		return err
	}

	responders := ResolveResponders(e.catalog, anchor.Content, conv.ActiveModels)

	e.logger.Info("turn regenerated",
		"conversation_id", conversationID,
		"anchor_id", anchor.ID,
		"responders", len(responders),
	)

	e.startTurn(ctx, conversationID, conv.Mode, responders)

	return nil
}

// StopTurn cancels the conversation's in-flight turn and any turns queued
// behind it. Responses that settled before the cancellation took effect stay
// in the log. Returns whether any turn was actually cancelled.
func (e *Engine) StopTurn(conversationID string) bool {
	e.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(e.activeTurns[conversationID]))
	for _, cancel := range e.activeTurns[conversationID] {
		cancels = append(cancels, cancel)
	}
	e.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	return len(cancels) > 0
}

// React increments a reaction count and broadcasts the updated map.
func (e *Engine) React(conversationID, messageID, emoji string) (map[string]int, error) {
	reactions, err := e.store.React(conversationID, messageID, emoji)
	if err != nil {
		return nil, err
	}
	e.bus.Publish(core.NewReactionEvent(conversationID, messageID, reactions))
	return reactions, nil
}

// Vote appends a 1..5 rating and broadcasts the updated list plus its mean.
func (e *Engine) Vote(conversationID, messageID string, value int) ([]int, float64, error) {
	votes, avg, err := e.store.Vote(conversationID, messageID, value)
	if err != nil {
		return nil, 0, err
	}
	e.bus.Publish(core.NewVoteEvent(conversationID, messageID, votes, avg))
	return votes, avg, nil
}

// Wait blocks until every in-flight turn has settled. Intended for graceful
// shutdown and tests.
func (e *Engine) Wait() { e.wg.Wait() }

// startTurn runs the mode strategy on its own goroutine. The turn context is
// detached from the caller's (the synchronous ack must not cancel the async
// work) but carries its values, and is cancellable via StopTurn. The cancel
// func is registered before this returns, so a StopTurn issued right after
// SubmitTurn reaches the turn even while it is still queued behind another.
func (e *Engine) startTurn(ctx context.Context, conversationID string, mode core.Mode, responders []core.ModelDescriptor) {
	turnCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	turnID := e.registerCancel(conversationID, cancel)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer cancel()
		defer e.unregisterCancel(conversationID, turnID)

		lock := e.turnLock(conversationID)
		lock.Lock()
		defer lock.Unlock()

		e.runTurn(turnCtx, conversationID, mode, responders)
	}()
}

// runTurn executes the strategy and always closes the turn with exactly one
// complete event, even when cancelled or when no responder settles.
func (e *Engine) runTurn(ctx context.Context, conversationID string, mode core.Mode, responders []core.ModelDescriptor) {
	defer e.bus.Publish(core.NewCompleteEvent(conversationID))

	if len(responders) == 0 {
		return
	}

	strategyFor(mode).run(ctx, e, conversationID, responders)
}

func (e *Engine) turnLock(conversationID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.turnLocks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		e.turnLocks[conversationID] = lock
	}
	return lock
}

func (e *Engine) registerCancel(conversationID string, cancel context.CancelFunc) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextTurn++
	turns, ok := e.activeTurns[conversationID]
	if !ok {
		turns = make(map[int]context.CancelFunc)
		e.activeTurns[conversationID] = turns
	}
	turns[e.nextTurn] = cancel

	return e.nextTurn
}

func (e *Engine) unregisterCancel(conversationID string, turnID int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	turns := e.activeTurns[conversationID]
	delete(turns, turnID)
	if len(turns) == 0 {
		delete(e.activeTurns, conversationID)
	}
}
