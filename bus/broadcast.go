// Package bus provides the broadcast fan-out channel delivering typed events
// to all connected observers. Delivery is best-effort: disconnected
// subscribers receive nothing and a subscriber that cannot keep up has
// events dropped rather than blocking the publisher.
package bus

import (
	"sync"

	"github.com/hupe1980/roundtable/core"
	"github.com/hupe1980/roundtable/logging"
)

// Options configure a Broadcast instance.
type Options struct {
	// BufferSize sets the per-subscriber channel buffer. Once full, further
	// events for that subscriber are dropped until it drains.
	BufferSize int
	// Logger records dropped-event diagnostics. Defaults to NoOp.
	Logger logging.Logger
}

// Broadcast is an explicitly constructed pub/sub hub with a defined
// lifecycle: empty at startup, torn down via Close. It implements core.Bus
// and is safe for concurrent use.
type Broadcast struct {
	mu          sync.RWMutex
	subscribers map[int]chan core.Event
	nextID      int
	closed      bool

	bufferSize int
	logger     logging.Logger
}

// New constructs an empty broadcast hub.
func New(optFns ...func(o *Options)) *Broadcast {
	opts := Options{
		BufferSize: 64,
		Logger:     logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Broadcast{
		subscribers: make(map[int]chan core.Event),
		bufferSize:  opts.BufferSize,
		logger:      opts.Logger,
	}
}

// Publish delivers the event to every currently connected subscriber in
// publish order. A slow subscriber's event is dropped, never retried.
func (b *Broadcast) Publish(event core.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for id, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			b.logger.Warn("dropping event for slow subscriber", "subscriber", id, "type", string(event.Type))
		}
	}
}

// Subscribe registers a new observer. The returned cancel func disconnects
// the observer and closes its channel; it is safe to call more than once.
func (b *Broadcast) Subscribe() (<-chan core.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan core.Event, b.bufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subscribers[id]; ok {
				delete(b.subscribers, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// SubscriberCount reports the number of connected observers.
func (b *Broadcast) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close disconnects all subscribers. Subsequent publishes are discarded and
// subsequent subscriptions receive an already-closed channel.
func (b *Broadcast) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subscribers {
		delete(b.subscribers, id)
		close(ch)
	}
}
