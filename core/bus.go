package core

// Bus fans events out to all currently connected observers. Delivery is
// best-effort in publish order: no acknowledgment, no retry, no buffering for
// disconnected or slow subscribers. The bus performs no per-conversation
// routing.
type Bus interface {
	Publish(event Event)
}
