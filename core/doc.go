// Package core provides the foundational domain types and interfaces used by
// Roundtable. It defines the core abstractions for:
//
//   - Conversations (append-only message logs with per-model configuration)
//   - Messages (user / assistant / system entries with reactions and votes)
//   - Broadcast events (the typed records fanned out to observers)
//   - Modes (the interaction protocols governing how models respond to a turn)
//   - The model catalog (static descriptors of the available backends)
//   - Pluggable contracts for the conversation store, the model gateway and
//     the broadcast bus
//
// The package intentionally keeps implementation concerns (storage, engine
// orchestration, concrete gateways) out of scope, exposing small interfaces
// to enable custom backends and extensions.
package core
