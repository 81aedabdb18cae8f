// Package engine implements the turn orchestration core. Given one user
// submission it resolves the responding model set from @mentions, executes the
// conversation's mode strategy against the gateway, appends settled responses
// to the store and announces every transition on the broadcast bus. Turns
// against the same conversation are serialized; an in-flight turn can be
// cancelled with StopTurn.
package engine
