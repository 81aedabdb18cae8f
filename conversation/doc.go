// Package conversation houses concrete implementations of the
// core.ConversationStore. The interface itself (and the Conversation struct)
// live in the core package to centralize domain contracts; keeping only
// implementations here prevents higher level packages (engine, synthesis)
// from depending on concrete storage.
package conversation
