package core

import "errors"

var (
	// ErrEmptyModelSelection is returned when a conversation would be created
	// with no active models. Raised at configuration time, before any dispatch.
	ErrEmptyModelSelection = errors.New("empty model selection")

	// ErrUnknownMode is returned when a mode string is not a member of the
	// closed mode set.
	ErrUnknownMode = errors.New("unknown mode")

	// ErrNoUserMessage is returned when an operation needs a user message
	// anchor but the conversation has none.
	ErrNoUserMessage = errors.New("no user message in conversation")
)
