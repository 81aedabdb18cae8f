package conversation

import "errors"

var (
	// ErrNotFound is returned when no conversation exists for the given id.
	ErrNotFound = errors.New("conversation not found")

	// ErrMessageNotFound is returned when a message id does not exist within
	// the conversation.
	ErrMessageNotFound = errors.New("message not found")

	// ErrInvalidVote is returned for vote values outside 1..5.
	ErrInvalidVote = errors.New("vote value must be between 1 and 5")
)
