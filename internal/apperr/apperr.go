// Package apperr defines the error categories surfaced to API callers.
// Services wrap these sentinels with %w so handlers can map them to HTTP
// statuses via errors.Is without inspecting message text.
package apperr

import "errors"

var (
	// ErrNotFound indicates a conversation, message or referenced record is absent.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the caller is neither a participant of the
	// conversation nor holds the required moderator capability.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidState indicates the action is forbidden in the conversation's
	// current status, e.g. sending into a closed conversation.
	ErrInvalidState = errors.New("invalid state")

	// ErrValidation indicates missing or malformed required input.
	ErrValidation = errors.New("validation failed")

	// ErrConflict indicates a concurrent state transition won the race first.
	ErrConflict = errors.New("conflict")
)
