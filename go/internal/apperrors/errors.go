// Package apperrors defines the engine error taxonomy. Every failure an
// engine can surface maps to a stable code/message pair suitable for
// direct display.
package apperrors

import "errors"

// Code is a stable machine-readable error code.
type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidState      Code = "INVALID_STATE"
	CodeNotYourTurn       Code = "NOT_YOUR_TURN"
	CodeAlreadyDrafted    Code = "ALREADY_DRAFTED"
	CodeInvalidOwnership  Code = "INVALID_OWNERSHIP"
	CodeStaleTrade        Code = "STALE_TRADE"
	CodeWindowClosed      Code = "WINDOW_CLOSED"
	CodeOwnershipConflict Code = "OWNERSHIP_CONFLICT"
)

// Error is a terminal engine error. Engines wrap these with %w so callers
// can test with errors.Is while keeping request context in the message.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any error carrying the same code.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

var (
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "the referenced entity does not exist"}
	ErrInvalidState      = &Error{Code: CodeInvalidState, Message: "the operation is not allowed in the current state"}
	ErrNotYourTurn       = &Error{Code: CodeNotYourTurn, Message: "it is not your turn to pick"}
	ErrAlreadyDrafted    = &Error{Code: CodeAlreadyDrafted, Message: "this prospect has already been drafted"}
	ErrInvalidOwnership  = &Error{Code: CodeInvalidOwnership, Message: "the trade references a player the proposer does not control"}
	ErrStaleTrade        = &Error{Code: CodeStaleTrade, Message: "this trade is no longer valid - rosters have changed"}
	ErrWindowClosed      = &Error{Code: CodeWindowClosed, Message: "the waiver claim window for this player is closed"}
	ErrOwnershipConflict = &Error{Code: CodeOwnershipConflict, Message: "player ownership changed during the operation"}
)

// CodeOf extracts the taxonomy code from err, or "" when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
