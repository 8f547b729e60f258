// internal/engine/errors.go
package engine

import "fmt"

// Kind classifies a rejected action. Every rejection is recoverable: the game
// is left untouched and the transport layer decides how to surface it.
type Kind string

const (
	KindNoSuchGame      Kind = "no_such_game"
	KindNoSuchAction    Kind = "no_such_action"
	KindNotYourTurn     Kind = "not_your_turn"
	KindIllegalArgument Kind = "illegal_argument"
	KindWrongPhase      Kind = "wrong_phase"
)

// ActionError is the typed rejection returned by dispatch and by performers.
type ActionError struct {
	Kind   Kind
	Reason string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func actionErrf(kind Kind, format string, args ...interface{}) *ActionError {
	return &ActionError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// NoSuchGame rejects an action routed at a game id the dispatcher doesn't hold.
func NoSuchGame(format string, args ...interface{}) *ActionError {
	return actionErrf(KindNoSuchGame, format, args...)
}

// NoSuchAction rejects an action name outside the game type's performer set.
func NoSuchAction(format string, args ...interface{}) *ActionError {
	return actionErrf(KindNoSuchAction, format, args...)
}

// NotYourTurn rejects an action from a player out of turn.
func NotYourTurn(format string, args ...interface{}) *ActionError {
	return actionErrf(KindNotYourTurn, format, args...)
}

// IllegalArgument rejects a malformed or currently-illegal argument set.
func IllegalArgument(format string, args ...interface{}) *ActionError {
	return actionErrf(KindIllegalArgument, format, args...)
}

// WrongPhase rejects an action submitted outside the phase that permits it.
func WrongPhase(format string, args ...interface{}) *ActionError {
	return actionErrf(KindWrongPhase, format, args...)
}

// InvariantError signals corruption of engine state, such as the 108-card
// conservation invariant breaking. It is never handled locally: the dispatcher
// logs it loudly and propagates it to the caller.
type InvariantError struct {
	Reason string
	Err    error
}

func (e *InvariantError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invariant violation: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

func (e *InvariantError) Unwrap() error {
	return e.Err
}

// Invariantf wraps err as an InvariantError with a formatted reason.
// err may be nil when the violation is detected directly.
func Invariantf(err error, format string, args ...interface{}) *InvariantError {
	return &InvariantError{Reason: fmt.Sprintf(format, args...), Err: err}
}
