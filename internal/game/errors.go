package game

import "errors"

var (
	// ErrInvalidInput is returned for a non-alphabetic character, a secret or
	// attempt of the wrong length, or an unknown slot. Nothing is mutated.
	ErrInvalidInput = errors.New("invalid input")

	// ErrIllegalTransition is returned by Submit when the session is terminal
	// or the active row is incomplete. Callers treat it as a no-op.
	ErrIllegalTransition = errors.New("illegal transition")

	// ErrCorruptState is returned by Restore when a persisted history cannot
	// have been produced by play.
	ErrCorruptState = errors.New("corrupt persisted state")
)
