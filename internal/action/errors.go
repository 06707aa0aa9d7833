package action

import "errors"

// Sentinel errors for the action engine.
var (
	// ErrInvalidArgument is returned by [Executor.Execute] and [Executor.Resume]
	// when the action name or target is missing. No action runs and no
	// history is produced.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDuplicateAction is returned by [NewRegistry] when two actions share a name.
	ErrDuplicateAction = errors.New("duplicate action name")

	// ErrInvalidChain is returned when a successor graph is not a set of simple paths.
	ErrInvalidChain = errors.New("invalid action chain")

	// ErrActionPanic wraps a panic recovered while an action was executing.
	ErrActionPanic = errors.New("action panicked")
)
