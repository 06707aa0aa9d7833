// Package action implements the action-chaining engine.
//
// An [Action] is a named unit of work that mutates a caller-owned target and
// reports a [Result]. The [Executor] resolves actions by name through a
// [Registry], runs them one after another while each step succeeds and the
// [Chain] declares a successor, and returns the ordered execution history.
//
// Key types:
//   - [Action] and [Func] - the unit of work and a function adapter
//   - [Registry] - name lookup over the available actions
//   - [Chain] - validated successor relation between action names
//   - [Executor] - runs and resumes chains
//   - [Step] and [History] - the execution trace of one run
//
// Execution is synchronous on the caller's goroutine. A WAITING result is a
// value, not a suspension: the caller persists the target and later calls
// [Executor.Resume] to continue after the paused step.
package action

import "context"

// Action is an atomic, named unit of work.
//
// Execute mutates target in place and reports the modeled outcome as a
// [Result]. A non-nil error signals an unexpected failure (a defect rather
// than a business outcome); the executor converts it to a RUNTIME-001 step.
// Implementations must be stateless across invocations.
type Action[T any] interface {
	Name() Name
	Execute(ctx context.Context, target T) (Result[T], error)
}

// Func adapts a plain function to the [Action] interface.
type Func[T any] struct {
	name Name
	fn   func(ctx context.Context, target T) (Result[T], error)
}

// NewFunc returns an [Action] named name that delegates to fn.
func NewFunc[T any](name Name, fn func(ctx context.Context, target T) (Result[T], error)) *Func[T] {
	return &Func[T]{name: name, fn: fn}
}

// Name returns the action name.
func (f *Func[T]) Name() Name { return f.name }

// Execute calls the wrapped function.
func (f *Func[T]) Execute(ctx context.Context, target T) (Result[T], error) {
	return f.fn(ctx, target)
}
