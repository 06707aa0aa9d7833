package action

import (
	"errors"
	"fmt"
)

// Registry holds the actions available to an [Executor].
//
// Lookup is a linear scan, which is fine for the handful of steps a workflow
// has. A Registry is read-only after [NewRegistry] returns.
type Registry[T any] struct {
	actions []Action[T]
}

// NewRegistry creates a [Registry] from the given actions.
//
// Every action must be non-nil and carry a non-empty name. Two actions with
// the same name are rejected with [ErrDuplicateAction]; all problems are
// reported together.
func NewRegistry[T any](actions ...Action[T]) (*Registry[T], error) {
	var errs []error
	seen := make(map[Name]bool, len(actions))

	for i, a := range actions {
		if a == nil {
			errs = append(errs, fmt.Errorf("action %d is nil", i))
			continue
		}
		name := a.Name()
		if name == "" {
			errs = append(errs, fmt.Errorf("action %d has an empty name", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateAction, name))
			continue
		}
		seen[name] = true
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	list := make([]Action[T], len(actions))
	copy(list, actions)
	return &Registry[T]{actions: list}, nil
}

// Lookup returns the action registered under name.
func (r *Registry[T]) Lookup(name Name) (Action[T], bool) {
	for _, a := range r.actions {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// Names returns the registered action names in registration order.
func (r *Registry[T]) Names() []Name {
	names := make([]Name, len(r.actions))
	for i, a := range r.actions {
		names[i] = a.Name()
	}
	return names
}
