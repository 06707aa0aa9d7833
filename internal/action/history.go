package action

import (
	"context"
	"encoding/json"
	"fmt"
)

// Step is one entry of an execution history.
type Step[T any] struct {
	Name   Name
	Result Result[T]
}

// StepJSON is the wire shape of a [Step].
type StepJSON struct {
	ActionName   string     `json:"actionName"`
	ActionResult ResultJSON `json:"actionResult"`
}

// JSON converts the step to its wire shape.
func (s Step[T]) JSON() StepJSON {
	return StepJSON{ActionName: s.Name.String(), ActionResult: s.Result.JSON()}
}

// MarshalJSON encodes the step in its wire shape.
func (s Step[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.JSON())
}

// StepsJSON converts a history to its wire shape.
func StepsJSON[T any](steps []Step[T]) []StepJSON {
	out := make([]StepJSON, len(steps))
	for i, s := range steps {
		out[i] = s.JSON()
	}
	return out
}

// History is an insertion-ordered mapping from action name to result.
//
// Recording a name that is already present replaces its result and keeps
// its original position.
type History[T any] struct {
	steps []Step[T]
	index map[Name]int
}

// NewHistory returns an empty history.
func NewHistory[T any]() *History[T] {
	return &History[T]{index: make(map[Name]int)}
}

// Record stores result under name.
func (h *History[T]) Record(name Name, result Result[T]) {
	if i, ok := h.index[name]; ok {
		h.steps[i].Result = result
		return
	}
	h.index[name] = len(h.steps)
	h.steps = append(h.steps, Step[T]{Name: name, Result: result})
}

// Get returns the result recorded for name.
func (h *History[T]) Get(name Name) (Result[T], bool) {
	i, ok := h.index[name]
	if !ok {
		return Result[T]{}, false
	}
	return h.steps[i].Result, true
}

// Len returns the number of recorded steps.
func (h *History[T]) Len() int { return len(h.steps) }

// Steps returns a copy of the recorded steps in insertion order.
func (h *History[T]) Steps() []Step[T] {
	out := make([]Step[T], len(h.steps))
	copy(out, h.steps)
	return out
}

// runner executes single actions and records their results. One runner is
// created per Execute or Resume call and never shared.
type runner[T any] struct {
	history *History[T]
}

func newRunner[T any]() *runner[T] {
	return &runner[T]{history: NewHistory[T]()}
}

// execute runs a and records its result. Unexpected failures, including
// panics, are returned as errors and are not recorded.
func (r *runner[T]) execute(ctx context.Context, a Action[T], target T) (result Result[T], err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrActionPanic, p)
		}
	}()

	result, err = a.Execute(ctx, target)
	if err != nil {
		return Result[T]{}, err
	}
	r.history.Record(a.Name(), result)
	return result, nil
}

func (r *runner[T]) record(name Name, result Result[T]) {
	r.history.Record(name, result)
}
