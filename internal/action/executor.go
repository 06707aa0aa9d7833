package action

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"time"
)

// DefaultMaxSteps caps the number of steps a single run may take.
const DefaultMaxSteps = 64

// FailurePolicy decides what happens to the history of a run when an action
// fails unexpectedly.
type FailurePolicy int

const (
	// DiscardHistory drops the steps recorded earlier in the run and reports
	// only the RUNTIME-001 step.
	DiscardHistory FailurePolicy = iota

	// PreserveHistory appends the RUNTIME-001 step to the steps recorded so far.
	PreserveHistory
)

// String returns the configuration spelling of the policy.
func (p FailurePolicy) String() string {
	switch p {
	case DiscardHistory:
		return "discard"
	case PreserveHistory:
		return "preserve"
	default:
		return fmt.Sprintf("FailurePolicy(%d)", int(p))
	}
}

// ParseFailurePolicy parses "discard" or "preserve". An empty string selects
// [DiscardHistory].
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return DiscardHistory, nil
	case "preserve":
		return PreserveHistory, nil
	default:
		return DiscardHistory, fmt.Errorf("unknown failure policy %q (want discard or preserve)", s)
	}
}

// Observer is notified after every step an [Executor] records.
//
// Observers run synchronously on the executing goroutine and must return
// promptly. The metrics package provides a Prometheus implementation.
type Observer interface {
	ObserveStep(name Name, status Status, duration time.Duration)
}

// ObserverFunc adapts a function to the [Observer] interface.
type ObserverFunc func(name Name, status Status, duration time.Duration)

// ObserveStep calls f.
func (f ObserverFunc) ObserveStep(name Name, status Status, duration time.Duration) {
	f(name, status, duration)
}

// Option configures an [Executor].
type Option func(*settings)

type settings struct {
	logger    *slog.Logger
	policy    FailurePolicy
	maxSteps  int
	observers []Observer
}

// WithLogger sets the logger used to report unexpected action failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFailurePolicy sets the history policy for unexpected failures.
// The default is [DiscardHistory].
func WithFailurePolicy(p FailurePolicy) Option {
	return func(s *settings) { s.policy = p }
}

// WithMaxSteps caps the number of steps of a single run. Values below one
// select [DefaultMaxSteps].
func WithMaxSteps(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxSteps = n
		}
	}
}

// WithObserver adds a step observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(s *settings) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// Executor runs chains of actions against a target.
//
// The executor looks up each action in its [Registry], runs it, and continues
// with the successor declared by its [Chain] for as long as every step
// succeeds. WAITING, ERROR and a terminal SUCCESS all stop the run.
//
// An Executor is immutable after [NewExecutor] and safe for concurrent use;
// each call to [Executor.Execute] or [Executor.Resume] owns a private history.
// Callers that share a target between calls must serialize access to it.
type Executor[T any] struct {
	registry *Registry[T]
	chain    *Chain
	settings settings
}

// NewExecutor creates an [Executor] over registry and chain. A nil chain
// means no action has a successor.
func NewExecutor[T any](registry *Registry[T], chain *Chain, opts ...Option) *Executor[T] {
	s := settings{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy:   DiscardHistory,
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if registry == nil {
		registry = &Registry[T]{}
	}
	return &Executor[T]{registry: registry, chain: chain, settings: s}
}

// Chain returns the successor relation the executor follows.
func (e *Executor[T]) Chain() *Chain { return e.chain }

// FailurePolicy returns the configured failure policy.
func (e *Executor[T]) FailurePolicy() FailurePolicy { return e.settings.policy }

// Execute runs the chain starting at name and returns the ordered history.
//
// Execute returns [ErrInvalidArgument] when name is empty or target is nil.
// Every other outcome, including unknown actions and failing actions, is
// reported as a step in the returned history.
func (e *Executor[T]) Execute(ctx context.Context, name Name, target T) ([]Step[T], error) {
	if err := validate(name, target); err != nil {
		return nil, err
	}
	return e.run(ctx, name, target), nil
}

// Resume continues a chain after the step name.
//
// When name has a successor, Resume runs the chain from that successor exactly
// as [Executor.Execute] would. When name is terminal, nothing is left to run:
// Resume reports a single SUCCESS step for name carrying the target and
// invokes no action.
func (e *Executor[T]) Resume(ctx context.Context, name Name, target T) ([]Step[T], error) {
	if err := validate(name, target); err != nil {
		return nil, err
	}

	next, ok := e.chain.Next(name)
	if !ok {
		return []Step[T]{{Name: name, Result: SuccessWith(target)}}, nil
	}

	e.settings.logger.DebugContext(ctx, "continue with next action", "after", name, "action", next)
	return e.run(ctx, next, target), nil
}

// run drives the chain from start on a fresh runner.
func (e *Executor[T]) run(ctx context.Context, start Name, target T) []Step[T] {
	r := newRunner[T]()
	current := start

	for steps := 0; ; steps++ {
		if steps >= e.settings.maxSteps {
			res := Error[T](CodeChainTooLong, fmt.Sprintf("chain exceeded %d steps at action %s", e.settings.maxSteps, current))
			r.record(current, res)
			e.observe(current, res.Status, 0)
			break
		}

		a, ok := e.registry.Lookup(current)
		if !ok {
			res := Error[T](CodeActionNotFound, "Couldn't find action "+current.String())
			r.record(current, res)
			e.observe(current, res.Status, 0)
			break
		}

		started := time.Now()
		res, err := r.execute(ctx, a, target)
		elapsed := time.Since(started)

		if err != nil {
			e.settings.logger.ErrorContext(ctx, "error executing action", "action", current, "error", err)
			failed := Error[T](CodeRuntime, err.Error())
			e.observe(current, failed.Status, elapsed)
			if e.settings.policy == DiscardHistory {
				return []Step[T]{{Name: current, Result: failed}}
			}
			r.record(current, failed)
			break
		}
		e.observe(current, res.Status, elapsed)

		next, hasNext := e.chain.Next(current)
		if !res.IsSuccess() || !hasNext {
			break
		}
		current = next
	}

	return r.history.Steps()
}

func (e *Executor[T]) observe(name Name, status Status, d time.Duration) {
	for _, o := range e.settings.observers {
		o.ObserveStep(name, status, d)
	}
}

func validate(name Name, target any) error {
	if name == "" {
		return fmt.Errorf("%w: actionName must not be empty", ErrInvalidArgument)
	}
	if isNil(target) {
		return fmt.Errorf("%w: target must not be nil", ErrInvalidArgument)
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
