package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"storyflow/internal/action"
	"storyflow/internal/story"
)

// Sentinel errors for workflow operations.
var (
	// ErrInvalidStory is returned when a new story lacks a name.
	ErrInvalidStory = errors.New("invalid story input")

	// ErrStoryNotInPullRequest is returned when a review arrives for a story
	// that is not waiting in PULL_REQUEST.
	ErrStoryNotInPullRequest = errors.New("story not in pull request")
)

// Repository is the interface for loading and persisting stories.
//
// Get returns an error wrapping [story.ErrStoryNotFound] when no story
// exists for the key.
type Repository interface {
	Get(key string) (*story.Story, error)
	Save(s *story.Story) error
}

// Service runs the issue-tracker workflow.
//
// Service serializes load, execute and save for all stories it handles, so
// concurrent requests never interleave mutations of the same story.
type Service struct {
	repo     Repository
	executor *action.Executor[*story.Story]
	start    action.Name
	newKey   func() string
	mu       sync.Mutex
}

// NewService creates a [Service]. Chains start at start; an empty start
// selects the first name of the executor's chain, or [story.AssignStory]
// when the chain is empty.
func NewService(repo Repository, executor *action.Executor[*story.Story], start action.Name) *Service {
	if start == "" {
		start = story.AssignStory
		if names := executor.Chain().Names(); len(names) > 0 {
			start = names[0]
		}
	}
	return &Service{
		repo:     repo,
		executor: executor,
		start:    start,
		newKey:   func() string { return uuid.NewString() },
	}
}

// StartAction returns the action new stories start at.
func (s *Service) StartAction() action.Name { return s.start }

// ActionNames returns the chain's action names in execution order.
func (s *Service) ActionNames() []string {
	names := s.executor.Chain().Names()
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.String()
	}
	return out
}

// Start creates a story from in, saves it and runs the chain from the start action.
func (s *Service) Start(ctx context.Context, in StoryInput) (*Execution, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidStory)
	}

	st := story.New(s.newKey(), name, strings.TrimSpace(in.Description), strings.TrimSpace(in.Assignee))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Save(st); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}
	return s.run(st, func() ([]action.Step[*story.Story], error) {
		return s.executor.Execute(ctx, s.start, st)
	})
}

// Execute runs the chain from the start action against an existing story.
func (s *Service) Execute(ctx context.Context, key string) (*Execution, error) {
	return s.withStory(key, func(st *story.Story) ([]action.Step[*story.Story], error) {
		return s.executor.Execute(ctx, s.start, st)
	})
}

// Resume continues the chain of an existing story after the step named after.
func (s *Service) Resume(ctx context.Context, key string, after action.Name) (*Execution, error) {
	return s.withStory(key, func(st *story.Story) ([]action.Step[*story.Story], error) {
		return s.executor.Resume(ctx, after, st)
	})
}

// Review records a pull request review and continues the workflow.
//
// The review value must be ACCEPTED, REJECTED or CHANGES_REQUIRED, otherwise
// Review returns [story.ErrInvalidReviewStatus]. The story must be in
// PULL_REQUEST, otherwise Review returns [ErrStoryNotInPullRequest].
//
//   - ACCEPTED resumes the chain after SEND_PULL_REQUEST_EVENT
//   - CHANGES_REQUIRED resumes after ASSIGN_STORY, so the story is
//     implemented again and a new pull request is sent
//   - REJECTED closes the story without running any action
func (s *Service) Review(ctx context.Context, key, review string) (*Execution, error) {
	decision, err := story.ParseReviewStatus(review)
	if err != nil {
		return nil, err
	}

	return s.withStory(key, func(st *story.Story) ([]action.Step[*story.Story], error) {
		if st.Status != story.StatusPullRequest {
			return nil, fmt.Errorf("%w: story %s is %s", ErrStoryNotInPullRequest, st.Key, st.Status)
		}
		st.ReviewStatus = decision

		switch decision {
		case story.ReviewAccepted:
			return s.executor.Resume(ctx, story.SendPullRequestEvent, st)
		case story.ReviewChangesRequired:
			return s.executor.Resume(ctx, story.AssignStory, st)
		default:
			if err := st.TransitionTo(story.StatusRejected); err != nil {
				return nil, err
			}
			return []action.Step[*story.Story]{}, nil
		}
	})
}

// withStory loads the story, applies fn and saves the result under the service lock.
func (s *Service) withStory(key string, fn func(*story.Story) ([]action.Step[*story.Story], error)) (*Execution, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.repo.Get(key)
	if err != nil {
		return nil, err
	}
	return s.run(st, func() ([]action.Step[*story.Story], error) { return fn(st) })
}

// run executes fn and persists st. The caller holds s.mu.
func (s *Service) run(st *story.Story, fn func() ([]action.Step[*story.Story], error)) (*Execution, error) {
	steps, err := fn()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(st); err != nil {
		return nil, fmt.Errorf("failed to save story: %w", err)
	}
	return &Execution{StoryKey: st.Key, Status: st.Status, Steps: steps}, nil
}
