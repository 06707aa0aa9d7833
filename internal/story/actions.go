package story

import (
	"context"
	"fmt"
	"log/slog"

	"storyflow/internal/action"
	"storyflow/internal/logging"
)

// Action names of the story workflow.
const (
	AssignStory                   action.Name = "ASSIGN_STORY"
	ImplementStory                action.Name = "IMPLEMENT_STORY"
	SendPullRequestEvent          action.Name = "SEND_PULL_REQUEST_EVENT"
	SendStoryCompleteNotification action.Name = "SEND_STORY_COMPLETE_NOTIFICATION"
)

// Business error codes reported by the story actions.
const (
	CodeIllegalTransition = "STORY-001"
	CodeMissingAssignee   = "STORY-002"
	CodeNotAccepted       = "STORY-003"
)

// DefaultActionNames returns the default workflow order.
func DefaultActionNames() []action.Name {
	return []action.Name{AssignStory, ImplementStory, SendPullRequestEvent, SendStoryCompleteNotification}
}

// DefaultChain returns the default workflow chain.
func DefaultChain() *action.Chain {
	return action.MustChain(DefaultActionNames()...)
}

// Actions returns every story action. Actions log through logger; a nil
// logger discards output.
func Actions(logger *slog.Logger) []action.Action[*Story] {
	if logger == nil {
		logger = logging.Discard()
	}
	return []action.Action[*Story]{
		&AssignAction{logger: logger},
		&ImplementAction{logger: logger},
		&SendPullRequestAction{logger: logger},
		&CompleteAction{logger: logger},
	}
}

// NewRegistry returns a registry holding every story action.
func NewRegistry(logger *slog.Logger) (*action.Registry[*Story], error) {
	return action.NewRegistry(Actions(logger)...)
}

func transitionError(err error) action.Result[*Story] {
	return action.Error[*Story](CodeIllegalTransition, err.Error())
}

// AssignAction hands the story to its assignee.
type AssignAction struct {
	logger *slog.Logger
}

// Name returns [AssignStory].
func (a *AssignAction) Name() action.Name { return AssignStory }

// Execute moves the story to ASSIGNED. A story without an assignee fails with STORY-002.
func (a *AssignAction) Execute(ctx context.Context, s *Story) (action.Result[*Story], error) {
	if s.Assignee == "" {
		return action.Error[*Story](CodeMissingAssignee, fmt.Sprintf("Story %s has no assignee", s.Name)), nil
	}
	if err := s.TransitionTo(StatusAssigned); err != nil {
		return transitionError(err), nil
	}
	a.logger.InfoContext(ctx, "story assigned", "story", s.Name, "assignee", s.Assignee, "status", s.Status)
	return action.SuccessWith(s), nil
}

// ImplementAction starts or restarts implementation work.
type ImplementAction struct {
	logger *slog.Logger
}

// Name returns [ImplementStory].
func (a *ImplementAction) Name() action.Name { return ImplementStory }

// Execute moves the story to IN_PROGRESS.
func (a *ImplementAction) Execute(ctx context.Context, s *Story) (action.Result[*Story], error) {
	if err := s.TransitionTo(StatusInProgress); err != nil {
		return transitionError(err), nil
	}
	a.logger.InfoContext(ctx, "story in progress", "story", s.Name, "status", s.Status)
	return action.SuccessWith(s), nil
}

// SendPullRequestAction opens a pull request and pauses the chain for review.
type SendPullRequestAction struct {
	logger *slog.Logger
}

// Name returns [SendPullRequestEvent].
func (a *SendPullRequestAction) Name() action.Name { return SendPullRequestEvent }

// Execute moves the story to PULL_REQUEST, clears any earlier review
// decision and returns WAITING.
func (a *SendPullRequestAction) Execute(ctx context.Context, s *Story) (action.Result[*Story], error) {
	if err := s.TransitionTo(StatusPullRequest); err != nil {
		return transitionError(err), nil
	}
	s.ReviewStatus = ""
	a.logger.InfoContext(ctx, "pull request sent", "story", s.Name, "status", s.Status)
	a.logger.InfoContext(ctx, "waiting for pull request review", "story", s.Name)
	return action.Waiting[*Story](), nil
}

// CompleteAction closes an accepted story and notifies about it.
type CompleteAction struct {
	logger *slog.Logger
}

// Name returns [SendStoryCompleteNotification].
func (a *CompleteAction) Name() action.Name { return SendStoryCompleteNotification }

// Execute moves an accepted story to DONE.
func (a *CompleteAction) Execute(ctx context.Context, s *Story) (action.Result[*Story], error) {
	if s.Status == StatusPullRequest && s.ReviewStatus != ReviewAccepted {
		return action.Error[*Story](CodeNotAccepted, fmt.Sprintf("Story %s has not been accepted", s.Name)), nil
	}
	if err := s.TransitionTo(StatusDone); err != nil {
		return transitionError(err), nil
	}
	a.logger.InfoContext(ctx, "story completed", "story", s.Name, "status", s.Status)
	return action.SuccessWith(s), nil
}
