// Package story defines the tracked story entity and the actions that move
// it through the issue-tracking workflow.
//
// The default workflow chain is:
//
//	ASSIGN_STORY -> IMPLEMENT_STORY -> SEND_PULL_REQUEST_EVENT -> SEND_STORY_COMPLETE_NOTIFICATION
//
// SEND_PULL_REQUEST_EVENT returns WAITING: the chain pauses until a review
// decision resumes it.
package story

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for story handling.
var (
	// ErrStoryNotFound is returned when no story exists for a key.
	ErrStoryNotFound = errors.New("story not found")

	// ErrInvalidReviewStatus is returned for review values other than
	// ACCEPTED, REJECTED and CHANGES_REQUIRED.
	ErrInvalidReviewStatus = errors.New("invalid review status")

	// ErrIllegalTransition is returned when a status change is not allowed.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Status is the workflow state of a story.
type Status string

// Story statuses.
const (
	StatusTodo        Status = "TODO"
	StatusAssigned    Status = "ASSIGNED"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusPullRequest Status = "PULL_REQUEST"
	StatusDone        Status = "DONE"
	StatusRejected    Status = "REJECTED"
)

// transitions lists the statuses reachable from each status.
var transitions = map[Status][]Status{
	StatusTodo:        {StatusAssigned},
	StatusAssigned:    {StatusAssigned, StatusInProgress, StatusPullRequest},
	StatusInProgress:  {StatusPullRequest},
	StatusPullRequest: {StatusInProgress, StatusDone, StatusRejected},
}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusAssigned, StatusInProgress, StatusPullRequest, StatusDone, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether a story in status s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReviewStatus is the outcome of a pull request review.
type ReviewStatus string

// Review outcomes.
const (
	ReviewAccepted        ReviewStatus = "ACCEPTED"
	ReviewRejected        ReviewStatus = "REJECTED"
	ReviewChangesRequired ReviewStatus = "CHANGES_REQUIRED"
)

// ReviewStatuses lists every valid review outcome.
var ReviewStatuses = []ReviewStatus{ReviewAccepted, ReviewRejected, ReviewChangesRequired}

// ParseReviewStatus parses a review outcome, ignoring case and surrounding space.
func ParseReviewStatus(s string) (ReviewStatus, error) {
	r := ReviewStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range ReviewStatuses {
		if r == valid {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidReviewStatus, s)
}

// Story is the mutable target the workflow actions operate on.
type Story struct {
	Key          string       `yaml:"key" json:"storyKey"`
	Name         string       `yaml:"name" json:"name"`
	Description  string       `yaml:"description,omitempty" json:"description,omitempty"`
	Assignee     string       `yaml:"assignee,omitempty" json:"assignee,omitempty"`
	Status       Status       `yaml:"status" json:"status"`
	ReviewStatus ReviewStatus `yaml:"review_status,omitempty" json:"reviewStatus,omitempty"`
	CreatedAt    time.Time    `yaml:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `yaml:"updated_at" json:"updatedAt"`
}

// New returns a story in status TODO.
func New(key, name, description, assignee string) *Story {
	return &Story{
		Key:         key,
		Name:        name,
		Description: description,
		Assignee:    assignee,
		Status:      StatusTodo,
	}
}

// TransitionTo moves the story to next, or returns [ErrIllegalTransition].
func (s *Story) TransitionTo(next Status) error {
	if !s.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s.Status, next)
	}
	s.Status = next
	return nil
}
