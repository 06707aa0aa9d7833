// Package workflow provides the issue-tracker workflow for storyflow.
//
// The workflow owns the lifecycle of a story from creation to completion. It
// saves new stories, drives them through the action chain with an
// [action.Executor], persists the mutated story after every run, and resumes
// paused stories when a review decision arrives.
//
// Key types:
//   - [Service] implements starting stories, reviewing them and resuming chains
//   - [Execution] is the result of one chain run for a story
//   - [StoryInput] is the data needed to create a story
//
// The [Service] requires a [Repository] for persistence. The store package
// provides the YAML file implementation.
package workflow

import (
	"storyflow/internal/action"
	"storyflow/internal/story"
)

// Execution is the outcome of running the chain for one story.
type Execution struct {
	// StoryKey identifies the story the chain ran against.
	StoryKey string `json:"storyKey"`

	// Status is the story status after the run.
	Status story.Status `json:"status"`

	// Steps is the ordered execution history of the run.
	Steps []action.Step[*story.Story] `json:"steps"`
}

// StoryInput holds the caller-supplied fields of a new story.
type StoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Assignee    string `json:"assignee"`
}
