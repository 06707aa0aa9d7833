package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyflow/internal/action"
	"storyflow/internal/store"
	"storyflow/internal/story"
)

func setupTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	logger := slogt.New(t)
	registry, err := story.NewRegistry(logger)
	require.NoError(t, err)
	executor := action.NewExecutor(registry, story.DefaultChain(), action.WithLogger(logger))
	repo := store.New(filepath.Join(t.TempDir(), "stories.yaml"))

	svc := NewService(repo, executor, "")
	n := 0
	svc.newKey = func() string {
		n++
		return fmt.Sprintf("story-%d", n)
	}
	return svc, repo
}

func stepNames(steps []action.Step[*story.Story]) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Name.String()
	}
	return out
}

// startInReview creates a story and runs it up to the pull request pause.
func startInReview(t *testing.T, svc *Service) string {
	t.Helper()
	exec, err := svc.Start(context.Background(), StoryInput{Name: "Login page", Assignee: "ann"})
	require.NoError(t, err)
	require.Equal(t, story.StatusPullRequest, exec.Status)
	return exec.StoryKey
}

func TestNewService_Defaults(t *testing.T) {
	svc, _ := setupTestService(t)

	assert.Equal(t, story.AssignStory, svc.StartAction())
	assert.Equal(t, []string{
		"ASSIGN_STORY", "IMPLEMENT_STORY", "SEND_PULL_REQUEST_EVENT", "SEND_STORY_COMPLETE_NOTIFICATION",
	}, svc.ActionNames())
}

func TestService_Start(t *testing.T) {
	svc, repo := setupTestService(t)

	exec, err := svc.Start(context.Background(), StoryInput{Name: " Login page ", Description: "Build it", Assignee: "ann"})

	require.NoError(t, err)
	assert.Equal(t, "story-1", exec.StoryKey)
	assert.Equal(t, story.StatusPullRequest, exec.Status)
	assert.Equal(t, []string{"ASSIGN_STORY", "IMPLEMENT_STORY", "SEND_PULL_REQUEST_EVENT"}, stepNames(exec.Steps))
	assert.True(t, exec.Steps[2].Result.IsWaiting())

	saved, err := repo.Get("story-1")
	require.NoError(t, err)
	assert.Equal(t, "Login page", saved.Name)
	assert.Equal(t, story.StatusPullRequest, saved.Status)
}

func TestService_Start_RequiresName(t *testing.T) {
	svc, repo := setupTestService(t)

	_, err := svc.Start(context.Background(), StoryInput{Name: "  ", Assignee: "ann"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidStory))
	all, err := repo.List()
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is saved")
}

func TestService_Start_WithoutAssigneeStopsAtAssign(t *testing.T) {
	svc, repo := setupTestService(t)

	exec, err := svc.Start(context.Background(), StoryInput{Name: "Login page"})

	require.NoError(t, err)
	require.Len(t, exec.Steps, 1)
	assert.Equal(t, story.CodeMissingAssignee, exec.Steps[0].Result.Code)

	saved, err := repo.Get(exec.StoryKey)
	require.NoError(t, err)
	assert.Equal(t, story.StatusTodo, saved.Status, "story is saved even when the chain stops")
}

func TestService_Review(t *testing.T) {
	tests := []struct {
		name       string
		review     string
		wantSteps  []string
		wantStatus story.Status
	}{
		{
			name:       "accepted completes the story",
			review:     "ACCEPTED",
			wantSteps:  []string{"SEND_STORY_COMPLETE_NOTIFICATION"},
			wantStatus: story.StatusDone,
		},
		{
			name:       "changes required reimplements and reopens the pull request",
			review:     "CHANGES_REQUIRED",
			wantSteps:  []string{"IMPLEMENT_STORY", "SEND_PULL_REQUEST_EVENT"},
			wantStatus: story.StatusPullRequest,
		},
		{
			name:       "rejected closes the story without running actions",
			review:     "rejected",
			wantSteps:  []string{},
			wantStatus: story.StatusRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := setupTestService(t)
			key := startInReview(t, svc)

			exec, err := svc.Review(context.Background(), key, tt.review)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSteps, stepNames(exec.Steps))
			assert.Equal(t, tt.wantStatus, exec.Status)

			saved, err := repo.Get(key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, saved.Status)
		})
	}
}

func TestService_Review_Errors(t *testing.T) {
	svc, _ := setupTestService(t)
	key := startInReview(t, svc)

	_, err := svc.Review(context.Background(), key, "BAMBOOZLED")
	assert.ErrorIs(t, err, story.ErrInvalidReviewStatus)

	_, err = svc.Review(context.Background(), "idontexist", "ACCEPTED")
	assert.ErrorIs(t, err, story.ErrStoryNotFound)

	_, err = svc.Review(context.Background(), key, "ACCEPTED")
	require.NoError(t, err)
	_, err = svc.Review(context.Background(), key, "REJECTED")
	assert.ErrorIs(t, err, ErrStoryNotInPullRequest, "a completed story cannot be reviewed again")
}

func TestService_Resume(t *testing.T) {
	svc, _ := setupTestService(t)
	exec, err := svc.Start(context.Background(), StoryInput{Name: "Login page", Assignee: "ann"})
	require.NoError(t, err)
	_, err = svc.Review(context.Background(), exec.StoryKey, "ACCEPTED")
	require.NoError(t, err)

	resumed, err := svc.Resume(context.Background(), exec.StoryKey, story.SendStoryCompleteNotification)

	require.NoError(t, err)
	require.Len(t, resumed.Steps, 1)
	assert.Equal(t, "SEND_STORY_COMPLETE_NOTIFICATION", resumed.Steps[0].Name.String())
	assert.True(t, resumed.Steps[0].Result.IsSuccess())
	assert.Equal(t, story.StatusDone, resumed.Status)
}

func TestService_Execute_ExistingStory(t *testing.T) {
	svc, _ := setupTestService(t)
	exec, err := svc.Start(context.Background(), StoryInput{Name: "Login page"})
	require.NoError(t, err)

	again, err := svc.Execute(context.Background(), exec.StoryKey)

	require.NoError(t, err)
	require.Len(t, again.Steps, 1)
	assert.Equal(t, story.CodeMissingAssignee, again.Steps[0].Result.Code)
}

// failingRepo fails every save.
type failingRepo struct{}

func (failingRepo) Get(key string) (*story.Story, error) {
	return nil, fmt.Errorf("%w: %s", story.ErrStoryNotFound, key)
}

func (failingRepo) Save(*story.Story) error { return errors.New("disk full") }

func TestService_Start_SaveFailure(t *testing.T) {
	registry, err := story.NewRegistry(nil)
	require.NoError(t, err)
	svc := NewService(failingRepo{}, action.NewExecutor(registry, story.DefaultChain()), "")

	_, err = svc.Start(context.Background(), StoryInput{Name: "Login page", Assignee: "ann"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
