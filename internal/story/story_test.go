package story

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusAssigned, StatusInProgress, StatusPullRequest, StatusDone, StatusRejected} {
		assert.True(t, s.IsValid(), "status %s should be valid", s)
	}
	assert.False(t, Status("in-progress").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestStory_TransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"todo to assigned", StatusTodo, StatusAssigned, false},
		{"assigned to in progress", StatusAssigned, StatusInProgress, false},
		{"assigned straight to pull request", StatusAssigned, StatusPullRequest, false},
		{"in progress to pull request", StatusInProgress, StatusPullRequest, false},
		{"pull request back to in progress", StatusPullRequest, StatusInProgress, false},
		{"pull request to done", StatusPullRequest, StatusDone, false},
		{"pull request to rejected", StatusPullRequest, StatusRejected, false},
		{"todo to done", StatusTodo, StatusDone, true},
		{"done to in progress", StatusDone, StatusInProgress, true},
		{"rejected to assigned", StatusRejected, StatusAssigned, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Story{Status: tt.from}
			err := s.TransitionTo(tt.to)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrIllegalTransition))
				assert.Equal(t, tt.from, s.Status, "status is unchanged on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, s.Status)
		})
	}
}

func TestParseReviewStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ReviewStatus
		wantErr bool
	}{
		{"ACCEPTED", ReviewAccepted, false},
		{"rejected", ReviewRejected, false},
		{" CHANGES_REQUIRED ", ReviewChangesRequired, false},
		{"BAMBOOZLED", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReviewStatus(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidReviewStatus)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew(t *testing.T) {
	s := New("key-1", "Login page", "Build the login page", "ann")

	assert.Equal(t, "key-1", s.Key)
	assert.Equal(t, StatusTodo, s.Status)
	assert.Empty(t, s.ReviewStatus)
}
