package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyflow/internal/action"
)

func TestReadFromFile_Valid(t *testing.T) {
	m, err := ReadFromFile("testdata/valid.csv")
	require.NoError(t, err)
	require.Len(t, m.Entries, 4)

	first := m.Entries[0]
	assert.Equal(t, "ASSIGN_STORY", first.Action)
	assert.Equal(t, "IMPLEMENT_STORY", first.NextAction)
	assert.Equal(t, "Hand the story to its assignee", first.Description)

	last := m.Entries[3]
	assert.Equal(t, "SEND_STORY_COMPLETE_NOTIFICATION", last.Action)
	assert.Empty(t, last.NextAction)
}

func TestReadFromFile_Minimal(t *testing.T) {
	m, err := ReadFromFile("testdata/minimal.csv")
	require.NoError(t, err)

	require.Len(t, m.Entries, 2)
	assert.Empty(t, m.Entries[0].Description, "description column is optional")
	assert.Equal(t, []string{"ASSIGN_STORY", "SEND_PULL_REQUEST_EVENT"}, m.Actions())
}

func TestReadFromFile_MissingColumn(t *testing.T) {
	_, err := ReadFromFile("testdata/missing_column.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: next_action")
}

func TestReadFromFile_NotFound(t *testing.T) {
	_, err := ReadFromFile("testdata/nope.csv")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open manifest")
}

func TestReadFromString(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []Entry
		wantErr string
	}{
		{
			name: "header is case insensitive and columns may be reordered",
			data: "Next_Action,ACTION\nB,A\n,B\n",
			want: []Entry{{Action: "A", NextAction: "B"}, {Action: "B"}},
		},
		{
			name: "whitespace is trimmed",
			data: "action, next_action\n  A ,  B\nB,\n",
			want: []Entry{{Action: "A", NextAction: "B"}, {Action: "B"}},
		},
		{
			name: "short rows read missing fields as empty",
			data: "action,next_action,description\nA\n",
			want: []Entry{{Action: "A"}},
		},
		{
			name:    "empty input",
			data:    "",
			wantErr: "failed to read manifest header",
		},
		{
			name:    "header only",
			data:    "action,next_action\n",
			wantErr: "contains no actions",
		},
		{
			name:    "row without action",
			data:    "action,next_action\n,B\n",
			wantErr: "line 2: action name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ReadFromString(tt.data)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Entries)
		})
	}
}

func TestManifest_Chain(t *testing.T) {
	m, err := ReadFromFile("testdata/valid.csv")
	require.NoError(t, err)

	chain, err := m.Chain()

	require.NoError(t, err)
	next, ok := chain.Next("ASSIGN_STORY")
	assert.True(t, ok)
	assert.Equal(t, action.Name("IMPLEMENT_STORY"), next)
	_, ok = chain.Next("SEND_STORY_COMPLETE_NOTIFICATION")
	assert.False(t, ok)
	assert.Equal(t, 4, chain.Len())
}

func TestManifest_Chain_Cycle(t *testing.T) {
	m, err := ReadFromFile("testdata/cycle.csv")
	require.NoError(t, err)

	_, err = m.Chain()

	require.Error(t, err)
	assert.True(t, errors.Is(err, action.ErrInvalidChain))
}

func TestManifest_Chain_Branching(t *testing.T) {
	m, err := ReadFromString("action,next_action\nA,B\nA,C\n")
	require.NoError(t, err)

	_, err = m.Chain()

	assert.ErrorIs(t, err, action.ErrInvalidChain)
}

func TestManifest_GetEntry(t *testing.T) {
	m, err := ReadFromFile("testdata/valid.csv")
	require.NoError(t, err)

	entry := m.GetEntry("IMPLEMENT_STORY")
	require.NotNil(t, entry)
	assert.Equal(t, "SEND_PULL_REQUEST_EVENT", entry.NextAction)

	assert.Nil(t, m.GetEntry("UNKNOWN"))
	assert.True(t, m.HasAction("ASSIGN_STORY"))
	assert.False(t, m.HasAction("UNKNOWN"))
}
