// Package manifest reads action chain definition files.
//
// A chain manifest is a CSV file that declares which action runs after which.
// It lets a deployment reorder or shorten the workflow without a rebuild.
//
// CSV format:
//
//	action,next_action,description
//	ASSIGN_STORY,IMPLEMENT_STORY,Hand the story to its assignee
//	IMPLEMENT_STORY,SEND_PULL_REQUEST_EVENT,Start implementation
//	SEND_PULL_REQUEST_EVENT,SEND_STORY_COMPLETE_NOTIFICATION,Open a pull request and wait for review
//	SEND_STORY_COMPLETE_NOTIFICATION,,Close the story
//
// An empty next_action marks a terminal step. Columns are matched by header
// name, case-insensitively; description is optional.
package manifest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"storyflow/internal/action"
)

// Entry represents a single row in the chain manifest.
type Entry struct {
	// Action is the action name of this step.
	Action string

	// NextAction is the action that runs after Action succeeds.
	// Empty for terminal steps.
	NextAction string

	// Description is a human-readable note about the step.
	Description string
}

// Manifest holds all entries parsed from a manifest CSV file.
type Manifest struct {
	// Entries are the rows in file order.
	Entries []Entry
}

// ReadFromFile reads and parses a chain manifest CSV file.
func ReadFromFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()

	return readFromReader(f)
}

// ReadFromString parses a chain manifest from a CSV string.
func ReadFromString(data string) (*Manifest, error) {
	return readFromReader(strings.NewReader(data))
}

func readFromReader(r io.Reader) (*Manifest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}

	colIndex := buildColumnIndex(header)
	if err := validateColumns(colIndex); err != nil {
		return nil, err
	}

	var entries []Entry
	lineNum := 1 // header was line 1
	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest line %d: %w", lineNum, err)
		}

		entry := Entry{
			Action:      getField(record, colIndex, "action"),
			NextAction:  getField(record, colIndex, "next_action"),
			Description: getField(record, colIndex, "description"),
		}

		if entry.Action == "" {
			return nil, fmt.Errorf("manifest line %d: action name is required", lineNum)
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("manifest contains no actions")
	}

	return &Manifest{Entries: entries}, nil
}

// requiredColumns are the columns that must be present in the manifest CSV.
var requiredColumns = []string{"action", "next_action"}

func buildColumnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return index
}

func validateColumns(colIndex map[string]int) error {
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			return fmt.Errorf("manifest missing required column: %s", col)
		}
	}
	return nil
}

func getField(record []string, colIndex map[string]int, column string) string {
	idx, ok := colIndex[column]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// Chain builds the validated successor relation declared by the manifest.
// It returns an error wrapping [action.ErrInvalidChain] for branching,
// merging or cyclic manifests.
func (m *Manifest) Chain() (*action.Chain, error) {
	edges := make([]action.Edge, len(m.Entries))
	for i, e := range m.Entries {
		edges[i] = action.Edge{From: action.Name(e.Action), To: action.Name(e.NextAction)}
	}
	chain, err := action.NewChainFromEdges(edges)
	if err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return chain, nil
}

// Actions returns the unique action names in file order.
func (m *Manifest) Actions() []string {
	seen := make(map[string]bool)
	var actions []string
	for _, e := range m.Entries {
		if !seen[e.Action] {
			seen[e.Action] = true
			actions = append(actions, e.Action)
		}
	}
	return actions
}

// GetEntry returns the first entry for the given action name.
// Returns nil if not found.
func (m *Manifest) GetEntry(name string) *Entry {
	for _, e := range m.Entries {
		if e.Action == name {
			return &e
		}
	}
	return nil
}

// HasAction returns true if the manifest declares the given action.
func (m *Manifest) HasAction(name string) bool {
	return m.GetEntry(name) != nil
}
