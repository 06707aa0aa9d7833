// Package store persists stories in a YAML file.
//
// The file holds a single list of stories:
//
//	stories:
//	  - key: 3f0c...
//	    name: Login page
//	    assignee: ann
//	    status: PULL_REQUEST
//
// Every operation reads the file from disk, and writes replace it atomically
// (write to a temp file, then rename). A [Store] serializes its own file
// access; callers that load, mutate and save a story must hold their own lock
// around that sequence.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"storyflow/internal/story"
)

// DefaultPath is the story file location used when none is configured.
const DefaultPath = "data/stories.yaml"

// storyFile is the on-disk layout.
type storyFile struct {
	Stories []*story.Story `yaml:"stories"`
}

// Store reads and writes stories in a YAML file.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a [Store] backed by path. An empty path selects [DefaultPath].
// The file is created on first save.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, now: time.Now}
}

// Path returns the story file location.
func (s *Store) Path() string { return s.path }

// Get returns the story stored under key, or an error wrapping
// [story.ErrStoryNotFound].
func (s *Store) Get(key string) (*story.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}
	for _, st := range f.Stories {
		if st.Key == key {
			return st, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", story.ErrStoryNotFound, key)
}

// Save inserts or replaces st by key. CreatedAt is set on first save and
// UpdatedAt on every save.
func (s *Store) Save(st *story.Story) error {
	if st == nil || st.Key == "" {
		return fmt.Errorf("cannot save story without a key")
	}
	if !st.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", st.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}

	now := s.now().UTC()
	if st.CreatedAt.IsZero() {
		st.CreatedAt = now
	}
	st.UpdatedAt = now

	replaced := false
	for i, existing := range f.Stories {
		if existing.Key == st.Key {
			f.Stories[i] = st
			replaced = true
			break
		}
	}
	if !replaced {
		f.Stories = append(f.Stories, st)
	}

	return s.write(f)
}

// List returns all stories ordered by creation time, then key.
func (s *Store) List() ([]*story.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return nil, err
	}

	out := append([]*story.Story(nil), f.Stories...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// read loads the story file. A missing file is an empty store.
func (s *Store) read() (*storyFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &storyFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read stories: %w", err)
	}

	var f storyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse stories: %w", err)
	}
	return &f, nil
}

func (s *Store) write(f *storyFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal stories: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	// Write to a temp file, then rename so readers never see a partial file.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write stories: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write stories: %w", err)
	}
	return nil
}
