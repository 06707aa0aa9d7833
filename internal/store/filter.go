package store

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"

	"storyflow/internal/story"
)

// filterEnv exposes story fields to filter expressions.
//
// Available names: key, name, description, assignee, status, reviewStatus,
// createdAt, updatedAt. Example: status == "PULL_REQUEST" && assignee == "ann".
func filterEnv(st *story.Story) map[string]any {
	return map[string]any{
		"key":          st.Key,
		"name":         st.Name,
		"description":  st.Description,
		"assignee":     st.Assignee,
		"status":       string(st.Status),
		"reviewStatus": string(st.ReviewStatus),
		"createdAt":    st.CreatedAt,
		"updatedAt":    st.UpdatedAt,
	}
}

// Filter returns the stories for which the boolean expression where holds,
// in [Store.List] order. An empty expression returns every story.
func (s *Store) Filter(where string) ([]*story.Story, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(where) == "" {
		return all, nil
	}

	program, err := expr.Compile(where, expr.Env(filterEnv(&story.Story{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", where, err)
	}

	var out []*story.Story
	for _, st := range all {
		res, err := expr.Run(program, filterEnv(st))
		if err != nil {
			return nil, fmt.Errorf("filter %q on story %s: %w", where, st.Key, err)
		}
		if match, _ := res.(bool); match {
			out = append(out, st)
		}
	}
	return out, nil
}
