package action

import (
	"fmt"
)

// Name identifies an action. Names double as keys in the execution history
// and as nodes of a [Chain].
type Name string

// String returns the name as a plain string.
func (n Name) String() string { return string(n) }

// Edge declares that To runs after From succeeds. An empty To marks From as
// the terminal step of its path.
type Edge struct {
	From Name
	To   Name
}

// Chain is the successor relation between action names.
//
// Every name has at most one successor and at most one predecessor, and the
// relation contains no cycles, so each workflow it describes is a simple path.
// Construct with [NewChain] or [NewChainFromEdges]; both validate the graph.
// A Chain is immutable and safe for concurrent use.
type Chain struct {
	// next maps a name to its successor. Terminal names are present with an empty value.
	next map[Name]Name

	// order holds every name in path order, paths in declaration order.
	order []Name
}

// NewChain builds a single linear chain from names in execution order.
//
// The default story chain is:
//
//	ASSIGN_STORY -> IMPLEMENT_STORY -> SEND_PULL_REQUEST_EVENT -> SEND_STORY_COMPLETE_NOTIFICATION
//
// A name that appears twice would close a cycle and is rejected with [ErrInvalidChain].
func NewChain(names ...Name) (*Chain, error) {
	edges := make([]Edge, len(names))
	for i, n := range names {
		edges[i] = Edge{From: n}
		if i+1 < len(names) {
			edges[i].To = names[i+1]
		}
	}
	return NewChainFromEdges(edges)
}

// MustChain is like [NewChain] but panics on an invalid chain. Use it only
// for chains that are fixed at compile time.
func MustChain(names ...Name) *Chain {
	c, err := NewChain(names...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewChainFromEdges builds a chain from explicit successor edges.
//
// Several disjoint paths may be declared. The edges are rejected with
// [ErrInvalidChain] when a name is empty, when a name declares two different
// successors (branching), when two names share a successor (merging), or when
// the edges form a cycle.
func NewChainFromEdges(edges []Edge) (*Chain, error) {
	c := &Chain{next: make(map[Name]Name)}
	hasPred := make(map[Name]bool)
	var declared []Name

	addNode := func(n Name) {
		if _, ok := c.next[n]; !ok {
			c.next[n] = ""
			declared = append(declared, n)
		}
	}

	for _, e := range edges {
		if e.From == "" {
			return nil, fmt.Errorf("%w: empty action name", ErrInvalidChain)
		}
		addNode(e.From)
		if e.To == "" {
			continue
		}
		if e.To == e.From {
			return nil, fmt.Errorf("%w: %s is its own successor", ErrInvalidChain, e.From)
		}
		if prev := c.next[e.From]; prev != "" && prev != e.To {
			return nil, fmt.Errorf("%w: %s branches to %s and %s", ErrInvalidChain, e.From, prev, e.To)
		}
		if hasPred[e.To] && c.next[e.From] != e.To {
			return nil, fmt.Errorf("%w: %s has more than one predecessor", ErrInvalidChain, e.To)
		}
		addNode(e.To)
		c.next[e.From] = e.To
		hasPred[e.To] = true
	}

	// Walk every path from its head. With no branching and no merging, any
	// name left unvisited sits on a cycle.
	visited := make(map[Name]bool, len(declared))
	for _, n := range declared {
		if hasPred[n] {
			continue
		}
		for cur := n; cur != ""; cur = c.next[cur] {
			visited[cur] = true
			c.order = append(c.order, cur)
		}
	}
	if len(visited) != len(declared) {
		for _, n := range declared {
			if !visited[n] {
				return nil, fmt.Errorf("%w: cycle through %s", ErrInvalidChain, n)
			}
		}
	}

	return c, nil
}

// Next returns the successor of n. The boolean is false when n is terminal
// or not part of the chain.
func (c *Chain) Next(n Name) (Name, bool) {
	if c == nil {
		return "", false
	}
	next := c.next[n]
	return next, next != ""
}

// Contains reports whether n is a node of the chain.
func (c *Chain) Contains(n Name) bool {
	if c == nil {
		return false
	}
	_, ok := c.next[n]
	return ok
}

// Names returns every name in path order.
func (c *Chain) Names() []Name {
	if c == nil {
		return nil
	}
	out := make([]Name, len(c.order))
	copy(out, c.order)
	return out
}

// Edges returns the successor edges in path order, including a terminal edge
// (empty To) for the last name of each path.
func (c *Chain) Edges() []Edge {
	if c == nil {
		return nil
	}
	out := make([]Edge, len(c.order))
	for i, n := range c.order {
		out[i] = Edge{From: n, To: c.next[n]}
	}
	return out
}

// Len returns the number of names in the chain.
func (c *Chain) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}
