// Package graph renders action chains as Graphviz DOT documents.
package graph

import (
	"fmt"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"storyflow/internal/action"
)

// DefaultName is the graph name used when none is given.
const DefaultName = "storyflow"

// Render returns the DOT source of chain. Every action becomes a box node and
// every successor an edge; terminal actions are drawn with a double border.
func Render(chain *action.Chain, name string) (string, error) {
	g, err := Build(chain, name)
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

// Build returns chain as a directed gographviz graph.
func Build(chain *action.Chain, name string) (*gographviz.Graph, error) {
	if name == "" {
		name = DefaultName
	}

	g := gographviz.NewGraph()
	if err := g.SetName(strconv.Quote(name)); err != nil {
		return nil, fmt.Errorf("failed to name graph: %w", err)
	}
	if err := g.SetDir(true); err != nil {
		return nil, fmt.Errorf("failed to make graph directed: %w", err)
	}
	if err := g.AddAttr(g.Name, "rankdir", "LR"); err != nil {
		return nil, fmt.Errorf("failed to set rankdir: %w", err)
	}

	for _, e := range chain.Edges() {
		attrs := map[string]string{"shape": "box"}
		if e.To == "" {
			attrs["peripheries"] = "2"
		}
		if err := g.AddNode(g.Name, nodeID(e.From), attrs); err != nil {
			return nil, fmt.Errorf("failed to add node %s: %w", e.From, err)
		}
	}

	for _, e := range chain.Edges() {
		if e.To == "" {
			continue
		}
		if err := g.AddEdge(nodeID(e.From), nodeID(e.To), true, nil); err != nil {
			return nil, fmt.Errorf("failed to add edge %s -> %s: %w", e.From, e.To, err)
		}
	}

	return g, nil
}

// nodeID quotes n so that any action name is a valid DOT identifier.
func nodeID(n action.Name) string {
	return strconv.Quote(n.String())
}
