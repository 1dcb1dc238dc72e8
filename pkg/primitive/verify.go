package primitive

import (
	"fmt"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Verify checks the structural invariants the rest of the system relies on:
//
//  1. every resolved edge points strictly backward in position order,
//  2. the resolved edge set is acyclic,
//  3. declared result ids are pairwise distinct.
//
// It is a diagnostic backstop for tests and for documents arriving from
// outside; the sanitizer keeps interactive edits from ever violating it.
func Verify(g *Graph) error {
	seen := make(map[int]int)
	for i := range g.nodes {
		res := g.nodes[i].Result
		if res == NoResult {
			continue
		}
		if prev, dup := seen[res]; dup {
			return fmt.Errorf("duplicate result id %d declared at positions %d and %d", res, prev, i)
		}
		seen[res] = i
	}

	dg := simple.NewDirectedGraph()
	for i := 0; i < g.Len(); i++ {
		dg.AddNode(simple.Node(i))
	}

	for i := 0; i < g.Len(); i++ {
		for slot := 0; slot < g.InputCount(i); slot++ {
			res := g.Resolve(i, slot)

			var from int
			switch res.Kind {
			case Producer:
				from = res.NodeIndex
			case ImplicitPrevious:
				if res.NodeIndex < 0 {
					continue // base standard source
				}
				from = res.NodeIndex
			default:
				continue
			}

			if from >= i {
				return fmt.Errorf("node %d slot %d resolves forward to node %d", i, slot, from)
			}
			if from != i {
				dg.SetEdge(dg.NewEdge(simple.Node(from), simple.Node(i)))
			}
		}
	}

	if _, err := topo.Sort(dg); err != nil {
		return fmt.Errorf("resolved reference graph is cyclic: %w", err)
	}
	return nil
}
