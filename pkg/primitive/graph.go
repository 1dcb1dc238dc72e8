package primitive

import "github.com/svgfx/fegraph/pkg/ref"

// ResolutionKind classifies the outcome of resolving an input slot.
type ResolutionKind int

const (
	// Unresolved: the slot's reference cannot be mapped to a live producer
	// or standard source. Rendering shows no connector; editing stays
	// possible.
	Unresolved ResolutionKind = iota
	// Producer: the slot explicitly references an earlier primitive's
	// declared result.
	Producer
	// Standard: the slot explicitly references a standard source.
	Standard
	// ImplicitPrevious: the slot is unspecified and defaults to the
	// immediately preceding primitive, or to the base standard source when
	// the node is first in the pipeline.
	ImplicitPrevious
)

// Resolution is the concrete source an input slot maps to.
type Resolution struct {
	Kind ResolutionKind
	// NodeIndex is the producing node's position for Producer, or the
	// preceding node's position for ImplicitPrevious (-1 when the node is
	// first and the implicit default is the base standard source).
	NodeIndex int
	// Source is the standard source index for Standard.
	Source int
}

// Graph is the ordered primitive pipeline. It exclusively owns its node
// list; positions are slice indices.
type Graph struct {
	nodes []Node
}

// New builds a graph over the given nodes. The slice is copied; the graph
// does not alias the caller's memory.
func New(nodes []Node) *Graph {
	owned := make([]Node, len(nodes))
	for i := range nodes {
		owned[i] = nodes[i].clone()
	}
	return &Graph{nodes: owned}
}

// Len returns the number of primitives in the pipeline.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node at the given position, or nil if out of range.
func (g *Graph) Node(i int) *Node {
	if i < 0 || i >= len(g.nodes) {
		return nil
	}
	return &g.nodes[i]
}

// FindIndex returns the position of the node with the given store handle,
// or -1. Linear scan; pipelines are human-edited and small.
func (g *Graph) FindIndex(id string) int {
	for i := range g.nodes {
		if g.nodes[i].ID == id {
			return i
		}
	}
	return -1
}

// InputCount returns the number of input slots carrying data for the node
// at position i, or 0 when i is out of range.
func (g *Graph) InputCount(i int) int {
	n := g.Node(i)
	if n == nil {
		return 0
	}
	return n.SlotCount()
}

// RenderSlotCount is InputCount plus the trailing "add new input" lane a
// Merge node exposes to the renderer. The extra lane carries no data; it
// only exists as a drop target.
func (g *Graph) RenderSlotCount(i int) int {
	n := g.Node(i)
	if n == nil {
		return 0
	}
	if n.Kind == Merge {
		return len(n.MergeInputs) + 1
	}
	return n.SlotCount()
}

// Resolve maps the slot of the node at position i onto its concrete source.
// It never fails: dangling or malformed references degrade to Unresolved.
func (g *Graph) Resolve(i, slot int) Resolution {
	n := g.Node(i)
	if n == nil {
		return Resolution{Kind: Unresolved}
	}

	r := n.Slot(slot)
	switch r.Kind() {
	case ref.KindStandardSource:
		src, _ := r.Source()
		if src < 0 || src >= len(ref.Sources) {
			return Resolution{Kind: Unresolved}
		}
		return Resolution{Kind: Standard, Source: src}

	case ref.KindNamedResult:
		id, _ := r.Result()
		// Scan strictly before i in position order and keep the last match:
		// the closest preceding declaration shadows earlier ones.
		producer := -1
		for j := 0; j < i; j++ {
			if g.nodes[j].Result == id {
				producer = j
			}
		}
		if producer < 0 {
			return Resolution{Kind: Unresolved}
		}
		return Resolution{Kind: Producer, NodeIndex: producer}

	default:
		// Merge sub-nodes never default; an unset merge input is simply
		// unconnected.
		if n.Kind == Merge {
			return Resolution{Kind: Unresolved}
		}
		if slot >= n.SlotCount() {
			return Resolution{Kind: Unresolved}
		}
		// An unset in or in2 falls back to the previous primitive. For the
		// first primitive the implicit default is the base standard source,
		// reported with NodeIndex -1.
		return Resolution{Kind: ImplicitPrevious, NodeIndex: i - 1}
	}
}

// ResultIDs returns the set of result ids currently declared by any node.
func (g *Graph) ResultIDs() map[int]bool {
	ids := make(map[int]bool)
	for i := range g.nodes {
		if g.nodes[i].Result != NoResult {
			ids[g.nodes[i].Result] = true
		}
	}
	return ids
}

// FreeResultID returns the smallest non-negative result id no node declares.
func (g *Graph) FreeResultID() int {
	used := g.ResultIDs()
	for id := 0; ; id++ {
		if !used[id] {
			return id
		}
	}
}
