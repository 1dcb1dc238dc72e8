package primitive

import "github.com/svgfx/fegraph/pkg/ref"

// NoResult marks a node that declares no named result.
const NoResult = -1

// Node is one filter primitive in the pipeline. Nodes are value data: the
// graph replaces its whole node slice on each rebuild, and a Node holds no
// pointers into the document store beyond the opaque ID used to address it.
type Node struct {
	// ID is the document store handle for this primitive.
	ID string

	Kind Kind

	// In and In2 are the ordinary input slots. In2 is meaningful only for
	// kinds with TakesTwoInputs.
	In  ref.Reference
	In2 ref.Reference

	// MergeInputs carries one reference per merge sub-node. Only meaningful
	// for Kind == Merge.
	MergeInputs []ref.Reference

	// MergeIDs holds the store handle of each merge sub-node, parallel to
	// MergeInputs.
	MergeIDs []string

	// Result is the node's declared output id, or NoResult.
	Result int
}

// SlotCount returns the number of input slots currently carrying data: 2
// for two-input kinds, the live sub-node count for Merge, 1 otherwise.
func (n *Node) SlotCount() int {
	switch {
	case n.Kind == Merge:
		return len(n.MergeInputs)
	case n.Kind.TakesTwoInputs():
		return 2
	default:
		return 1
	}
}

// Slot returns the reference in the given slot. Out-of-range slots read as
// Unspecified so callers probing a corrupt document degrade instead of
// panicking.
func (n *Node) Slot(slot int) ref.Reference {
	if n.Kind == Merge {
		if slot < 0 || slot >= len(n.MergeInputs) {
			return ref.Unspecified()
		}
		return n.MergeInputs[slot]
	}
	switch slot {
	case 0:
		return n.In
	case 1:
		if n.Kind.TakesTwoInputs() {
			return n.In2
		}
	}
	return ref.Unspecified()
}

// setSlot overwrites the reference in the given slot. Out-of-range slots
// are ignored.
func (n *Node) setSlot(slot int, r ref.Reference) {
	if n.Kind == Merge {
		if slot >= 0 && slot < len(n.MergeInputs) {
			n.MergeInputs[slot] = r
		}
		return
	}
	switch slot {
	case 0:
		n.In = r
	case 1:
		if n.Kind.TakesTwoInputs() {
			n.In2 = r
		}
	}
}

// clone returns a deep copy of the node.
func (n *Node) clone() Node {
	c := *n
	if n.MergeInputs != nil {
		c.MergeInputs = append([]ref.Reference(nil), n.MergeInputs...)
		c.MergeIDs = append([]string(nil), n.MergeIDs...)
	}
	return c
}
