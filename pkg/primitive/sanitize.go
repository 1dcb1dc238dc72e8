package primitive

import "github.com/svgfx/fegraph/pkg/ref"

// Clear records one slot reference removed by Sanitize, so the caller can
// mirror the change into the document store as part of the same undoable
// action.
type Clear struct {
	NodeIndex int
	Slot      int
}

// Sanitize restores the no-forward-reference invariant after the node at
// position moved changed position (reorder, insert, or delete of a
// neighbor). Two directions need repair:
//
//   - nodes now before moved may still reference moved's result, which was
//     legal at moved's old position but is a forward reference now;
//   - moved may still reference results of nodes now after it.
//
// Offending slots are cleared to Unspecified, per slot: in, in2 when
// present, and each merge sub-node. The pass is idempotent.
func Sanitize(g *Graph, moved int) []Clear {
	m := g.Node(moved)
	if m == nil {
		return nil
	}

	var cleared []Clear
	for i := range g.nodes {
		if i == moved {
			continue
		}
		if i < moved {
			cleared = append(cleared, clearReferencesTo(g, i, m.Result)...)
		} else {
			cleared = append(cleared, clearReferencesTo(g, moved, g.nodes[i].Result)...)
		}
	}
	return cleared
}

// clearReferencesTo clears every slot of the node at position i that
// references the given result id. A node with no declared result (NoResult)
// matches nothing.
func clearReferencesTo(g *Graph, i, result int) []Clear {
	if result == NoResult {
		return nil
	}

	n := g.Node(i)
	var cleared []Clear
	for slot := 0; slot < n.SlotCount(); slot++ {
		if id, ok := n.Slot(slot).Result(); ok && id == result {
			n.setSlot(slot, ref.Unspecified())
			cleared = append(cleared, Clear{NodeIndex: i, Slot: slot})
		}
	}
	return cleared
}
