// Package editor owns the primitive graph's lifecycle. It holds the one
// subscription to the document store, rebuilds the graph wholesale on every
// observed change, and turns interactive edits (connect, disconnect,
// reorder, insert, remove) into coalesced, undoable store mutations.
package editor

import (
	"fmt"
	"sync"

	"github.com/svgfx/fegraph/pkg/docstore"
	"github.com/svgfx/fegraph/pkg/logging"
	"github.com/svgfx/fegraph/pkg/primitive"
	"github.com/svgfx/fegraph/pkg/ref"
)

// Editor is the graph owner. All methods must be called from one goroutine
// (the event loop); the mutex only guards the rebuild hooks against the
// serving layers reading the graph pointer.
type Editor struct {
	store docstore.Store
	sub   docstore.Subscription

	mu    sync.Mutex
	graph *primitive.Graph
	table *resultTable

	rebuildHooks []func(*primitive.Graph)
}

// New builds the initial graph from the store and subscribes to it. Close
// releases the subscription.
func New(store docstore.Store) *Editor {
	e := &Editor{store: store}
	e.rebuild()
	e.sub = store.Subscribe(func(c docstore.Change) {
		e.rebuild()
	})
	return e
}

// Close tears down the store subscription.
func (e *Editor) Close() {
	if e.sub != nil {
		e.sub.Close()
		e.sub = nil
	}
}

// Graph returns the current graph. The returned value is replaced, never
// mutated, on rebuild; holding it across document changes yields a stale
// but internally consistent snapshot.
func (e *Editor) Graph() *primitive.Graph {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graph
}

// Store exposes the underlying document store for undo/redo passthrough.
func (e *Editor) Store() docstore.Store {
	return e.store
}

// OnRebuild registers a hook invoked after every graph rebuild with the new
// graph. Hooks run synchronously on the mutating goroutine.
func (e *Editor) OnRebuild(fn func(*primitive.Graph)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rebuildHooks = append(e.rebuildHooks, fn)
}

func (e *Editor) rebuild() {
	nodes, table := buildNodes(e.store)
	g := primitive.New(nodes)

	e.mu.Lock()
	e.graph = g
	e.table = table
	hooks := e.rebuildHooks
	e.mu.Unlock()

	logging.Debug("graph rebuilt", "primitives", g.Len())
	for _, fn := range hooks {
		fn(g)
	}
}

// ResultName returns the attribute string for a result id from the last
// build, or "" if the id is unknown. Ids are only stable within one build;
// look them up against the same Graph snapshot they came from.
func (e *Editor) ResultName(id int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.table.names[id]
}

// freshResultName picks a "resultN" name no primitive currently declares or
// references.
func (e *Editor) freshResultName() string {
	used := make(map[string]bool)
	for _, id := range e.store.OrderedPrimitives() {
		for _, attr := range []string{attrIn, attrIn2, attrResult} {
			if v, ok := e.store.Attr(id, attr); ok {
				used[v] = true
			}
		}
		for _, child := range e.store.Children(id) {
			if v, ok := e.store.Attr(child, attrIn); ok {
				used[v] = true
			}
		}
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("result%d", n)
		if !used[name] {
			return name
		}
	}
}

// ensureResultName makes sure the node at the given position declares a
// result and returns its name, allocating and persisting a fresh one when
// absent. Must run inside a store batch.
func (e *Editor) ensureResultName(g *primitive.Graph, row int) (string, error) {
	n := g.Node(row)
	if n == nil {
		return "", fmt.Errorf("ensure result: no node at position %d", row)
	}
	id := docstore.NodeID(n.ID)
	if name, ok := e.store.Attr(id, attrResult); ok && name != "" {
		return name, nil
	}
	name := e.freshResultName()
	if err := e.store.SetAttr(id, attrResult, name); err != nil {
		return "", err
	}
	return name, nil
}

// setSlotAttr writes (value != nil) or clears (value == nil) the slot's
// reference in the store, using the given graph snapshot for addressing.
// Merge slots follow the commit rules: clearing an existing sub-node
// removes the sub-node entirely, and writing to the trailing "add" lane
// creates a new sub-node.
func (e *Editor) setSlotAttr(g *primitive.Graph, row, slot int, value *string) error {
	n := g.Node(row)
	if n == nil {
		return fmt.Errorf("set slot: no node at position %d", row)
	}

	if n.Kind == primitive.Merge {
		switch {
		case slot >= 0 && slot < len(n.MergeIDs):
			child := docstore.NodeID(n.MergeIDs[slot])
			if value == nil {
				return e.store.RemoveNode(child)
			}
			return e.store.SetAttr(child, attrIn, *value)
		case slot == len(n.MergeIDs) && value != nil:
			child, err := e.store.AppendChild(docstore.NodeID(n.ID), mergeNodeElement)
			if err != nil {
				return err
			}
			return e.store.SetAttr(child, attrIn, *value)
		default:
			return nil
		}
	}

	var attr string
	switch slot {
	case 0:
		attr = attrIn
	case 1:
		if !n.Kind.TakesTwoInputs() {
			return fmt.Errorf("set slot: node at %d has no second input", row)
		}
		attr = attrIn2
	default:
		return fmt.Errorf("set slot: slot %d out of range", slot)
	}

	id := docstore.NodeID(n.ID)
	if value == nil {
		return e.store.DelAttr(id, attr)
	}
	return e.store.SetAttr(id, attr, *value)
}

// clearSlotAttr removes the slot's reference without touching document
// structure. Reorder repair must not change the sub-node count, so unlike
// setSlotAttr's nil case a merge sub-node keeps its element and only loses
// its in attribute.
func (e *Editor) clearSlotAttr(g *primitive.Graph, row, slot int) error {
	n := g.Node(row)
	if n == nil {
		return fmt.Errorf("clear slot: no node at position %d", row)
	}
	if n.Kind == primitive.Merge {
		if slot < 0 || slot >= len(n.MergeIDs) {
			return nil
		}
		return e.store.DelAttr(docstore.NodeID(n.MergeIDs[slot]), attrIn)
	}
	attr := attrIn
	if slot == 1 && n.Kind.TakesTwoInputs() {
		attr = attrIn2
	} else if slot != 0 {
		return fmt.Errorf("clear slot: slot %d out of range", slot)
	}
	return e.store.DelAttr(docstore.NodeID(n.ID), attr)
}

// ConnectToSource sets the slot to an explicit standard source reference,
// as one undoable action.
func (e *Editor) ConnectToSource(row, slot, source int) error {
	if ref.SourceKeyword(source) == "" {
		return fmt.Errorf("connect: standard source %d out of range", source)
	}
	keyword := ref.SourceKeyword(source)
	return e.store.Do("Connect to source", func() error {
		return e.setSlotAttr(e.Graph(), row, slot, &keyword)
	})
}

// ConnectToNode points the slot at the result of the node at targetRow,
// declaring a result on the target first if it has none. The target must
// precede the origin; anything else is a disconnect at the session layer
// and an error here.
func (e *Editor) ConnectToNode(row, slot, targetRow int) error {
	if targetRow >= row || targetRow < 0 {
		return fmt.Errorf("connect: target %d does not precede node %d", targetRow, row)
	}
	return e.store.Do("Connect input", func() error {
		g := e.Graph()
		name, err := e.ensureResultName(g, targetRow)
		if err != nil {
			return err
		}
		return e.setSlotAttr(g, row, slot, &name)
	})
}

// Disconnect clears the slot's reference. For an existing merge sub-node
// this removes the sub-node.
func (e *Editor) Disconnect(row, slot int) error {
	return e.store.Do("Disconnect input", func() error {
		return e.setSlotAttr(e.Graph(), row, slot, nil)
	})
}

// MoveNode moves the primitive at position row to newIndex, then clears
// every reference the reorder turned into a forward reference. Reorder and
// repair are one undoable action.
func (e *Editor) MoveNode(row, newIndex int) error {
	g := e.Graph()
	n := g.Node(row)
	if n == nil {
		return fmt.Errorf("move: no node at position %d", row)
	}
	if newIndex < 0 || newIndex >= g.Len() {
		return fmt.Errorf("move: index %d out of range", newIndex)
	}

	return e.store.Do("Reorder primitive", func() error {
		if err := e.store.SetPosition(docstore.NodeID(n.ID), newIndex); err != nil {
			return err
		}
		// Re-project the reordered document and repair on the projection,
		// mirroring every cleared slot into the store.
		nodes, _ := buildNodes(e.store)
		fresh := primitive.New(nodes)
		for _, c := range primitive.Sanitize(fresh, newIndex) {
			logging.Debug("cleared forward reference",
				"node", c.NodeIndex, "slot", c.Slot)
			if err := e.clearSlotAttr(fresh, c.NodeIndex, c.Slot); err != nil {
				return err
			}
		}
		return nil
	})
}

// InsertPrimitive adds a new primitive of the given kind after position
// `after` (-1 prepends) and returns nil on success.
func (e *Editor) InsertPrimitive(kind primitive.Kind, after int) error {
	return e.store.Do("Add filter primitive", func() error {
		id, err := e.store.InsertPrimitive(after, kind.String())
		if err != nil {
			return err
		}
		if kind == primitive.Merge {
			// A merge is never slotless; give it one open input.
			if _, err := e.store.AppendChild(id, mergeNodeElement); err != nil {
				return err
			}
		}
		return nil
	})
}

// RemovePrimitive deletes the primitive at the given position. References
// to its result dangle and resolve to nothing, which keeps the document
// editable; they are not cleared.
func (e *Editor) RemovePrimitive(row int) error {
	n := e.Graph().Node(row)
	if n == nil {
		return fmt.Errorf("remove: no node at position %d", row)
	}
	return e.store.Do("Remove filter primitive", func() error {
		return e.store.RemoveNode(docstore.NodeID(n.ID))
	})
}

// DuplicatePrimitive inserts a copy of the primitive at the given position
// directly after it. The copy keeps its inputs but not the original's
// result name, which must stay unique.
func (e *Editor) DuplicatePrimitive(row int) error {
	n := e.Graph().Node(row)
	if n == nil {
		return fmt.Errorf("duplicate: no node at position %d", row)
	}
	src := docstore.NodeID(n.ID)
	return e.store.Do("Duplicate filter primitive", func() error {
		dup, err := e.store.InsertPrimitive(row, e.store.Element(src))
		if err != nil {
			return err
		}
		for _, name := range e.store.AttrNames(src) {
			if name == attrResult {
				continue
			}
			v, _ := e.store.Attr(src, name)
			if err := e.store.SetAttr(dup, name, v); err != nil {
				return err
			}
		}
		for _, child := range e.store.Children(src) {
			dupChild, err := e.store.AppendChild(dup, e.store.Element(child))
			if err != nil {
				return err
			}
			for _, name := range e.store.AttrNames(child) {
				v, _ := e.store.Attr(child, name)
				if err := e.store.SetAttr(dupChild, name, v); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// Undo reverts the last action.
func (e *Editor) Undo() bool { return e.store.Undo() }

// Redo reapplies the last undone action.
func (e *Editor) Redo() bool { return e.store.Redo() }

// CanUndo reports whether an action is available to revert.
func (e *Editor) CanUndo() bool { return e.store.CanUndo() }

// CanRedo reports whether an undone action is available to reapply.
func (e *Editor) CanRedo() bool { return e.store.CanRedo() }
