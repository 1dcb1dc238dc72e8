// Package docstore defines the document store the graph core edits through:
// an ordered list of primitive elements with string attributes and child
// elements, individually undoable mutations, and synchronous change
// notification. The core never holds document state beyond the opaque
// NodeID handles this package hands out.
package docstore

// NodeID is an opaque handle to one element in the document.
type NodeID string

// ChangeKind classifies a document mutation for observers.
type ChangeKind int

const (
	// ChangeAttr: an attribute was set or removed on a node.
	ChangeAttr ChangeKind = iota
	// ChangeStructure: a node or child was inserted, removed, or reordered.
	ChangeStructure
	// ChangeReload: the whole document was replaced (undo, redo, reload).
	ChangeReload
)

// Change describes one observed document mutation. Batched actions report a
// single ChangeStructure or ChangeAttr for the batch.
type Change struct {
	Kind ChangeKind
	Node NodeID
	Attr string
}

// Observer receives change notifications. Notification is synchronous: the
// mutation is fully applied and visible before the observer runs.
type Observer func(Change)

// Subscription is an explicit observer registration with deterministic
// teardown.
type Subscription interface {
	Close()
}

// Store is the document contract the editor core mutates through. Every
// mutating method either applies fully and notifies observers, or returns
// an error and leaves the document unchanged.
type Store interface {
	// OrderedPrimitives returns the primitive handles in pipeline order.
	OrderedPrimitives() []NodeID

	// Element returns the element name of a node ("feBlend", "feMergeNode",
	// ...), or "" for an unknown handle.
	Element(id NodeID) string

	// Attr returns the attribute value and whether it is present.
	Attr(id NodeID, name string) (string, bool)

	// AttrNames returns the names of all attributes present on a node.
	AttrNames(id NodeID) []string

	// SetAttr writes an attribute. An empty value still writes; use DelAttr
	// to remove.
	SetAttr(id NodeID, name, value string) error

	// DelAttr removes an attribute; removing an absent attribute is a no-op.
	DelAttr(id NodeID, name string) error

	// Children returns the child handles of a node in document order.
	Children(id NodeID) []NodeID

	// InsertPrimitive inserts a new top-level primitive after the given
	// position (-1 prepends) and returns its handle.
	InsertPrimitive(after int, element string) (NodeID, error)

	// AppendChild appends a child element to a node and returns its handle.
	AppendChild(parent NodeID, element string) (NodeID, error)

	// RemoveNode removes a primitive or child element and its subtree.
	RemoveNode(id NodeID) error

	// SetPosition moves a top-level primitive to the given index.
	SetPosition(id NodeID, index int) error

	// Do runs fn as one undoable action: all mutations inside coalesce into
	// a single undo step and a single observer notification. If fn returns
	// an error the document is rolled back to its state before the call.
	Do(label string, fn func() error) error

	// Undo and Redo step the action history. They report whether a step was
	// available.
	Undo() bool
	Redo() bool

	// CanUndo and CanRedo report history availability without stepping.
	CanUndo() bool
	CanRedo() bool

	// Subscribe registers an observer.
	Subscribe(fn Observer) Subscription
}
