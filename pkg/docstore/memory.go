package docstore

import (
	"fmt"

	"github.com/google/uuid"
)

// element is one document node. Value semantics keep snapshots cheap to
// reason about; maps and slices are copied explicitly.
type element struct {
	name     string
	attrs    map[string]string
	children []NodeID
	parent   NodeID // "" for top-level primitives
}

// Memory is the in-process Store implementation. It is not safe for
// concurrent use; the core is single-threaded and callers serialize access.
type Memory struct {
	nodes map[NodeID]*element
	order []NodeID // top-level primitives in pipeline order

	undo []snapshot
	redo []snapshot

	batching bool

	observers map[string]Observer
}

type snapshot struct {
	label string
	nodes map[NodeID]*element
	order []NodeID
}

// NewMemory creates an empty in-memory document.
func NewMemory() *Memory {
	return &Memory{
		nodes:     make(map[NodeID]*element),
		observers: make(map[string]Observer),
	}
}

func (m *Memory) snapshot(label string) snapshot {
	nodes := make(map[NodeID]*element, len(m.nodes))
	for id, e := range m.nodes {
		c := &element{name: e.name, parent: e.parent}
		c.attrs = make(map[string]string, len(e.attrs))
		for k, v := range e.attrs {
			c.attrs[k] = v
		}
		c.children = append([]NodeID(nil), e.children...)
		nodes[id] = c
	}
	return snapshot{
		label: label,
		nodes: nodes,
		order: append([]NodeID(nil), m.order...),
	}
}

func (m *Memory) restore(s snapshot) {
	m.nodes = s.nodes
	m.order = s.order
}

// beginMutation records the pre-state for undo unless a batch is open.
func (m *Memory) beginMutation(label string) {
	if m.batching {
		return
	}
	s := m.snapshot(label)
	m.undo = append(m.undo, s)
	m.redo = nil
}

func (m *Memory) notify(c Change) {
	if m.batching {
		return
	}
	for _, fn := range m.observers {
		fn(c)
	}
}

// OrderedPrimitives returns the primitive handles in pipeline order.
func (m *Memory) OrderedPrimitives() []NodeID {
	return append([]NodeID(nil), m.order...)
}

// Element returns the element name for a handle.
func (m *Memory) Element(id NodeID) string {
	if e, ok := m.nodes[id]; ok {
		return e.name
	}
	return ""
}

// Attr returns an attribute value.
func (m *Memory) Attr(id NodeID, name string) (string, bool) {
	e, ok := m.nodes[id]
	if !ok {
		return "", false
	}
	v, ok := e.attrs[name]
	return v, ok
}

// AttrNames returns the names of all attributes present on a node.
func (m *Memory) AttrNames(id NodeID) []string {
	e, ok := m.nodes[id]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(e.attrs))
	for n := range e.attrs {
		names = append(names, n)
	}
	return names
}

// SetAttr writes an attribute.
func (m *Memory) SetAttr(id NodeID, name, value string) error {
	e, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("set attribute %q: unknown node %s", name, id)
	}
	m.beginMutation("set " + name)
	e.attrs[name] = value
	m.notify(Change{Kind: ChangeAttr, Node: id, Attr: name})
	return nil
}

// DelAttr removes an attribute.
func (m *Memory) DelAttr(id NodeID, name string) error {
	e, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("delete attribute %q: unknown node %s", name, id)
	}
	if _, present := e.attrs[name]; !present {
		return nil
	}
	m.beginMutation("del " + name)
	delete(e.attrs, name)
	m.notify(Change{Kind: ChangeAttr, Node: id, Attr: name})
	return nil
}

// Children returns a node's child handles.
func (m *Memory) Children(id NodeID) []NodeID {
	if e, ok := m.nodes[id]; ok {
		return append([]NodeID(nil), e.children...)
	}
	return nil
}

func (m *Memory) newNode(name string, parent NodeID) NodeID {
	id := NodeID(uuid.New().String())
	m.nodes[id] = &element{
		name:   name,
		attrs:  make(map[string]string),
		parent: parent,
	}
	return id
}

// InsertPrimitive inserts a top-level primitive after position `after`.
func (m *Memory) InsertPrimitive(after int, elementName string) (NodeID, error) {
	if after < -1 || after > len(m.order)-1 {
		return "", fmt.Errorf("insert %s: position %d out of range", elementName, after)
	}
	m.beginMutation("insert " + elementName)
	id := m.newNode(elementName, "")
	at := after + 1
	m.order = append(m.order, "")
	copy(m.order[at+1:], m.order[at:])
	m.order[at] = id
	m.notify(Change{Kind: ChangeStructure, Node: id})
	return id, nil
}

// AppendChild appends a child element to a node.
func (m *Memory) AppendChild(parent NodeID, elementName string) (NodeID, error) {
	p, ok := m.nodes[parent]
	if !ok {
		return "", fmt.Errorf("append %s: unknown parent %s", elementName, parent)
	}
	m.beginMutation("append " + elementName)
	id := m.newNode(elementName, parent)
	p.children = append(p.children, id)
	m.notify(Change{Kind: ChangeStructure, Node: id})
	return id, nil
}

// RemoveNode removes a node and its subtree.
func (m *Memory) RemoveNode(id NodeID) error {
	e, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("remove: unknown node %s", id)
	}
	m.beginMutation("remove " + e.name)
	m.removeTree(id)
	if e.parent == "" {
		m.order = removeID(m.order, id)
	} else if p, ok := m.nodes[e.parent]; ok {
		p.children = removeID(p.children, id)
	}
	m.notify(Change{Kind: ChangeStructure, Node: id})
	return nil
}

func (m *Memory) removeTree(id NodeID) {
	if e, ok := m.nodes[id]; ok {
		for _, c := range e.children {
			m.removeTree(c)
		}
		delete(m.nodes, id)
	}
}

func removeID(ids []NodeID, id NodeID) []NodeID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// SetPosition moves a top-level primitive to the given index.
func (m *Memory) SetPosition(id NodeID, index int) error {
	e, ok := m.nodes[id]
	if !ok || e.parent != "" {
		return fmt.Errorf("set position: unknown primitive %s", id)
	}
	if index < 0 || index >= len(m.order) {
		return fmt.Errorf("set position: index %d out of range", index)
	}
	m.beginMutation("reorder " + e.name)
	m.order = removeID(m.order, id)
	m.order = append(m.order, "")
	copy(m.order[index+1:], m.order[index:])
	m.order[index] = id
	m.notify(Change{Kind: ChangeStructure, Node: id})
	return nil
}

// Do runs fn as one undoable, singly-notified action. On error the document
// rolls back to its pre-call state.
func (m *Memory) Do(label string, fn func() error) error {
	if m.batching {
		return fn() // nested Do joins the open batch
	}

	base := m.snapshot(label)
	m.batching = true
	err := fn()
	m.batching = false

	if err != nil {
		m.restore(base)
		return err
	}

	m.undo = append(m.undo, base)
	m.redo = nil
	m.notify(Change{Kind: ChangeStructure})
	return nil
}

// Undo reverts the most recent action.
func (m *Memory) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	s := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, m.snapshot(s.label))
	m.restore(s)
	m.notify(Change{Kind: ChangeReload})
	return true
}

// Redo reapplies the most recently undone action.
func (m *Memory) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	s := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, m.snapshot(s.label))
	m.restore(s)
	m.notify(Change{Kind: ChangeReload})
	return true
}

// CanUndo reports whether an action is available to revert.
func (m *Memory) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether an undone action is available to reapply.
func (m *Memory) CanRedo() bool { return len(m.redo) > 0 }

// ClearHistory drops the undo and redo stacks. Loaders call it after
// populating a document so the initial build is not undoable.
func (m *Memory) ClearHistory() {
	m.undo = nil
	m.redo = nil
}

// Subscribe registers an observer; Close on the returned subscription
// deregisters it.
func (m *Memory) Subscribe(fn Observer) Subscription {
	token := uuid.New().String()
	m.observers[token] = fn
	return &memorySubscription{store: m, token: token}
}

type memorySubscription struct {
	store *Memory
	token string
}

func (s *memorySubscription) Close() {
	delete(s.store.observers, s.token)
}

var _ Store = (*Memory)(nil)
