package docstore

import (
	"errors"
	"testing"
)

func TestInsertAndOrder(t *testing.T) {
	m := NewMemory()

	a, err := m.InsertPrimitive(-1, "feFlood")
	if err != nil {
		t.Fatalf("InsertPrimitive: %v", err)
	}
	b, _ := m.InsertPrimitive(0, "feOffset")
	c, _ := m.InsertPrimitive(0, "feGaussianBlur")

	order := m.OrderedPrimitives()
	want := []NodeID{a, c, b}
	if len(order) != 3 {
		t.Fatalf("got %d primitives, want 3", len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}

	if m.Element(a) != "feFlood" {
		t.Errorf("Element(a) = %q", m.Element(a))
	}
}

func TestInsertOutOfRange(t *testing.T) {
	m := NewMemory()
	if _, err := m.InsertPrimitive(3, "feFlood"); err == nil {
		t.Error("InsertPrimitive past the end should fail")
	}
}

func TestAttrRoundTrip(t *testing.T) {
	m := NewMemory()
	id, _ := m.InsertPrimitive(-1, "feBlend")

	if err := m.SetAttr(id, "in", "SourceGraphic"); err != nil {
		t.Fatalf("SetAttr: %v", err)
	}
	if v, ok := m.Attr(id, "in"); !ok || v != "SourceGraphic" {
		t.Errorf("Attr(in) = %q, %t", v, ok)
	}

	if err := m.DelAttr(id, "in"); err != nil {
		t.Fatalf("DelAttr: %v", err)
	}
	if _, ok := m.Attr(id, "in"); ok {
		t.Error("attribute should be absent after DelAttr")
	}

	if err := m.SetAttr("bogus", "in", "x"); err == nil {
		t.Error("SetAttr on unknown node should fail")
	}
}

func TestSetPosition(t *testing.T) {
	m := NewMemory()
	a, _ := m.InsertPrimitive(-1, "feFlood")
	b, _ := m.InsertPrimitive(0, "feOffset")

	if err := m.SetPosition(a, 1); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	order := m.OrderedPrimitives()
	if order[0] != b || order[1] != a {
		t.Errorf("order after move = %v", order)
	}

	if err := m.SetPosition(a, 5); err == nil {
		t.Error("SetPosition out of range should fail")
	}
}

func TestChildren(t *testing.T) {
	m := NewMemory()
	merge, _ := m.InsertPrimitive(-1, "feMerge")
	n1, _ := m.AppendChild(merge, "feMergeNode")
	n2, _ := m.AppendChild(merge, "feMergeNode")

	kids := m.Children(merge)
	if len(kids) != 2 || kids[0] != n1 || kids[1] != n2 {
		t.Errorf("Children = %v", kids)
	}

	if err := m.RemoveNode(n1); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if kids := m.Children(merge); len(kids) != 1 || kids[0] != n2 {
		t.Errorf("Children after remove = %v", kids)
	}
}

func TestRemovePrimitiveRemovesSubtree(t *testing.T) {
	m := NewMemory()
	merge, _ := m.InsertPrimitive(-1, "feMerge")
	child, _ := m.AppendChild(merge, "feMergeNode")

	if err := m.RemoveNode(merge); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if len(m.OrderedPrimitives()) != 0 {
		t.Error("primitive list should be empty")
	}
	if m.Element(child) != "" {
		t.Error("child should be gone with its parent")
	}
}

func TestUndoRedo(t *testing.T) {
	m := NewMemory()
	id, _ := m.InsertPrimitive(-1, "feFlood")
	m.SetAttr(id, "result", "r0")

	if !m.Undo() {
		t.Fatal("Undo should succeed")
	}
	if _, ok := m.Attr(id, "result"); ok {
		t.Error("attribute should be gone after undo")
	}

	if !m.Redo() {
		t.Fatal("Redo should succeed")
	}
	if v, _ := m.Attr(id, "result"); v != "r0" {
		t.Errorf("attribute after redo = %q", v)
	}

	m.Undo() // attr
	m.Undo() // insert
	if len(m.OrderedPrimitives()) != 0 {
		t.Error("document should be empty after undoing everything")
	}
	if m.Undo() {
		t.Error("Undo on empty history should report false")
	}
}

func TestDoCoalescesIntoOneUndoStep(t *testing.T) {
	m := NewMemory()
	id, _ := m.InsertPrimitive(-1, "feComposite")

	var notifications int
	sub := m.Subscribe(func(Change) { notifications++ })
	defer sub.Close()

	err := m.Do("connect", func() error {
		if err := m.SetAttr(id, "in", "SourceGraphic"); err != nil {
			return err
		}
		return m.SetAttr(id, "in2", "SourceAlpha")
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}

	if notifications != 1 {
		t.Errorf("got %d notifications for a batched action, want 1", notifications)
	}

	m.Undo()
	if _, ok := m.Attr(id, "in"); ok {
		t.Error("both writes should be undone as one step")
	}
	if _, ok := m.Attr(id, "in2"); ok {
		t.Error("both writes should be undone as one step")
	}
}

func TestDoRollsBackOnError(t *testing.T) {
	m := NewMemory()
	id, _ := m.InsertPrimitive(-1, "feOffset")

	boom := errors.New("boom")
	err := m.Do("failing", func() error {
		m.SetAttr(id, "in", "SourceGraphic")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Do returned %v, want boom", err)
	}
	if _, ok := m.Attr(id, "in"); ok {
		t.Error("failed action should leave the document unchanged")
	}
}

func TestSubscriptionClose(t *testing.T) {
	m := NewMemory()
	var fired bool
	sub := m.Subscribe(func(Change) { fired = true })
	sub.Close()

	m.InsertPrimitive(-1, "feFlood")
	if fired {
		t.Error("closed subscription should not be notified")
	}
}

func TestNotificationIsSynchronousAndPostState(t *testing.T) {
	m := NewMemory()
	var seen string
	sub := m.Subscribe(func(c Change) {
		// Mutation must be visible inside the observer.
		seen, _ = m.Attr(c.Node, "result")
	})
	defer sub.Close()

	id, _ := m.InsertPrimitive(-1, "feFlood")
	m.SetAttr(id, "result", "r1")
	if seen != "r1" {
		t.Errorf("observer saw %q, want post-mutation state", seen)
	}
}
