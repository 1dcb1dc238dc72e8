package primitive

import (
	"testing"

	"github.com/svgfx/fegraph/pkg/ref"
)

func node(id string, kind Kind) Node {
	return Node{ID: id, Kind: kind, Result: NoResult}
}

func TestImplicitDefaultFirstNode(t *testing.T) {
	g := New([]Node{node("a", GaussianBlur)})

	res := g.Resolve(0, 0)
	if res.Kind != ImplicitPrevious {
		t.Fatalf("Resolve(0, 0).Kind = %v, want ImplicitPrevious", res.Kind)
	}
	if res.NodeIndex != -1 {
		t.Errorf("first node should default to the base source, got node %d", res.NodeIndex)
	}
}

func TestImplicitDefaultSecondNode(t *testing.T) {
	g := New([]Node{
		node("a", Flood),
		node("b", GaussianBlur),
	})

	res := g.Resolve(1, 0)
	if res.Kind != ImplicitPrevious || res.NodeIndex != 0 {
		t.Errorf("Resolve(1, 0) = %+v, want ImplicitPrevious node 0", res)
	}
}

func TestImplicitDefaultSecondSlot(t *testing.T) {
	// An unset in2 falls back to the previous primitive, same as in.
	g := New([]Node{
		node("a", Flood),
		node("b", Composite),
	})

	res := g.Resolve(1, 1)
	if res.Kind != ImplicitPrevious || res.NodeIndex != 0 {
		t.Errorf("Resolve(1, 1) = %+v, want ImplicitPrevious node 0", res)
	}
}

func TestResolveStandardSource(t *testing.T) {
	n := node("a", Offset)
	n.In = ref.StandardSource(1)
	g := New([]Node{n})

	res := g.Resolve(0, 0)
	if res.Kind != Standard || res.Source != 1 {
		t.Errorf("Resolve(0, 0) = %+v, want Standard source 1", res)
	}
}

func TestResolveNamedResult(t *testing.T) {
	a := node("a", Flood)
	a.Result = 3
	b := node("b", Offset)
	b.In = ref.NamedResult(3)
	g := New([]Node{a, b})

	res := g.Resolve(1, 0)
	if res.Kind != Producer || res.NodeIndex != 0 {
		t.Errorf("Resolve(1, 0) = %+v, want Producer node 0", res)
	}
}

func TestResolveDanglingResult(t *testing.T) {
	b := node("b", Offset)
	b.In = ref.NamedResult(99)
	g := New([]Node{node("a", Flood), b})

	if res := g.Resolve(1, 0); res.Kind != Unresolved {
		t.Errorf("dangling reference resolved to %+v, want Unresolved", res)
	}
}

func TestResolveForwardResultIsDangling(t *testing.T) {
	// The producer exists but sits after the consumer; the scan only looks
	// strictly backward.
	a := node("a", Offset)
	a.In = ref.NamedResult(3)
	b := node("b", Flood)
	b.Result = 3
	g := New([]Node{a, b})

	if res := g.Resolve(0, 0); res.Kind != Unresolved {
		t.Errorf("forward reference resolved to %+v, want Unresolved", res)
	}
}

func TestShadowingClosestPrecedingWins(t *testing.T) {
	// Nodes at positions 0 and 2 both declare result 5; a consumer at
	// position 3 must resolve to position 2.
	a := node("a", Flood)
	a.Result = 5
	b := node("b", Offset)
	c := node("c", GaussianBlur)
	c.Result = 5
	d := node("d", Offset)
	d.In = ref.NamedResult(5)
	g := New([]Node{a, b, c, d})

	res := g.Resolve(3, 0)
	if res.Kind != Producer || res.NodeIndex != 2 {
		t.Errorf("Resolve(3, 0) = %+v, want Producer node 2", res)
	}
}

func TestMergeSlotsNeverDefault(t *testing.T) {
	m := node("m", Merge)
	m.MergeInputs = []ref.Reference{ref.Unspecified(), ref.StandardSource(0)}
	m.MergeIDs = []string{"m0", "m1"}
	g := New([]Node{node("a", Flood), m})

	if res := g.Resolve(1, 0); res.Kind != Unresolved {
		t.Errorf("unset merge slot resolved to %+v, want Unresolved", res)
	}
	if res := g.Resolve(1, 1); res.Kind != Standard || res.Source != 0 {
		t.Errorf("merge slot 1 = %+v, want Standard source 0", res)
	}
}

func TestInputCounts(t *testing.T) {
	m := node("m", Merge)
	m.MergeInputs = []ref.Reference{ref.Unspecified()}
	m.MergeIDs = []string{"m0"}

	g := New([]Node{
		node("blend", Blend),
		node("blur", GaussianBlur),
		m,
	})

	tests := []struct {
		pos         int
		want        int
		wantRender  int
		description string
	}{
		{0, 2, 2, "two-input kind"},
		{1, 1, 1, "single-input kind"},
		{2, 1, 2, "merge with one sub-node plus add lane"},
		{3, 0, 0, "out of range"},
	}

	for _, tt := range tests {
		if got := g.InputCount(tt.pos); got != tt.want {
			t.Errorf("InputCount(%d) = %d, want %d (%s)", tt.pos, got, tt.want, tt.description)
		}
		if got := g.RenderSlotCount(tt.pos); got != tt.wantRender {
			t.Errorf("RenderSlotCount(%d) = %d, want %d (%s)", tt.pos, got, tt.wantRender, tt.description)
		}
	}
}

func TestFindIndex(t *testing.T) {
	g := New([]Node{node("a", Flood), node("b", Offset)})

	if i := g.FindIndex("b"); i != 1 {
		t.Errorf("FindIndex(b) = %d, want 1", i)
	}
	if i := g.FindIndex("missing"); i != -1 {
		t.Errorf("FindIndex(missing) = %d, want -1", i)
	}
}

func TestFreeResultID(t *testing.T) {
	a := node("a", Flood)
	a.Result = 0
	b := node("b", Offset)
	b.Result = 2
	g := New([]Node{a, b})

	if id := g.FreeResultID(); id != 1 {
		t.Errorf("FreeResultID() = %d, want 1", id)
	}
}

func TestResolveNeverPointsForward(t *testing.T) {
	// Property: for every node and slot, a resolved producer sits strictly
	// before the consumer.
	a := node("a", Flood)
	a.Result = 1
	b := node("b", Composite)
	b.In = ref.NamedResult(1)
	m := node("m", Merge)
	m.MergeInputs = []ref.Reference{ref.NamedResult(1), ref.Unspecified()}
	m.MergeIDs = []string{"m0", "m1"}
	g := New([]Node{a, b, m})

	for i := 0; i < g.Len(); i++ {
		for slot := 0; slot < g.InputCount(i); slot++ {
			res := g.Resolve(i, slot)
			if res.Kind == Producer && res.NodeIndex >= i {
				t.Errorf("node %d slot %d resolves forward to %d", i, slot, res.NodeIndex)
			}
		}
	}

	if err := Verify(g); err != nil {
		t.Errorf("Verify() = %v", err)
	}
}

func TestGraphCopiesNodes(t *testing.T) {
	nodes := []Node{node("a", Flood)}
	g := New(nodes)

	nodes[0].Result = 7
	if g.Node(0).Result != NoResult {
		t.Error("graph aliases the caller's node slice")
	}
}
