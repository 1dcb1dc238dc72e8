package render

import (
	"testing"

	"github.com/svgfx/fegraph/pkg/primitive"
	"github.com/svgfx/fegraph/pkg/ref"
)

// threeRowGraph: blur -> offset -> blend(in=result of blur, in2 implicit).
func threeRowGraph() *primitive.Graph {
	return primitive.New([]primitive.Node{
		{ID: "a", Kind: primitive.GaussianBlur, Result: 0},
		{ID: "b", Kind: primitive.Offset, In: ref.NamedResult(0), Result: primitive.NoResult},
		{ID: "c", Kind: primitive.Blend, In: ref.NamedResult(0), Result: primitive.NoResult},
	})
}

func TestRowHeightCountsRenderSlots(t *testing.T) {
	g := primitive.New([]primitive.Node{
		{ID: "a", Kind: primitive.GaussianBlur, Result: primitive.NoResult},
		{ID: "m", Kind: primitive.Merge, Result: primitive.NoResult,
			MergeInputs: []ref.Reference{ref.Unspecified(), ref.Unspecified()},
			MergeIDs:    []string{"m1", "m2"}},
	})
	a := NewAdapter(g, DefaultMetrics())

	if got := a.RowHeight(0); got != 24 {
		t.Errorf("single-input row height = %d, want 24", got)
	}
	// Two sub-nodes plus the trailing add lane.
	if got := a.RowHeight(1); got != 72 {
		t.Errorf("merge row height = %d, want 72", got)
	}
	if got := a.Height(); got != 96 {
		t.Errorf("total height = %d, want 96", got)
	}
}

func TestLaneXWidensTowardEarlierRows(t *testing.T) {
	a := NewAdapter(threeRowGraph(), DefaultMetrics())

	if x0, x1, x2 := a.LaneX(0), a.LaneX(1), a.LaneX(2); !(x0 > x1 && x1 > x2) {
		t.Errorf("lanes not strictly narrowing: %d, %d, %d", x0, x1, x2)
	}
	// Lane width is one slot unit per remaining row.
	if got := a.LaneX(0); got != 72 {
		t.Errorf("first lane x = %d, want 72", got)
	}
	if got := a.LaneX(2); got != 24 {
		t.Errorf("last lane x = %d, want 24", got)
	}
}

func TestSourceColumnsStartPastLanes(t *testing.T) {
	a := NewAdapter(threeRowGraph(), DefaultMetrics())

	if a.SourcesStartX() <= a.LaneX(0) {
		t.Errorf("source columns at %d overlap widest lane at %d",
			a.SourcesStartX(), a.LaneX(0))
	}
	if got, want := a.Width(), a.SourcesStartX()+20*len(ref.Sources); got != want {
		t.Errorf("width = %d, want %d", got, want)
	}
}

func TestHitTestFindsSlot(t *testing.T) {
	a := NewAdapter(threeRowGraph(), DefaultMetrics())

	// Dead center of row 1's only slot, just inside the lane edge.
	x := a.LaneX(1) - 2
	y := a.SlotCenterY(1, 0)
	row, slot, ok := a.HitTest(x, y)
	if !ok || row != 1 || slot != 0 {
		t.Fatalf("HitTest(%d, %d) = (%d, %d, %v), want (1, 0, true)", x, y, row, slot, ok)
	}

	// Far left of any lane's hit band.
	if _, _, ok := a.HitTest(0, y); ok {
		t.Error("HitTest far left of lanes reported a hit")
	}
	// Below all rows.
	if _, _, ok := a.HitTest(x, a.Height()+10); ok {
		t.Error("HitTest below content reported a hit")
	}
}

func TestHitTestTwoInputSlots(t *testing.T) {
	a := NewAdapter(threeRowGraph(), DefaultMetrics())

	x := a.LaneX(2) - 2
	for want := 0; want < 2; want++ {
		row, slot, ok := a.HitTest(x, a.SlotCenterY(2, want))
		if !ok || row != 2 || slot != want {
			t.Errorf("slot %d: got (%d, %d, %v)", want, row, slot, ok)
		}
	}
}

func TestDropTargetAt(t *testing.T) {
	a := NewAdapter(threeRowGraph(), DefaultMetrics())

	if got := a.DropTargetAt(a.SourceColumnX(2)+5, 10); got.Kind != DropSource || got.Source != 2 {
		t.Errorf("source drop = %+v, want source 2", got)
	}
	if got := a.DropTargetAt(10, a.RowTop(1)+5); got.Kind != DropRow || got.Row != 1 {
		t.Errorf("row drop = %+v, want row 1", got)
	}
	if got := a.DropTargetAt(10, -5); got.Kind != DropNone {
		t.Errorf("above content = %+v, want DropNone", got)
	}
	if got := a.DropTargetAt(a.Width()+5, 10); got.Kind != DropNone {
		t.Errorf("right of content = %+v, want DropNone", got)
	}
}

func TestDropSourceClampsToLastColumn(t *testing.T) {
	a := NewAdapter(threeRowGraph(), DefaultMetrics())

	x := a.Width() - 1
	if got := a.DropTargetAt(x, 10); got.Kind != DropSource || got.Source != len(ref.Sources)-1 {
		t.Errorf("edge drop = %+v, want last source column", got)
	}
}

func TestRowAt(t *testing.T) {
	a := NewAdapter(threeRowGraph(), DefaultMetrics())

	cases := []struct{ y, want int }{
		{0, 0},
		{a.RowTop(2) + 1, 2},
		{a.Height() + 1, -1},
		{-1, -1},
	}
	for _, c := range cases {
		if got := a.RowAt(c.y); got != c.want {
			t.Errorf("RowAt(%d) = %d, want %d", c.y, got, c.want)
		}
	}
}
