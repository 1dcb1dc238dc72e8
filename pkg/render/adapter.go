package render

import (
	"github.com/svgfx/fegraph/pkg/primitive"
	"github.com/svgfx/fegraph/pkg/ref"
)

// Metrics fixes the layout geometry. All values are surface units.
type Metrics struct {
	// SlotSize is the connector lane unit: one slot's height and the step
	// between adjacent connector lanes.
	SlotSize int
	// LabelWidth is the width of one standard source label column.
	LabelWidth int
	// RowStartX is the left edge of the connector area.
	RowStartX int
}

// DefaultMetrics matches the proportions of the reference dialog.
func DefaultMetrics() Metrics {
	return Metrics{SlotSize: 24, LabelWidth: 20, RowStartX: 0}
}

// Drag describes an in-progress connection drag for rubber-band drawing.
type Drag struct {
	OriginRow  int
	OriginSlot int
	PointerX   int
	PointerY   int
}

// Adapter lays out one graph snapshot and produces draw commands and hit
// tests for it. Build a fresh adapter after every graph rebuild; adapters
// are cheap and hold no state beyond the snapshot.
type Adapter struct {
	graph *primitive.Graph
	m     Metrics
}

// NewAdapter creates an adapter over a graph snapshot.
func NewAdapter(g *primitive.Graph, m Metrics) *Adapter {
	return &Adapter{graph: g, m: m}
}

// RowHeight returns the height of the row at position i: one slot unit per
// render slot (merge rows include the trailing add lane).
func (a *Adapter) RowHeight(i int) int {
	slots := a.graph.RenderSlotCount(i)
	if slots < 1 {
		slots = 1
	}
	return a.m.SlotSize * slots
}

// RowTop returns the y coordinate of the top of row i.
func (a *Adapter) RowTop(i int) int {
	y := 0
	for j := 0; j < i; j++ {
		y += a.RowHeight(j)
	}
	return y
}

// Height returns the total content height.
func (a *Adapter) Height() int {
	return a.RowTop(a.graph.Len())
}

// LaneX returns the x coordinate of row i's connector lane edge. Lane width
// is proportional to (row count - row index): the first row gets the widest
// lane so later rows' reach-back lines have room to route without overlap.
func (a *Adapter) LaneX(i int) int {
	return a.m.RowStartX + a.m.SlotSize*(a.graph.Len()-i)
}

// SourcesStartX returns the left edge of the standard source label columns.
func (a *Adapter) SourcesStartX() int {
	return a.m.RowStartX + a.m.SlotSize*a.graph.Len() + a.m.SlotSize
}

// SourceColumnX returns the x coordinate of the left edge of standard
// source column s.
func (a *Adapter) SourceColumnX(s int) int {
	return a.SourcesStartX() + a.m.LabelWidth*s
}

// Width returns the total content width.
func (a *Adapter) Width() int {
	return a.SourceColumnX(len(ref.Sources))
}

// SlotCenterY returns the y coordinate of the middle of the given slot.
func (a *Adapter) SlotCenterY(row, slot int) int {
	slots := a.graph.RenderSlotCount(row)
	if slots < 1 {
		slots = 1
	}
	h := a.RowHeight(row) / slots
	return a.RowTop(row) + h/2 + slot*h
}

// slotTriangle returns the triangular slot marker, pointing left into the
// row, for hit testing and drawing.
func (a *Adapter) slotTriangle(row, slot int) []Point {
	x := a.LaneX(row)
	w := a.m.SlotSize * 35 / 100
	cy := a.SlotCenterY(row, slot)
	return []Point{
		{X: x, Y: cy - w},
		{X: x, Y: cy + w},
		{X: x - w, Y: cy},
	}
}

// HitTest maps pointer coordinates onto a slot hit region. The region is
// the band around the triangle marker, one slot-height deep into the row.
func (a *Adapter) HitTest(x, y int) (row, slot int, ok bool) {
	for i := 0; i < a.graph.Len(); i++ {
		slots := a.graph.RenderSlotCount(i)
		if slots < 1 {
			continue
		}
		h := a.RowHeight(i) / slots
		laneX := a.LaneX(i)
		for s := 0; s < slots; s++ {
			w := a.m.SlotSize * 35 / 100
			cy := a.SlotCenterY(i, s)
			if x >= laneX-h && x <= laneX && y >= cy-w && y <= cy+w {
				return i, s, true
			}
		}
	}
	return 0, 0, false
}

// DropKind classifies where a drag was released.
type DropKind int

const (
	// DropNone: outside any recognized region; the drag is cancelled.
	DropNone DropKind = iota
	// DropSource: over a standard source label column.
	DropSource
	// DropRow: over a primitive row, left of the source columns.
	DropRow
)

// DropTarget is the resolved release location of a drag.
type DropTarget struct {
	Kind   DropKind
	Source int // for DropSource
	Row    int // for DropRow
}

// DropTargetAt maps release coordinates onto a drop target.
func (a *Adapter) DropTargetAt(x, y int) DropTarget {
	if y < 0 || y >= a.Height() || x < a.m.RowStartX || x >= a.Width() {
		return DropTarget{Kind: DropNone}
	}

	if x >= a.SourcesStartX() {
		s := (x - a.SourcesStartX()) / a.m.LabelWidth
		if s < 0 {
			s = 0
		}
		if s >= len(ref.Sources) {
			s = len(ref.Sources) - 1
		}
		return DropTarget{Kind: DropSource, Source: s}
	}

	for i := 0; i < a.graph.Len(); i++ {
		if y < a.RowTop(i)+a.RowHeight(i) {
			return DropTarget{Kind: DropRow, Row: i}
		}
	}
	return DropTarget{Kind: DropNone}
}

// RowAt returns the row index containing y, or -1.
func (a *Adapter) RowAt(y int) int {
	if y < 0 {
		return -1
	}
	for i := 0; i < a.graph.Len(); i++ {
		if y < a.RowTop(i)+a.RowHeight(i) {
			return i
		}
	}
	return -1
}
