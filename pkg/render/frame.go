package render

import (
	"github.com/svgfx/fegraph/pkg/primitive"
	"github.com/svgfx/fegraph/pkg/ref"
)

// Frame produces the full draw command list for the current snapshot:
// source label columns, row outlines, slot markers, connectors, and the
// rubber band when a drag is active.
func (a *Adapter) Frame(drag *Drag) []Command {
	var cmds []Command

	cmds = append(cmds, a.sourceColumns()...)

	count := a.graph.Len()
	for i := 0; i < count; i++ {
		laneX := a.LaneX(i)
		top := a.RowTop(i)
		bottom := top + a.RowHeight(i)

		// Bottom and side outline of the row's connector lane.
		cmds = append(cmds,
			Line{X1: a.m.RowStartX, Y1: bottom, X2: laneX, Y2: bottom, Style: StyleDark},
			Line{X1: laneX, Y1: top - 1, X2: laneX, Y2: bottom, Style: StyleDark},
		)

		slots := a.graph.RenderSlotCount(i)
		for s := 0; s < slots; s++ {
			dragging := drag != nil && drag.OriginRow == i && drag.OriginSlot == s
			cmds = append(cmds, Polygon{
				Points: a.slotTriangle(i, s),
				Filled: dragging,
				Style:  StyleDark,
			})

			// The connector under an active drag is replaced by the rubber
			// band below.
			if !dragging {
				cmds = append(cmds, a.connection(i, s)...)
			}
		}

		if drag != nil && drag.OriginRow == i {
			cy := a.SlotCenterY(i, drag.OriginSlot)
			cmds = append(cmds,
				Line{X1: laneX, Y1: cy, X2: drag.PointerX, Y2: cy, Style: StyleDark},
				Line{X1: drag.PointerX, Y1: cy, X2: drag.PointerX, Y2: drag.PointerY, Style: StyleDark},
			)
		}
	}

	return cmds
}

// sourceColumns draws the vertical standard source labels and separators.
func (a *Adapter) sourceColumns() []Command {
	var cmds []Command
	height := a.Height()
	for i, s := range ref.Sources {
		x := a.SourceColumnX(i)
		cmds = append(cmds,
			Line{X1: x, Y1: 0, X2: x, Y2: height, Style: StyleDark},
			Text{X: x + 1, Y: 1, S: s.Label, Vertical: true, Style: StyleDark},
		)
	}
	return cmds
}

// connection draws the connector for one slot, or nothing when the slot is
// unresolved. Straight lines run to a standard source column; L-shaped
// lines run down from the slot to the producing row. Implicit defaults use
// the light style.
func (a *Adapter) connection(row, slot int) []Command {
	// The merge add lane carries no data and is never connected.
	if slot >= a.graph.InputCount(row) {
		return nil
	}

	res := a.graph.Resolve(row, slot)
	laneX := a.LaneX(row)
	cy := a.SlotCenterY(row, slot)

	switch res.Kind {
	case primitive.Standard:
		return a.straightConnection(laneX, cy, res.Source, StyleDark)

	case primitive.ImplicitPrevious:
		if res.NodeIndex < 0 {
			// First primitive: implicit connection to the base source.
			return a.straightConnection(laneX, cy, 0, StyleLight)
		}
		return a.elbowConnection(laneX, cy, res.NodeIndex, StyleLight)

	case primitive.Producer:
		return a.elbowConnection(laneX, cy, res.NodeIndex, StyleDark)

	default:
		return nil
	}
}

// straightConnection draws a horizontal line to a source column with a
// small square end marker.
func (a *Adapter) straightConnection(x1, y, source int, style Style) []Command {
	endX := a.SourceColumnX(source) + a.m.LabelWidth/2
	return []Command{
		Rect{X: endX - 2, Y: y - 2, W: 5, H: 5, Filled: true, Style: style},
		Line{X1: x1, Y1: y, X2: endX, Y2: y, Style: style},
	}
}

// elbowConnection draws a bevelled L-shaped line from the slot down to the
// bottom edge of the producing row.
func (a *Adapter) elbowConnection(x1, y1, producer int, style Style) []Command {
	fh := a.m.SlotSize
	x2 := a.LaneX(producer) - fh/2
	y2 := a.RowTop(producer) + a.RowHeight(producer)
	return []Command{
		Line{X1: x1, Y1: y1, X2: x2 - fh/4, Y2: y1, Style: style},
		Line{X1: x2 - fh/4, Y1: y1, X2: x2, Y2: y1 - fh/4, Style: style},
		Line{X1: x2, Y1: y1 - fh/4, X2: x2, Y2: y2, Style: style},
	}
}
