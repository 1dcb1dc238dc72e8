// Package render translates graph state into an abstract sequence of draw
// commands for an external surface, and maps pointer coordinates back to
// (node, slot) hits. It knows nothing about any concrete renderer; the
// svgout and raster subpackages consume the command list.
package render

// Style selects the pen a command is drawn with. Implicit (inferred)
// connections use the light style so users can tell inferred wiring from
// authored wiring.
type Style int

const (
	StyleDark Style = iota
	StyleLight
)

// Point is a surface coordinate.
type Point struct {
	X, Y int
}

// Command is one drawing primitive. The concrete types are Rect, Line,
// Polygon, and Text.
type Command interface {
	command()
}

// Rect draws an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H int
	Filled     bool
	Style      Style
}

// Line draws a straight segment.
type Line struct {
	X1, Y1, X2, Y2 int
	Style          Style
}

// Polygon draws a closed polygon.
type Polygon struct {
	Points []Point
	Filled bool
	Style  Style
}

// Text draws a string with its anchor at (X, Y). Vertical text is rotated
// 90 degrees counter-clockwise, as used for the standard source labels.
type Text struct {
	X, Y     int
	S        string
	Vertical bool
	Style    Style
}

func (Rect) command()    {}
func (Line) command()    {}
func (Polygon) command() {}
func (Text) command()    {}

// Surface consumes a frame of draw commands. The web and raster layers
// implement it.
type Surface interface {
	Draw(commands []Command) error
}
