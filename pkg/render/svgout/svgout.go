// Package svgout serializes a frame of draw commands to standalone SVG
// markup, the format served by the web layer and written by the export
// command.
package svgout

import (
	"fmt"
	"io"
	"strings"

	"github.com/svgfx/fegraph/pkg/render"
)

// Palette maps the two pen styles to stroke colors.
type Palette struct {
	Dark  string
	Light string
}

// DefaultPalette matches the dialog's dark ink and dimmed implicit pen.
func DefaultPalette() Palette {
	return Palette{Dark: "#1a1a1a", Light: "#9a9a9a"}
}

// Encoder writes command frames as SVG documents.
type Encoder struct {
	palette  Palette
	fontSize int
}

// NewEncoder creates an encoder with the given palette. A zero palette
// falls back to the default.
func NewEncoder(p Palette) *Encoder {
	if p.Dark == "" {
		p = DefaultPalette()
	}
	return &Encoder{palette: p, fontSize: 12}
}

// Encode writes one frame as a complete SVG document of the given size.
func (e *Encoder) Encode(w io.Writer, width, height int, cmds []render.Command) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)

	for _, c := range cmds {
		switch c := c.(type) {
		case render.Line:
			fmt.Fprintf(&b, `  <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s"/>`+"\n",
				c.X1, c.Y1, c.X2, c.Y2, e.stroke(c.Style))
		case render.Rect:
			fmt.Fprintf(&b, `  <rect x="%d" y="%d" width="%d" height="%d" %s/>`+"\n",
				c.X, c.Y, c.W, c.H, e.paint(c.Style, c.Filled))
		case render.Polygon:
			pts := make([]string, len(c.Points))
			for i, p := range c.Points {
				pts[i] = fmt.Sprintf("%d,%d", p.X, p.Y)
			}
			fmt.Fprintf(&b, `  <polygon points="%s" %s/>`+"\n",
				strings.Join(pts, " "), e.paint(c.Style, c.Filled))
		case render.Text:
			transform := ""
			if c.Vertical {
				transform = fmt.Sprintf(` transform="rotate(90 %d %d)"`, c.X, c.Y)
			}
			fmt.Fprintf(&b, `  <text x="%d" y="%d" font-size="%d" fill="%s"%s>%s</text>`+"\n",
				c.X, c.Y, e.fontSize, e.stroke(c.Style), transform, escapeText(c.S))
		}
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func (e *Encoder) stroke(s render.Style) string {
	if s == render.StyleLight {
		return e.palette.Light
	}
	return e.palette.Dark
}

func (e *Encoder) paint(s render.Style, filled bool) string {
	if filled {
		return fmt.Sprintf(`fill="%s"`, e.stroke(s))
	}
	return fmt.Sprintf(`fill="none" stroke="%s"`, e.stroke(s))
}

func escapeText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
