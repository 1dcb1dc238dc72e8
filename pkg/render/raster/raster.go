// Package raster rasterizes a frame of draw commands to PNG through the
// gg drawing context. Text requires a font face; without one the label
// commands degrade to nothing and the geometry still renders.
package raster

import (
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/svgfx/fegraph/pkg/render"
)

// Renderer draws command frames onto a gg context.
type Renderer struct {
	dc    *gg.Context
	dark  string
	light string
}

// New creates a renderer with a white background of the given size.
func New(width, height int) *Renderer {
	dc := gg.NewContext(width, height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	return &Renderer{dc: dc, dark: "#1a1a1a", light: "#9a9a9a"}
}

// LoadFont sets the font used for label text. Optional; without it text
// commands are skipped by the underlying context.
func (r *Renderer) LoadFont(path string, points float64) error {
	return r.dc.LoadFontFace(path, points)
}

// Draw renders one frame of commands. Implements render.Surface.
func (r *Renderer) Draw(cmds []render.Command) error {
	for _, c := range cmds {
		switch c := c.(type) {
		case render.Line:
			r.pen(c.Style)
			r.dc.DrawLine(float64(c.X1), float64(c.Y1), float64(c.X2), float64(c.Y2))
			if err := r.dc.Stroke(); err != nil {
				return err
			}
		case render.Rect:
			r.pen(c.Style)
			r.dc.DrawRectangle(float64(c.X), float64(c.Y), float64(c.W), float64(c.H))
			if err := r.shade(c.Filled); err != nil {
				return err
			}
		case render.Polygon:
			if len(c.Points) == 0 {
				continue
			}
			r.pen(c.Style)
			r.dc.MoveTo(float64(c.Points[0].X), float64(c.Points[0].Y))
			for _, p := range c.Points[1:] {
				r.dc.LineTo(float64(p.X), float64(p.Y))
			}
			r.dc.ClosePath()
			if err := r.shade(c.Filled); err != nil {
				return err
			}
		case render.Text:
			r.pen(c.Style)
			if c.Vertical {
				r.dc.Push()
				r.dc.RotateAbout(math.Pi/2, float64(c.X), float64(c.Y))
				r.dc.DrawString(c.S, float64(c.X), float64(c.Y))
				r.dc.Pop()
			} else {
				r.dc.DrawString(c.S, float64(c.X), float64(c.Y))
			}
		}
	}
	return nil
}

// EncodePNG writes the rendered image as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

// SavePNG writes the rendered image to a file.
func (r *Renderer) SavePNG(path string) error {
	return r.dc.SavePNG(path)
}

func (r *Renderer) pen(s render.Style) {
	if s == render.StyleLight {
		r.dc.SetHexColor(r.light)
	} else {
		r.dc.SetHexColor(r.dark)
	}
	r.dc.SetLineWidth(1)
}

func (r *Renderer) shade(filled bool) error {
	if filled {
		return r.dc.Fill()
	}
	return r.dc.Stroke()
}
