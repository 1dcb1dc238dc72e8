package svgout

import (
	"strings"
	"testing"

	"github.com/svgfx/fegraph/pkg/render"
)

func TestEncodeProducesElementsForEachCommand(t *testing.T) {
	cmds := []render.Command{
		render.Line{X1: 0, Y1: 0, X2: 10, Y2: 0, Style: render.StyleDark},
		render.Rect{X: 1, Y: 2, W: 5, H: 5, Filled: true, Style: render.StyleLight},
		render.Polygon{Points: []render.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}}},
		render.Text{X: 3, Y: 4, S: "SourceGraphic", Vertical: true},
	}

	var buf strings.Builder
	if err := NewEncoder(Palette{}).Encode(&buf, 100, 50, cmds); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		`viewBox="0 0 100 50"`,
		`<line x1="0" y1="0" x2="10" y2="0" stroke="#1a1a1a"/>`,
		`<rect x="1" y="2" width="5" height="5" fill="#9a9a9a"/>`,
		`points="0,0 4,0 2,3"`,
		`rotate(90 3 4)`,
		`>SourceGraphic</text>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEncodeEscapesText(t *testing.T) {
	var buf strings.Builder
	err := NewEncoder(Palette{}).Encode(&buf, 10, 10, []render.Command{
		render.Text{S: "a<b&c"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "a&lt;b&amp;c") {
		t.Errorf("text not escaped: %s", buf.String())
	}
}

func TestEncodeUnfilledShapesCarryStroke(t *testing.T) {
	var buf strings.Builder
	err := NewEncoder(Palette{}).Encode(&buf, 10, 10, []render.Command{
		render.Polygon{Points: []render.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `fill="none" stroke="#1a1a1a"`) {
		t.Errorf("outline polygon missing stroke paint: %s", buf.String())
	}
}
