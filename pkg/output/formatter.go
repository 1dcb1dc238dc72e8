package output

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/svgfx/fegraph/pkg/primitive"
	"github.com/svgfx/fegraph/pkg/ref"
)

// PrintPipelineReport prints a colorized rundown of the filter pipeline:
// one line per primitive with each input slot and where it resolves to.
func PrintPipelineReport(document string, g *primitive.Graph) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)

	bold.Println("fegraph - Filter Pipeline Report")
	bold.Println("================================")
	fmt.Printf("Document: %s\n", document)
	fmt.Printf("Primitives: %d\n", g.Len())
	fmt.Println()

	dangling := 0
	for i := 0; i < g.Len(); i++ {
		n := g.Node(i)
		cyan.Printf("%2d. %s\n", i, n.Kind)

		for slot := 0; slot < g.InputCount(i); slot++ {
			res := g.Resolve(i, slot)
			switch res.Kind {
			case primitive.Standard:
				fmt.Printf("      in[%d] <- %s\n", slot, ref.SourceKeyword(res.Source))
			case primitive.Producer:
				green.Printf("      in[%d] <- #%d (%s)\n", slot, res.NodeIndex, g.Node(res.NodeIndex).Kind)
			case primitive.ImplicitPrevious:
				if res.NodeIndex < 0 {
					yellow.Printf("      in[%d] <- %s (implicit)\n", slot, ref.SourceKeyword(0))
				} else {
					yellow.Printf("      in[%d] <- #%d (implicit)\n", slot, res.NodeIndex)
				}
			default:
				red.Printf("      in[%d] <- unresolved\n", slot)
				dangling++
			}
		}
	}
	fmt.Println()

	if dangling > 0 {
		yellow.Printf("Summary: %d unresolved input(s)\n", dangling)
		fmt.Println("  Unresolved inputs render as transparent black.")
	} else {
		green.Println("Summary: every input resolves")
	}

	if err := primitive.Verify(g); err != nil {
		red.Printf("Consistency: %v\n", err)
	} else {
		green.Println("✓ Pipeline is ordered and acyclic")
	}
}
