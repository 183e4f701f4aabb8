package graph

import (
	"fmt"
	"strings"

	"github.com/msalah0e/schemaview/internal/render"
	"github.com/msalah0e/schemaview/internal/schema"
)

// ExportDOT returns the whole tree under root in Graphviz DOT format. Node
// names match the element ids of the viewer.
func ExportDOT(root *schema.Node, palette render.Palette) string {
	var b strings.Builder
	b.WriteString("digraph schema {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n\n")

	root.Walk(func(n *schema.Node) {
		attrs := []string{fmt.Sprintf("label=%q", schema.Label(n))}
		if n.Kind() == schema.KindClass {
			attrs = append(attrs, "shape=ellipse", fmt.Sprintf("color=%q", palette.CircleBorder))
		}
		if schema.Deprecated(n) {
			attrs = append(attrs, fmt.Sprintf("fontcolor=%q", palette.DeprecatedText))
		}
		fmt.Fprintf(&b, "  %q [%s];\n", render.ElementID(n.ID()), strings.Join(attrs, ", "))
	})

	b.WriteString("\n")
	root.Walk(func(n *schema.Node) {
		if p := n.Parent(); p != nil {
			fmt.Fprintf(&b, "  %q -> %q;\n", render.ElementID(p.ID()), render.ElementID(n.ID()))
		}
	})

	b.WriteString("}\n")
	return b.String()
}
