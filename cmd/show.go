package cmd

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/graph"
	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/ui"
)

// nodeJSON is the machine-readable form of a subtree.
type nodeJSON struct {
	schema.Details
	Label    string     `json:"label"`
	Children []nodeJSON `json:"children,omitempty"`
}

func toJSON(n *schema.Node, depth, maxDepth int) nodeJSON {
	out := nodeJSON{Details: schema.Describe(n), Label: schema.Label(n)}
	if maxDepth > 0 && depth >= maxDepth {
		return out
	}
	for _, c := range n.Children() {
		out.Children = append(out.Children, toJSON(c, depth+1, maxDepth))
	}
	return out
}

func outlineStyle() graph.Style {
	return graph.Style{
		Root:       ui.Styler(ui.Brand),
		Class:      ui.Styler(ui.Info),
		Deprecated: ui.Styler(ui.Warn),
		Branch:     ui.Styler(ui.Subtle),
	}
}

func showCmd() *cobra.Command {
	var (
		depth      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "show <schema>",
		Short: "Print a schema as a tree",
		Long: `Print the node tree of a schema. <schema> is a file or a catalog name.

  schemaview show sdl-schema-2.6.0            # Whole tree
  schemaview show sdl-schema-2.6.0 --depth 1  # Top-level properties only
  schemaview show ./scene.schema.json --json  # Nested JSON for scripts`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: schemaCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			snap := mustLoad(cmd.Context(), args[0])

			if jsonOutput {
				data, _ := json.MarshalIndent(toJSON(snap.Root, 0, depth), "", "  ")
				fmt.Println(string(data))
				return
			}

			fmt.Println()
			fmt.Print(graph.Outline(snap.Root, graph.OutlineOptions{MaxDepth: depth, Style: outlineStyle()}))
			fmt.Println()
			fmt.Printf("  %s\n", ui.Subtle.Sprintf("%d nodes, parsed in %s", snap.Nodes, snap.Elapsed.Round(10_000)))
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "Maximum depth to print (0 = all)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
