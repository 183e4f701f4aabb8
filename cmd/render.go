package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/graph"
	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/server"
	"github.com/msalah0e/schemaview/internal/ui"
)

func renderCmd() *cobra.Command {
	var (
		format    string
		path      string
		out       string
		expandAll bool
	)

	cmd := &cobra.Command{
		Use:   "render <schema>",
		Short: "Render a still of the schema tree",
		Long: `Render the tree the way the viewer first shows it.

  schemaview render sdl-schema-2.6.0 > scene.svg
  schemaview render sdl-schema-2.6.0 --path '[4,0]' -o shapes.svg   # focused on a node
  schemaview render sdl-schema-2.6.0 --expand-all -o all.svg
  schemaview render sdl-schema-2.6.0 --format dot | dot -Tpng > tree.png
  schemaview render sdl-schema-2.6.0 --format json                   # laid-out nodes and links`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: schemaCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			snap := mustLoad(cmd.Context(), args[0])
			srv := serverConfig()

			var focus *schema.Node
			if path != "" {
				p, err := schema.DecodePath(path)
				if err == nil {
					focus, err = schema.NodeAt(snap.Root, p)
				}
				if err != nil {
					ui.Bad.Printf("  Invalid --path %s: %v\n", path, err)
					os.Exit(1)
				}
			}

			if !slices.Contains(renderFormats, format) {
				ui.Bad.Printf("  Unknown format %q (want svg, dot or json)\n", format)
				os.Exit(1)
			}

			var w io.Writer = os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					ui.Bad.Printf("  Failed to create %s: %v\n", out, err)
					os.Exit(1)
				}
				defer f.Close()
				w = f
			}

			if err := writeRender(w, srv, snap.Root, snap.Name, format, focus, expandAll); err != nil {
				ui.Bad.Printf("  Failed to render %s: %v\n", snap.Name, err)
				os.Exit(1)
			}
			if out != "" {
				ui.Good.Printf("  %s Wrote %s\n", ui.StatusIcon(true), out)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "Output format: svg, dot or json")
	cmd.Flags().StringVar(&path, "path", "", "Focus the node at this path, e.g. '[1,0]'")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&expandAll, "expand-all", false, "Open every node")
	return cmd
}

var renderFormats = []string{"svg", "dot", "json"}

func writeRender(w io.Writer, srv server.Config, root *schema.Node, title, format string, focus *schema.Node, expandAll bool) error {
	if format == "dot" {
		_, err := io.WriteString(w, graph.ExportDOT(root, srv.Palette))
		return err
	}
	if !slices.Contains(renderFormats, format) {
		return fmt.Errorf("unknown format %q", format)
	}
	view, err := srv.Still(root, focus, expandAll)
	if err != nil {
		return err
	}
	if format == "svg" {
		return srv.WriteSVG(w, view, title)
	}
	data, err := json.MarshalIndent(view, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
