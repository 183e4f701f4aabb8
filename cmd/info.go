package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/share"
	"github.com/msalah0e/schemaview/internal/ui"
)

func infoCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "info <schema> [path]",
		Short: "Show details and a share link for one node",
		Long: `Show the details panel of a node. path is a JSON array of child indices as
printed by search; without it the root is shown.

  schemaview info sdl-schema-2.6.0 '[4]'`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: schemaCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			snap := mustLoad(cmd.Context(), args[0])

			n := snap.Root
			if len(args) == 2 {
				path, err := schema.DecodePath(args[1])
				if err == nil {
					n, err = schema.NodeAt(snap.Root, path)
				}
				if err != nil {
					ui.Bad.Printf("  No node at %s: %v\n", args[1], err)
					os.Exit(1)
				}
			}

			details := schema.Describe(n)
			link, err := share.URLToNode(baseURL(), snap.Name, n)
			if err != nil {
				ui.Bad.Printf("  Failed to build share link: %v\n", err)
				os.Exit(1)
			}

			if jsonOutput {
				data, _ := json.MarshalIndent(map[string]any{
					"details": details,
					"path":    schema.PathTo(n),
					"share":   link,
				}, "", "  ")
				fmt.Println(string(data))
				return
			}

			ui.Banner("node info")
			name := ui.Brand.Sprint(details.Name)
			if details.Deprecated {
				name = ui.Warn.Sprint(details.Name) + " " + ui.Warn.Sprint("(deprecated)")
			}
			fmt.Printf("  %s %s\n", name, ui.Subtle.Sprintf("(%s)", details.Kind))
			if details.Description != "" {
				fmt.Printf("  %s\n", details.Description)
			}
			fmt.Println()
			fmt.Printf("  Type:      %s\n", details.Type)
			fmt.Printf("  Path:      %s\n", schema.EncodePath(schema.PathTo(n)))
			fmt.Printf("  Children:  %d\n", len(n.Children()))
			fmt.Printf("  Share:     %s\n", ui.Info.Sprint(link))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// baseURL is where share links point: the configured base URL, else the
// local viewer address.
func baseURL() string {
	c := settings()
	if c.Server.BaseURL != "" {
		return c.Server.BaseURL
	}
	return "http://" + c.Server.Addr + "/"
}
