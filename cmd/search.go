package cmd

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/schema"
	"github.com/msalah0e/schemaview/internal/search"
	"github.com/msalah0e/schemaview/internal/ui"
)

type searchHit struct {
	Name  string `json:"name"`
	Trail string `json:"trail"`
	Path  string `json:"path"`
	Type  string `json:"type"`
}

func searchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "search <schema> <query>",
		Aliases: []string{"find"},
		Short:   "Find nodes whose name contains query",
		Long: `Find nodes by name, ignoring case. Queries shorter than two characters match nothing.

  schemaview search sdl-schema-2.6.0 style
  schemaview info sdl-schema-2.6.0 '[4,0,3]'   # use a printed path`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: schemaCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			snap := mustLoad(cmd.Context(), args[0])
			query := args[1]

			var hits []searchHit
			for _, o := range search.Find(search.Index(snap.Root), query, search.MinChars) {
				hits = append(hits, searchHit{
					Name:  o.Label,
					Trail: o.Trail(),
					Path:  schema.EncodePath(schema.PathTo(o.Node)),
					Type:  schema.TypeText(o.Node),
				})
			}

			if jsonOutput {
				if hits == nil {
					hits = []searchHit{}
				}
				data, _ := json.MarshalIndent(hits, "", "  ")
				fmt.Println(string(data))
				return
			}

			if len(hits) == 0 {
				fmt.Printf("  No nodes found matching %q\n", query)
				return
			}

			ui.Banner("search results")
			var rows [][]string
			for _, h := range hits {
				rows = append(rows, []string{h.Name, h.Trail, h.Path, h.Type})
			}
			ui.Table([]string{"NAME", "TRAIL", "PATH", "TYPE"}, rows)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
