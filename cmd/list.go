package cmd

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/registry"
	"github.com/msalah0e/schemaview/internal/ui"
)

func listCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the schemas in the catalog, newest first",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := sortedEntries(cmd.Context())
			if err != nil {
				ui.Bad.Printf("  Failed to read catalog: %v\n", err)
				os.Exit(1)
			}

			if jsonOutput {
				data, _ := json.MarshalIndent(entries, "", "  ")
				fmt.Println(string(data))
				return
			}

			if len(entries) == 0 {
				fmt.Println("  No schemas found.")
				fmt.Println()
				ui.Info.Println("  schemaview config init   # then set [catalog] dir")
				return
			}

			ui.Banner("catalog")
			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{e.Name, e.Title, e.Description})
			}
			ui.Table([]string{"NAME", "TITLE", "DESCRIPTION"}, rows)
			fmt.Println()
			fmt.Printf("  %s\n", ui.Subtle.Sprintf("%d schemas", len(entries)))
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func sortedEntries(ctx context.Context) ([]registry.Entry, error) {
	entries, err := catalog().Entries(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]registry.Entry, len(entries))
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
		names = append(names, e.Name)
	}
	out := make([]registry.Entry, 0, len(entries))
	for _, n := range registry.Sort(names) {
		out = append(out, byName[n])
	}
	return out, nil
}

// schemaCompletionFunc completes catalog names for the first argument.
func schemaCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	entries, err := sortedEntries(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var completions []string
	for _, e := range entries {
		completions = append(completions, e.Name+"\t"+e.Title)
	}
	return completions, cobra.ShellCompDirectiveDefault
}
