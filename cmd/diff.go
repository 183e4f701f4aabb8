package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/graph"
	"github.com/msalah0e/schemaview/internal/ui"
)

func diffCmd() *cobra.Command {
	var context int

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare the trees of two schemas",
		Long: `Print a unified diff of the outlines of two schemas. Exits 1 when they differ.

  schemaview diff sdl-schema-2.5.0 sdl-schema-2.6.0`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: schemaCompletionFunc,
		Run: func(cmd *cobra.Command, args []string) {
			a := mustLoad(cmd.Context(), args[0])
			b := mustLoad(cmd.Context(), args[1])

			out, err := graph.Diff(a.Name, b.Name, a.Root, b.Root, context)
			if err != nil {
				ui.Bad.Printf("  Failed to diff: %v\n", err)
				os.Exit(1)
			}
			if out == "" {
				ui.Good.Printf("  %s Same tree\n", ui.StatusIcon(true))
				return
			}

			for _, line := range strings.SplitAfter(out, "\n") {
				switch {
				case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
					fmt.Print(ui.Subtle.Sprint(line))
				case strings.HasPrefix(line, "+"):
					fmt.Print(ui.Good.Sprint(line))
				case strings.HasPrefix(line, "-"):
					fmt.Print(ui.Bad.Sprint(line))
				default:
					fmt.Print(line)
				}
			}
			os.Exit(1)
		},
	}

	cmd.Flags().IntVarP(&context, "context", "U", graph.DefaultContext, "Unchanged lines around each change")
	return cmd
}
