package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/parallel"
	"github.com/msalah0e/schemaview/internal/registry"
	"github.com/msalah0e/schemaview/internal/session"
	"github.com/msalah0e/schemaview/internal/ui"
)

func checkCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "check [file|dir|name...]",
		Short: "Parse schemas and report the ones the viewer cannot show",
		Long: `Parse every given schema in parallel. Directories are checked file by file;
with no arguments the whole catalog is checked.

  schemaview check
  schemaview check ./schemas scene.json`,
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			tasks, err := checkTasks(ctx, args)
			if err != nil {
				ui.Bad.Printf("  %v\n", err)
				os.Exit(1)
			}
			if len(tasks) == 0 {
				fmt.Println("  Nothing to check.")
				return
			}
			if !cmd.Flags().Changed("concurrency") {
				concurrency = settings().Parallel.Concurrency
			}

			ui.Banner("check")
			results := parallel.Run(ctx, tasks, concurrency, printCheck)

			failed := 0
			for _, r := range results {
				if !r.OK {
					failed++
				}
			}
			fmt.Printf("\n  %d ok", len(results)-failed)
			if failed > 0 {
				fmt.Printf(" · %d failed\n", failed)
				os.Exit(1)
			}
			fmt.Println()
		},
	}

	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 4, "Schemas parsed at once")
	return cmd
}

func checkTasks(ctx context.Context, args []string) ([]parallel.Task, error) {
	if len(args) == 0 {
		return sourceTasks(ctx, catalog(), "")
	}
	var tasks []parallel.Task
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			more, err := sourceTasks(ctx, registry.Dir(arg), arg)
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, more...)
			continue
		}
		src, name, err := resolve(arg)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, checkTask(src, name, arg))
	}
	return tasks, nil
}

func sourceTasks(ctx context.Context, src registry.Source, dir string) ([]parallel.Task, error) {
	names, err := registry.Names(ctx, src)
	if err != nil {
		return nil, err
	}
	tasks := make([]parallel.Task, 0, len(names))
	for _, name := range names {
		label := name
		if dir != "" {
			label = filepath.Join(dir, name)
		}
		tasks = append(tasks, checkTask(src, name, label))
	}
	return tasks, nil
}

func checkTask(src registry.Source, name, label string) parallel.Task {
	return parallel.Task{
		Name: label,
		Fn: func(ctx context.Context) (string, error) {
			snap, err := session.Load(ctx, src, name)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d nodes", snap.Nodes), nil
		},
	}
}

func printCheck(r parallel.Result) {
	if !r.OK {
		fmt.Printf("  %s %s\n", ui.StatusIcon(false), r.Name)
		fmt.Printf("      %s\n", ui.Bad.Sprint(r.Err))
		return
	}
	fmt.Printf("  %s %s %s\n", ui.StatusIcon(true), r.Name, ui.Subtle.Sprintf("(%s, %dms)", r.Output, r.Elapsed.Milliseconds()))
}
