package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/config"
	"github.com/msalah0e/schemaview/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the schemaview configuration",
		Long: `Settings are read from the user config file, then the nearest
` + config.ProjectFile + ` in or above the working directory, then the environment
(SCHEMAVIEW_CATALOG_DIR, SCHEMAVIEW_ADDR, SCHEMAVIEW_BASE_URL, NO_COLOR).`,
	}

	cmd.AddCommand(configInitCmd(), configShowCmd(), configPathCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default config file if there is none",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if _, err := os.Stat(config.Path()); err == nil {
				fmt.Printf("  %s Config already exists: %s\n", ui.WarnIcon(), config.Path())
				return
			}
			if err := config.EnsureExists(); err != nil {
				ui.Bad.Printf("  Failed to write config: %v\n", err)
				os.Exit(1)
			}
			ui.Good.Printf("  %s Wrote %s\n", ui.StatusIcon(true), config.Path())
		},
	}
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if err := toml.NewEncoder(os.Stdout).Encode(settings()); err != nil {
				ui.Bad.Printf("  Failed to encode config: %v\n", err)
				os.Exit(1)
			}
		},
	}
}

func configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user config file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.Path())
		},
	}
}
