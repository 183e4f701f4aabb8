package cmd

import (
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/config"
	"github.com/msalah0e/schemaview/internal/ui"
)

var version = "0.3.0"

var (
	samplesFS  fs.FS
	configPath string
	noColor    bool
	cfg        *config.Config
)

// SetSamplesFS sets the embedded filesystem holding the sample schemas.
func SetSamplesFS(fsys fs.FS) {
	samplesFS = fsys
}

var rootCmd = &cobra.Command{
	Use:   "schemaview",
	Short: "schemaview — browse JSON Schemas as interactive trees",
	Long: ui.Brand.Sprint(ui.Tree+" schemaview") + " — browse JSON Schemas as collapsible trees\n" +
		ui.Subtle.Sprint("Outline, search and diff schemas in the terminal, or serve the interactive viewer"),
	Version:       version + " " + ui.Tree,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine
		_ = godotenv.Load()
		if configPath != "" {
			c, err := config.LoadFile(configPath)
			if err != nil {
				return err
			}
			cfg = c
		} else {
			cfg = config.Load()
		}
		ui.SetColor(cfg.UI.Color && !noColor)
		return nil
	},
}

func init() {
	rootCmd.SetVersionTemplate("schemaview {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/schemaview/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(
		listCmd(),
		showCmd(),
		renderCmd(),
		searchCmd(),
		infoCmd(),
		checkCmd(),
		diffCmd(),
		serveCmd(),
		configCmd(),
		completionCmd(),
	)
}

// settings returns the loaded config. Shell completion runs without the
// pre-run hook, so it loads the defaults on first use.
func settings() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		ui.Bad.Printf("  schemaview: %v\n", err)
	}
	return err
}
