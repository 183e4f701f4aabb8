package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/msalah0e/schemaview/internal/server"
	"github.com/msalah0e/schemaview/internal/ui"
)

// serverConfig maps the loaded config onto the server settings.
func serverConfig() server.Config {
	c := settings()
	return server.Config{
		Addr:         c.Server.Addr,
		BaseURL:      c.Server.BaseURL,
		Layout:       c.Spacing(),
		Palette:      c.RenderPalette(),
		Measurer:     c.Measurer(),
		Zoom:         c.Camera(),
		Animation:    c.AnimationDuration(),
		ViewerWidth:  c.Layout.ViewerWidth,
		ViewerHeight: c.Layout.ViewerHeight,
	}
}

func serveCmd() *cobra.Command {
	var (
		addr    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive viewer",
		Long: `Serve the catalog over HTTP. Open the printed address in a browser to browse
schemas; links copied from the viewer reopen the same node.

  schemaview serve
  schemaview serve --addr :9000
  SCHEMAVIEW_BASE_URL=https://schemas.example.com/ schemaview serve`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			sc := serverConfig()
			if addr != "" {
				sc.Addr = addr
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			srv := server.New(sc, catalog(), logger)

			ui.Banner("viewer")
			ui.Good.Printf("  %s Listening on http://%s\n", ui.StatusIcon(true), sc.Addr)
			ui.Subtle.Println("  Press Ctrl+C to stop")
			fmt.Println()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()

			select {
			case err := <-errc:
				if err != nil {
					ui.Bad.Printf("  Server failed: %v\n", err)
					os.Exit(1)
				}
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
					ui.Bad.Printf("  Shutdown failed: %v\n", err)
					os.Exit(1)
				}
				ui.Subtle.Println("  Stopped")
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")
	return cmd
}
