package cmd

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/BibleWing/internal/server"
	"github.com/josephgoksu/BibleWing/internal/ui"
)

var (
	servePort    int
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a read-only JSON API on localhost",
	Long: `Serve verses, chapters, search results, linked entities and study notes
over HTTP on 127.0.0.1 for editors and web front ends.

Endpoints:
  GET  /api/info
  GET  /api/verses/{uid}
  GET  /api/verses/{uid}/links
  GET  /api/verses/{uid}/note
  GET  /api/chapters/{book}/{chapter}
  GET  /api/search?q=text
  POST /api/ask   {"question": "...", "uid": "..."}

Examples:
  biblewing serve
  biblewing serve --port 8080 --origin http://localhost:5173`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 5001, "API server port")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origin (repeatable)")
}

func runServe(cmd *cobra.Command) error {
	study, _, err := openStudy(cmd)
	if err != nil {
		return err
	}

	srv := server.New(study, server.Config{Port: servePort, Origins: serveOrigins, Version: GetVersion()}, nil)

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)
	fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess.Render("✓ API listening on http://"+srv.Addr()))
	fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSubtle.Render("  Press Ctrl+C to stop"))

	var runErr error
	select {
	case <-cmd.Context().Done():
	case runErr = <-errChan:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
	wg.Wait()
	return runErr
}
