// ABOUTME: Serve command runs the HTTP ask endpoint
// ABOUTME: Hot-reloads local corpus files and shuts down on SIGINT/SIGTERM
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/folio/internal/server"
)

var (
	serveAddr string
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP ask endpoint",
		Long: `Start the HTTP server.

Endpoints:
  POST /api/ask      {"prompt": "..."} -> streamed answer (text/event-stream)
  GET  /api/health   status and passage count
  GET  /api/corpus   passages in corpus order

Examples:
  folio serve
  folio serve --addr :8080`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default FOLIO_ADDR or :3000)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.Watch(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}

	addr := a.Config.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(a.Asker, server.Options{
		Addr:            addr,
		InterruptPolicy: a.Config.InterruptPolicy,
		StreamFormat:    a.Config.StreamFormat,
	})
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	if !quiet {
		log.Println("Shutdown complete")
	}
	return nil
}
