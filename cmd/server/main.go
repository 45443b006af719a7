// ABOUTME: Main entry point for the folio HTTP service
// ABOUTME: Loads config, wires the ask pipeline and serves until SIGINT/SIGTERM
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/harper/folio/internal/app"
	"github.com/harper/folio/internal/config"
	"github.com/harper/folio/internal/server"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	for _, w := range cfg.Warnings() {
		log.Printf("Warning: %s", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	if _, err := a.Watch(ctx); err != nil {
		log.Printf("Warning: %v", err)
	}

	srv := server.New(a.Asker, server.Options{
		Addr:            cfg.Addr,
		InterruptPolicy: cfg.InterruptPolicy,
		StreamFormat:    cfg.StreamFormat,
	})
	if err := srv.Start(ctx); err != nil {
		log.Printf("Server error: %v", err)
		return
	}
	log.Println("Shutdown complete")
}
