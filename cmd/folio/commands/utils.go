// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: App construction from the environment plus output helpers
package commands

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/harper/folio/internal/app"
	"github.com/harper/folio/internal/config"
)

// loadApp reads .env and the environment and wires the pipeline
func loadApp(ctx context.Context) (*app.App, error) {
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	for _, w := range cfg.Warnings() {
		log.Printf("Warning: %s", w)
	}

	return app.New(ctx, cfg)
}

// jsonOutput reports whether the --format flag asks for JSON
func jsonOutput() bool {
	return outputFormat == "json"
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
