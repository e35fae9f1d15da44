// Package main is the entry point for the publisher service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/flavor-emperor/publisher/internal/app"
	"github.com/flavor-emperor/publisher/internal/config"
)

// version can be set at build time via -ldflags
var version = "dev"

func main() {
	// A missing .env is fine; the environment may be set by the runtime.
	_ = godotenv.Load()

	cfg := config.Load()

	application, err := app.New(app.Options{
		Config:  cfg,
		Version: version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to close application: %v\n", closeErr)
		}
	}()

	if runErr := application.Run(context.Background()); runErr != nil {
		application.Logger().Error("Application error")
		os.Exit(1)
	}
}
