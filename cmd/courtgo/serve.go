package main

import (
	"fmt"

	"github.com/kirinyoku/courtgo/internal/app"
	"github.com/kirinyoku/courtgo/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(cfg)

	application, err := app.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	if err := application.Run(cmd.Context()); err != nil {
		return fmt.Errorf("application finished with error: %w", err)
	}

	return nil
}
