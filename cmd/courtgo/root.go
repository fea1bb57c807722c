package main

import (
	"log/slog"
	"os"

	"github.com/kirinyoku/courtgo/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "courtgo",
	Short:         "Open tennis court sessions service",
	Long:          `HTTP + WebSocket API for open court sessions. Commands: serve, token.`,
	RunE:          runServe, // default: same as "courtgo serve"
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
}

// Execute runs the root command; errors are logged before returning.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("courtgo failed", "error", err)
		return err
	}
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}
