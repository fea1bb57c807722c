package main

import (
	"fmt"
	"time"

	"github.com/kirinyoku/courtgo/internal/config"
	"github.com/kirinyoku/courtgo/internal/repository/memory"
	"github.com/kirinyoku/courtgo/internal/service/auth"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a bearer token for a seeded user",
	Example: `  courtgo token --user user2
  curl -H "Authorization: Bearer $(courtgo token --user user2)" localhost:8080/auth/session`,
	RunE: runToken,
}

func init() {
	tokenCmd.Flags().StringP("user", "u", "", "user id (defaults to DEMO_USER_ID)")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (defaults to AUTH_SESSION_TTL)")
}

func runToken(cmd *cobra.Command, _ []string) error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	userID, _ := cmd.Flags().GetString("user")
	if userID == "" {
		userID = cfg.DemoUserID
	}

	ttl, _ := cmd.Flags().GetDuration("ttl")
	if ttl <= 0 {
		ttl = cfg.Auth.SessionTTL
	}

	svc := auth.New(memory.NewStore(memory.DefaultSeed(time.Now())), auth.Config{
		Secret:        cfg.Auth.Secret,
		SessionTTL:    ttl,
		DefaultUserID: cfg.DemoUserID,
	})

	s, err := svc.Session(cmd.Context(), userID)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), s.Token)

	return nil
}
