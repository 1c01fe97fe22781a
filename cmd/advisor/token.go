package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"school-advisor/internal/config"
	"school-advisor/internal/service"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development access token for a user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		svc := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL())
		token, expiresAt, err := svc.IssueAccessToken(userID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("user", "", "User id to embed in the token")
	_ = tokenCmd.MarkFlagRequired("user")
}
