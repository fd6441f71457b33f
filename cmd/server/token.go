package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"onboard/internal/identity/models"
	identityservice "onboard/internal/identity/service"
	"onboard/internal/identity/token"
	"onboard/internal/platform/config"
	"onboard/internal/platform/logger"
	"onboard/internal/platform/redis"
)

// tokenCmd starts a session for a person and prints its bearer token. The
// session lands in the configured Redis, so the token works against a running
// server that shares it.
func tokenCmd(v *viper.Viper) *cobra.Command {
	var req models.StartSessionRequest
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Start a session and print its access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			log := logger.New(cfg.Server.LogLevel)

			client, err := redis.New(ctx, cfg.Redis)
			if err != nil {
				return err
			}
			if client == nil {
				return fmt.Errorf("token requires ONBOARD_REDIS_URL so the server can see the session")
			}
			defer client.Close()

			svc := identityservice.New(sessionStore(client),
				token.New(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer, cfg.Auth.Audience),
				identityservice.WithLogger(log),
				identityservice.WithSessionTTL(cfg.Auth.SessionTTL),
			)
			_, accessToken, err := svc.Start(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), accessToken)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Email, "email", "", "email of the person")
	cmd.Flags().StringVar(&req.FiscalCode, "fiscal-code", "", "personal fiscal code")
	cmd.Flags().StringVar(&req.GivenName, "given-name", "", "given name")
	cmd.Flags().StringVar(&req.FamilyName, "family-name", "", "family name")
	cmd.Flags().StringVar(&req.Role, "role", "ORG_DELEGATE", "platform role")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("fiscal-code")
	return cmd
}
