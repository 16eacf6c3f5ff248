package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/room-reservation/internal/config"
	"github.com/iliyamo/room-reservation/internal/utils"
)

func tokenCmd() *cobra.Command {
	var (
		subject string
		ttl     int
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the reservation API",
		Long: `Mint an HS256 access token signed with JWT_SECRET.

The token is printed on stdout and can be sent as
    Authorization: Bearer <token>
on POST, PUT and DELETE requests.
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			if ttl <= 0 {
				ttl = cfg.AccessTTLMin
			}
			tok, err := utils.NewAccessToken(cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "sub", "", "Token subject (who is making reservations)")
	cmd.Flags().IntVar(&ttl, "ttl", 0, "Lifetime in minutes (default ACCESS_TOKEN_TTL_MIN)")
	_ = cmd.MarkFlagRequired("sub")
	return cmd
}
