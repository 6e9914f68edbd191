package cli

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"contactledger/internal/app"
	jwttoken "contactledger/internal/jwt_token"
	"contactledger/internal/platform/config"
	id "contactledger/pkg/domain"
)

// RegisterCmd provisions an external id on the reference identity provider.
func RegisterCmd(load Loader) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:     "register <external-id>",
		Short:   "Register an external id for an account",
		Args:    cobra.ExactArgs(1),
		Example: `  ocwctl register 0f8fad5b-d9cb-469f-a165-70867728950e --owner acct-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), load, func(a *app.App, _ config.Server) error {
				rec, err := a.Registry.Register(cmd.Context(), args[0], id.AccountID(owner))
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s %s\n", color.New(color.FgGreen).Sprint("registered"), rec.ExternalID)
				fmt.Fprintf(out, "  identity: %s\n", rec.Identity)
				fmt.Fprintf(out, "  owner:    %s\n", rec.Owner)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Account that owns the identity")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

// TokenCmd mints a signer token with the configured signing key.
func TokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <account>",
		Short: "Mint a signer token for an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			svc := jwttoken.NewJWTService(cfg.JWTSigningKey, "contactledger", "contactledger")
			token, err := svc.GenerateSignerToken(id.AccountID(args[0]), ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")

	return cmd
}
