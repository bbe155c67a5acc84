package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"eaccore/internal/identity"
)

// TokenCmd groups the bearer token commands.
func TokenCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue bearer tokens for the configured identity mode",
	}
	cmd.AddCommand(tokenIssueCmd(env))
	return cmd
}

func tokenIssueCmd(env *Env) *cobra.Command {
	var (
		principal identity.Principal
		ttl       time.Duration
	)
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a token for a principal and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if principal.Subject == "" {
				return errors.New("--subject is required")
			}
			a, ctx, err := env.App(cmd)
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = a.Config.Identity.TokenTTL
			}
			var token string
			switch p := a.Identity.(type) {
			case *identity.JWTProvider:
				token, err = p.Issue(principal, ttl)
			case *identity.SessionProvider:
				token = uuid.NewString()
				err = p.Save(ctx, token, principal, ttl)
			default:
				return fmt.Errorf("identity mode %q does not issue tokens", a.Config.Identity.Mode)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&principal.Subject, "subject", "", "principal subject")
	cmd.Flags().StringVar(&principal.Name, "name", "", "principal display name")
	cmd.Flags().StringVar(&principal.Role, "role", "", "principal role")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to identity.token_ttl)")
	return cmd
}
