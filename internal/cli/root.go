// Package cli implements the eacctl operator commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eaccore/internal/app"
	"eaccore/internal/config"
	"eaccore/internal/identity"
	"eaccore/pkg/domain"
)

// Env carries the global flags and lazily opens the application for the
// command being run.
type Env struct {
	ConfigPath string
	Token      string

	// Open builds the application; tests replace it with an in-memory wiring.
	Open func(ctx context.Context, cfg config.Config) (*app.App, error)

	app *app.App
}

// NewEnv returns an Env that opens the application from configuration.
func NewEnv() *Env {
	return &Env{Open: func(ctx context.Context, cfg config.Config) (*app.App, error) {
		return app.New(ctx, cfg)
	}}
}

// App loads configuration, opens the application once per command and
// returns a context carrying the bearer token.
func (e *Env) App(cmd *cobra.Command) (*app.App, context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	token := e.Token
	if token == "" {
		token = os.Getenv("EAC_TOKEN")
	}
	if token != "" {
		ctx = identity.WithToken(ctx, token)
	}
	if e.app != nil {
		return e.app, ctx, nil
	}
	cfg, err := config.Load(e.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	a, err := e.Open(ctx, *cfg)
	if err != nil {
		return nil, nil, err
	}
	e.app = a
	return a, ctx, nil
}

// Close releases the application opened by App, if any.
func (e *Env) Close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

// RootCmd returns the eacctl command tree bound to env.
func RootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:           "eacctl",
		Short:         "Operate the EAC compliance attachment core",
		Long:          "eacctl manages stored documents, applies the database schema and prints dashboard summaries.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return env.Close()
		},
	}
	root.PersistentFlags().StringVar(&env.ConfigPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&env.Token, "token", "", "bearer token (defaults to $EAC_TOKEN)")

	root.AddCommand(MigrateCmd(env))
	root.AddCommand(DocumentsCmd(env))
	root.AddCommand(SummaryCmd(env))
	root.AddCommand(EventsCmd(env))
	root.AddCommand(TokenCmd(env))
	return root
}

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("!")
	errMark  = color.New(color.FgRed).Sprint("✗")
)

// printWarnings lists non-fatal outcomes. Log-severity entries are only shown
// with verbose output.
func printWarnings(w io.Writer, res domain.Result, verbose bool) {
	for _, warning := range res.Warnings {
		if warning.Severity == domain.SeverityLog && !verbose {
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", warnMark, warning.Code, warning.Message)
	}
}

// Execute runs the command tree bound to env and reports a failure on stderr.
func Execute(env *Env, root *cobra.Command) int {
	err := root.Execute()
	if cerr := env.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "%s %s\n", errMark, domain.MessageOf(err))
		return 1
	}
	return 0
}
