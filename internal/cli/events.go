package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"eaccore/pkg/domain"
)

// EventsCmd groups the event inspection commands.
func EventsCmd(env *Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect lifecycle events and their targets",
	}
	cmd.AddCommand(eventsLabelsCmd(env))
	cmd.AddCommand(eventsForCmd(env))
	return cmd
}

func eventsLabelsCmd(env *Env) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "labels",
		Short: "List every event with the display label of its target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := env.App(cmd)
			if err != nil {
				return err
			}
			listing, res, err := a.Service.EventOverview(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range listing.Items {
				fmt.Fprintf(out, "%s\t%s\t%s\n", e.ID, e.Type, listing.Label(e))
			}
			printWarnings(out, res, verbose)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also show log-level diagnostics")
	return cmd
}

func eventsForCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "for [CERT|PSOURCE] [id]",
		Short: "List the events attached to one certificate or production source",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, ctx, err := env.App(cmd)
			if err != nil {
				return err
			}
			ref := domain.NewTargetRef(domain.EventTarget(strings.ToUpper(args[0])), args[1])
			events, err := a.Service.ListEventsForTarget(ctx, ref)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintf(out, "%s No events for %s\n", warnMark, ref.Key())
				return nil
			}
			for _, e := range events {
				fmt.Fprintf(out, "%s\t%s\n", e.ID, e.Type)
			}
			return nil
		},
	}
}
