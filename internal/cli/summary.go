package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"eaccore/internal/core"
	"eaccore/internal/summary"
)

// SummaryCmd prints the dashboard statistics of one entity collection.
func SummaryCmd(env *Env) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print totals, top breakdowns and geography for an entity collection",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print the summary as JSON")

	views := []struct {
		use, title string
		load       func(ctx context.Context, svc *core.Service) (summary.Summary, error)
	}{
		{"certificates", "Certificates", func(ctx context.Context, svc *core.Service) (summary.Summary, error) {
			o, err := svc.CertificateOverview(ctx)
			return o.Summary, err
		}},
		{"sources", "Production sources", func(ctx context.Context, svc *core.Service) (summary.Summary, error) {
			o, err := svc.ProductionSourceOverview(ctx)
			return o.Summary, err
		}},
		{"events", "Events", func(ctx context.Context, svc *core.Service) (summary.Summary, error) {
			o, _, err := svc.EventOverview(ctx)
			return o.Summary, err
		}},
		{"organizations", "Organizations", func(ctx context.Context, svc *core.Service) (summary.Summary, error) {
			o, err := svc.OrganizationOverview(ctx)
			return o.Summary, err
		}},
	}
	for _, v := range views {
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: "Summarize " + strings.ToLower(v.title),
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, ctx, err := env.App(cmd)
				if err != nil {
					return err
				}
				s, err := v.load(ctx, a.Service)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(s)
				}
				printSummary(cmd.OutOrStdout(), v.title, s)
				return nil
			},
		})
	}
	return cmd
}

func printSummary(w io.Writer, title string, s summary.Summary) {
	heading := color.New(color.Bold)
	fmt.Fprintf(w, "%s: %d\n", heading.Sprint(title), s.Total)
	for _, f := range s.Fields {
		fmt.Fprintf(w, "  %s (%d distinct): %s\n", f.Name, f.Distinct, joinCounts(f.Top))
	}
	if len(s.TopCountries) == 0 && s.UniqueCountries == 0 {
		return
	}
	parts := make([]string, len(s.TopCountries))
	for i, c := range s.TopCountries {
		parts[i] = fmt.Sprintf("%s %d", c.Name, c.Count)
	}
	fmt.Fprintf(w, "  countries (%d unique): %s\n", s.UniqueCountries, strings.Join(parts, ", "))
}

func joinCounts(counts []summary.Count) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s %d", c.Value, c.Count)
	}
	return strings.Join(parts, ", ")
}
