package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"eaccore/internal/persistence"
)

// MigrateCmd applies the database schema. Opening a SQL store runs its DDL
// bundle, so the command only needs to open and close the application.
func MigrateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the relational tables if they do not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := env.App(cmd)
			if err != nil {
				return err
			}
			driver := a.Config.Database.Driver
			out := cmd.OutOrStdout()
			switch persistence.Driver(driver) {
			case persistence.DriverMemory:
				fmt.Fprintf(out, "%s memory store needs no schema\n", warnMark)
			case persistence.DriverSQLite:
				fmt.Fprintf(out, "%s schema applied (sqlite %s)\n", okMark, a.Config.Database.SQLitePath)
			default:
				fmt.Fprintf(out, "%s schema applied (%s)\n", okMark, driver)
			}
			return nil
		},
	}
}
