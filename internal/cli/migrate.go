package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the vault database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer db.Close()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "database %s is up to date\n", rootOpts.Config.DatabaseDSN)
			return err
		},
	}
}
