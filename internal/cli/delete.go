package cli

import (
	"fmt"

	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a saved run",
		Long:  `Delete a saved run and its checks. The id may be abbreviated to any unique prefix.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(a.cfg.DBPath, func(s *store.SQLiteStore) error {
				ctx := cmd.Context()
				run, err := findRun(ctx, s, args[0])
				if err != nil {
					return err
				}
				if err := s.DeleteRun(ctx, run.ID); err != nil {
					return fmt.Errorf("failed to delete run: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", run.ID)
				return nil
			})
		},
	}
}
