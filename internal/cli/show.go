package cli

import (
	"github.com/bidgoat/bidgoat/internal/report"
	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved report",
		Long: `Render a saved run again. The id may be abbreviated to any unique prefix.

Example:
  bidgoat show 5f0c2b7e --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("format") {
				a.cfg.Format = format
			}
			f, err := report.ParseFormat(a.cfg.Format)
			if err != nil {
				return err
			}

			return withStore(a.cfg.DBPath, func(s *store.SQLiteStore) error {
				run, err := findRun(cmd.Context(), s, args[0])
				if err != nil {
					return err
				}
				rep, err := decodeReport(run)
				if err != nil {
					return err
				}
				return report.Write(cmd.OutOrStdout(), rep, f)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml")

	return cmd
}
