package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/spf13/cobra"
)

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		Long:  `List every run saved with 'analyze --save', newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(a.cfg.DBPath, func(s *store.SQLiteStore) error {
				runs, err := s.ListRuns(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to list runs: %w", err)
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No saved runs yet.")
					fmt.Fprintln(out)
					fmt.Fprintln(out, "Save one with:")
					fmt.Fprintln(out, "  bidgoat analyze ab_testing.xlsx --save")
					return nil
				}

				// Print table
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tINPUT\tMETRIC\tTEST\tSTATISTIC\tP-VALUE\tRESULT\tCREATED")

				for _, run := range runs {
					result := "NOT SIGNIFICANT"
					if run.Rejected {
						result = "SIGNIFICANT"
					}

					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\t%.4f\t%s\t%s\n",
						shortID(run.ID),
						run.Input,
						run.Metric,
						strings.ToUpper(run.Selected),
						run.Statistic,
						run.PValue,
						result,
						run.CreatedAt.Format("2006-01-02 15:04"),
					)
				}

				return w.Flush()
			})
		},
	}
}
