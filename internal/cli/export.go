package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var exportFormat string

	cmd := &cobra.Command{
		Use:   "export [run-id]",
		Short: "Export saved check results",
		Long: `Export the saved hypothesis test results in CSV or JSON format.
Without a run id every saved run is exported.

Examples:
  bidgoat export --format csv > checks.csv
  bidgoat export 5f0c2b7e --format json > run.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if exportFormat != "csv" && exportFormat != "json" {
				return fmt.Errorf("invalid format: must be 'csv' or 'json'")
			}

			return withStore(a.cfg.DBPath, func(s *store.SQLiteStore) error {
				ctx := cmd.Context()

				runID := ""
				if len(args) == 1 {
					run, err := findRun(ctx, s, args[0])
					if err != nil {
						return err
					}
					runID = run.ID
				}

				checks, err := s.GetChecks(ctx, runID)
				if err != nil {
					return fmt.Errorf("failed to get checks: %w", err)
				}

				if exportFormat == "csv" {
					return exportCSV(cmd.OutOrStdout(), checks)
				}
				return exportJSON(cmd.OutOrStdout(), checks)
			})
		},
	}

	cmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv or json)")

	return cmd
}

func exportCSV(out io.Writer, checks []*store.Check) error {
	w := csv.NewWriter(out)

	// Write header
	if err := w.Write([]string{"timestamp", "run_id", "stage", "subject", "test", "hypothesis", "statistic", "p_value", "rejected"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	// Write rows
	for _, c := range checks {
		row := []string{
			strconv.FormatInt(c.CreatedAt.Unix(), 10),
			c.RunID,
			c.Stage,
			c.Subject,
			c.Name,
			c.Hypothesis,
			strconv.FormatFloat(c.Statistic, 'g', -1, 64),
			strconv.FormatFloat(c.PValue, 'g', -1, 64),
			strconv.FormatBool(c.Rejected),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

type jsonExport struct {
	Checks []jsonCheck `json:"checks"`
}

type jsonCheck struct {
	Timestamp  int64   `json:"timestamp"`
	RunID      string  `json:"run_id"`
	Stage      string  `json:"stage"`
	Subject    string  `json:"subject,omitempty"`
	Test       string  `json:"test"`
	Hypothesis string  `json:"hypothesis"`
	Statistic  float64 `json:"statistic"`
	PValue     float64 `json:"p_value"`
	Rejected   bool    `json:"rejected"`
}

func exportJSON(out io.Writer, checks []*store.Check) error {
	export := jsonExport{
		Checks: make([]jsonCheck, len(checks)),
	}

	for i, c := range checks {
		export.Checks[i] = jsonCheck{
			Timestamp:  c.CreatedAt.Unix(),
			RunID:      c.RunID,
			Stage:      c.Stage,
			Subject:    c.Subject,
			Test:       c.Name,
			Hypothesis: c.Hypothesis,
			Statistic:  c.Statistic,
			PValue:     c.PValue,
			Rejected:   c.Rejected,
		}
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}
