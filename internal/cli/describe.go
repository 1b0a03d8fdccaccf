package cli

import (
	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/config"
	"github.com/bidgoat/bidgoat/internal/dataset"
	"github.com/bidgoat/bidgoat/internal/report"
	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	var (
		controlSheet, testSheet string
		head                    int
		format                  string
	)

	cmd := &cobra.Command{
		Use:   "describe [file]",
		Short: "Describe both samples without testing",
		Long: `Print shape, types, head, tail, null counts, quantiles and summary
statistics for the control and test sheets.

Example:
  bidgoat describe ab_testing.xlsx --head 10`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if len(args) == 1 {
				cfg.Input = args[0]
			}
			applySheetFlags(cmd, cfg, controlSheet, testSheet)
			if cmd.Flags().Changed("head") {
				cfg.HeadRows = head
			}
			if cmd.Flags().Changed("format") {
				cfg.Format = format
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			f, err := report.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}

			wb, err := dataset.LoadWorkbook(cfg.Input, cfg.ControlSheet, cfg.TestSheet)
			if err != nil {
				return err
			}

			control, test := analysis.Describe(cmd.Context(), wb.Control, wb.Test, a.options())
			return report.WriteSummaries(cmd.OutOrStdout(), f,
				report.Section{Label: analysis.ControlLabel, Summary: control},
				report.Section{Label: analysis.TestLabel, Summary: test},
			)
		},
	}

	registerSheetFlags(cmd, &controlSheet, &testSheet)
	cmd.Flags().IntVar(&head, "head", 5, "rows shown in head and tail (env "+config.EnvHeadRows+")")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json or yaml (env "+config.EnvFormat+")")

	return cmd
}
