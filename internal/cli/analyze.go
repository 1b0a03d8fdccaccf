package cli

import (
	"fmt"

	"github.com/bidgoat/bidgoat/internal/analysis"
	"github.com/bidgoat/bidgoat/internal/config"
	"github.com/bidgoat/bidgoat/internal/dataset"
	"github.com/bidgoat/bidgoat/internal/report"
	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type analyzeFlags struct {
	metric       string
	alpha        float64
	confidence   float64
	controlSheet string
	testSheet    string
	head         int
	format       string
	save         bool
	interactive  bool
}

func (f *analyzeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.metric, "metric", "m", analysis.DefaultMetric, "numeric column to compare (env "+config.EnvMetric+")")
	fs.Float64Var(&f.alpha, "alpha", 0.05, "significance level (env "+config.EnvAlpha+")")
	fs.Float64Var(&f.confidence, "confidence", 0.95, "confidence level of the mean intervals (env "+config.EnvConfidence+")")
	fs.IntVar(&f.head, "head", 5, "rows shown in head and tail (env "+config.EnvHeadRows+")")
	fs.StringVarP(&f.format, "format", "f", "text", "output format: text, json or yaml (env "+config.EnvFormat+")")
	fs.BoolVar(&f.save, "save", false, "save the run to the history database")
	fs.BoolVarP(&f.interactive, "interactive", "i", false, "pick the metric from a list")
	registerSheetFlags(cmd, &f.controlSheet, &f.testSheet)
}

func registerSheetFlags(cmd *cobra.Command, control, test *string) {
	cmd.Flags().StringVar(control, "control-sheet", "Control Group", "control group sheet (env "+config.EnvControlSheet+")")
	cmd.Flags().StringVar(test, "test-sheet", "Test Group", "test group sheet (env "+config.EnvTestSheet+")")
}

// apply copies the flags the user set onto cfg.
func (f *analyzeFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("metric") {
		cfg.Metric = f.metric
	}
	if fs.Changed("alpha") {
		cfg.Alpha = f.alpha
	}
	if fs.Changed("confidence") {
		cfg.Confidence = f.confidence
	}
	if fs.Changed("head") {
		cfg.HeadRows = f.head
	}
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	applySheetFlags(cmd, cfg, f.controlSheet, f.testSheet)
}

func applySheetFlags(cmd *cobra.Command, cfg *config.Config, control, test string) {
	if cmd.Flags().Changed("control-sheet") {
		cfg.ControlSheet = control
	}
	if cmd.Flags().Changed("test-sheet") {
		cfg.TestSheet = test
	}
}

func newAnalyzeCmd(a *app) *cobra.Command {
	flags := &analyzeFlags{}

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run the full A/B test on a workbook",
		Long: `Load the control and test sheets, describe both samples, check the test
assumptions and run the selected two-sample test.

Examples:
  bidgoat analyze ab_testing.xlsx
  bidgoat analyze ab_testing.xlsx --metric Earning --alpha 0.01
  bidgoat analyze --format json --save`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, args []string, flags *analyzeFlags) error {
	cfg := a.cfg
	if len(args) == 1 {
		cfg.Input = args[0]
	}
	flags.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	log := zerolog.Ctx(ctx)

	wb, err := dataset.LoadWorkbook(cfg.Input, cfg.ControlSheet, cfg.TestSheet)
	if err != nil {
		return err
	}
	log.Info().
		Str("input", cfg.Input).
		Int("control_rows", wb.Control.Len()).
		Int("test_rows", wb.Test.Len()).
		Msg("loaded workbook")

	if flags.interactive {
		metric, err := selectMetric(sharedNumericColumns(wb), cfg.Metric)
		if err != nil {
			return err
		}
		cfg.Metric = metric
	}

	rep, err := analysis.Run(ctx, wb.Control, wb.Test, a.options())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if flags.save {
		err := withStore(cfg.DBPath, func(s *store.SQLiteStore) error {
			return saveReport(ctx, s, rep)
		})
		if err != nil {
			return err
		}
		log.Info().Str("run_id", rep.ID).Str("db", cfg.DBPath).Msg("saved run")
	}

	return report.Write(cmd.OutOrStdout(), rep, format)
}

func (a *app) options() analysis.Options {
	return analysis.Options{
		Input:      a.cfg.Input,
		Metric:     a.cfg.Metric,
		Alpha:      a.cfg.Alpha,
		Confidence: a.cfg.Confidence,
		HeadRows:   a.cfg.HeadRows,
	}
}

func sharedNumericColumns(wb *dataset.Workbook) []string {
	var names []string
	for _, name := range wb.Control.NumericColumns() {
		if c, ok := wb.Test.Column(name); ok && c.Type == dataset.TypeFloat {
			names = append(names, name)
		}
	}
	return names
}
