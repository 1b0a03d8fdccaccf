package cli

import (
	"github.com/bidgoat/bidgoat/internal/config"
	"github.com/bidgoat/bidgoat/internal/logger"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	cfg *config.Config
}

// NewRootCmd builds the command tree. Running without a subcommand
// analyzes the workbook, same as 'bidgoat analyze'.
func NewRootCmd() *cobra.Command {
	a := &app{}
	flags := &analyzeFlags{}

	rootCmd := &cobra.Command{
		Use:   "bidgoat [file]",
		Short: "bidgoat - A/B test analysis of maximum vs average bidding",
		Long: `bidgoat compares a control group (maximum bidding) with a test group
(average bidding) read from one spreadsheet.

It checks normality and homogeneity of variance, picks the matching
two-sample test and reports whether the groups differ at alpha.

Running without a subcommand analyzes the workbook (same as 'bidgoat analyze').`,
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, args, flags)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("db", "./bidgoat.db", "history database path (env "+config.EnvDBPath+")")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error (env "+config.EnvLogLevel+")")
	rootCmd.PersistentFlags().String("log-format", "console", "log format: console or json (env "+config.EnvLogFormat+")")
	flags.register(rootCmd)

	rootCmd.AddCommand(
		newAnalyzeCmd(a),
		newDescribeCmd(a),
		newHistoryCmd(a),
		newShowCmd(a),
		newExportCmd(a),
		newDeleteCmd(a),
		newServeCmd(a),
	)

	return rootCmd
}

func Execute() error {
	return NewRootCmd().Execute()
}

// setup loads the configuration, applies the global flags and attaches
// a logger to the command context.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fs := cmd.Flags()
	if fs.Changed("db") {
		cfg.DBPath, _ = fs.GetString("db")
	}
	if fs.Changed("log-level") {
		cfg.LogLevel, _ = fs.GetString("log-level")
	}
	if fs.Changed("log-format") {
		cfg.LogFormat, _ = fs.GetString("log-format")
	}
	a.cfg = cfg

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}
