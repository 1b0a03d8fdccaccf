package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bidgoat/bidgoat/internal/config"
	"github.com/bidgoat/bidgoat/internal/server"
	"github.com/bidgoat/bidgoat/internal/store"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port  int
		token string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve saved runs over HTTP",
		Long: `Serve the run history read-only over HTTP.

Endpoints:
  GET /health                 status and run count
  GET /api/runs               saved runs, newest first
  GET /api/runs/<id>          full report as JSON
  GET /api/runs/<id>/checks   hypothesis tests of one run
  GET /runs/<id>              text report

Everything except /health needs the access token, passed as
'Authorization: Bearer <token>' or once as ?token=<token>.

Example:
  bidgoat serve --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withStore(a.cfg.DBPath, func(s *store.SQLiteStore) error {
				return server.New(s, a.cfg.Port, token).Run(ctx)
			})
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "port to listen on (env "+config.EnvPort+")")
	cmd.Flags().StringVar(&token, "token", "", "access token (random when empty)")

	return cmd
}
