package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/asciipip/multiboard-parametric-stacked/pkg/api"
	"github.com/asciipip/multiboard-parametric-stacked/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve board planning over HTTP",
		Long: `Serve runs the HTTP API:

  GET  /healthz
  POST /v1/plans              JSON board request, JSON plan response
  POST /v1/plans/preview.svg  JSON board request, SVG layout preview
  GET  /metrics               Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			metrics := observability.NewPrometheus(reg)
			observability.SetPipelineHooks(metrics)
			observability.SetCacheHooks(metrics)
			observability.SetHTTPHooks(metrics)

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := &api.Server{
				Runner:   runner,
				Config:   c.Config,
				Logger:   logger,
				Gatherer: reg,
			}
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
