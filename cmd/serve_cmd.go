package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dzjyyds666/qent/pkg/metrics"
	"github.com/dzjyyds666/qent/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parser over HTTP",
	Long: `Serve POST /v1/parse?profile=&format=&key=&value= with q-entities text as the body.
Parse errors answer 422 with the error kind and location. /healthz and /metrics
(Prometheus) are served alongside.`,
	Args: cobra.NoArgs,
	RunE: serveRun,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int64("max-body-bytes", 64<<20, "largest accepted request body")
	bindFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	bindFlag("serve.max_body_bytes", serveCmd.Flags().Lookup("max-body-bytes"))
}

func serveRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(appCfg, logger, metrics.NewCollector("qent", nil))
	return srv.Run(ctx)
}
