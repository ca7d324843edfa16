package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"vidresolve/internal/server"
)

var flagListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the resolver over HTTP",
	Long: `Start an HTTP API exposing GET/POST /api/v1/resolve and GET /health.
The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Listen
		if flagListen != "" {
			addr = flagListen
		}

		pipeline, _ := newPipeline()
		return server.New(pipeline, logrus.StandardLogger()).Start(cmd.Context(), addr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&flagListen, "listen", "l", "", "Listen address (default from config, :8080)")
}
