package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/aretw0/canvass/internal/cli"
	httpadapter "github.com/aretw0/canvass/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves feedback sessions over a JSON API with live updates (SSE)
and Prometheus metrics on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := cli.NewLogger(cfg, false)

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		stack, err := cli.Build(sigCtx, cfg, logger)
		if err != nil {
			return err
		}
		defer stack.Close(context.Background())

		sessions, err := stack.OpenSessions()
		if err != nil {
			return err
		}

		handler := httpadapter.NewHandler(stack.Engine, sessions,
			httpadapter.WithLogger(logger),
			httpadapter.WithGatherer(stack.Registry),
		)

		ln, err := net.Listen("tcp", cfg.Addr)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		logger.Info("serving catalog", "catalog", stack.Catalog.Name(), "store", cfg.Store, "sink", cfg.Sink)
		return cli.Serve(sigCtx, srv, ln, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (default :8080)")
	serveCmd.Flags().String("store", "", "Live session store: memory, file or redis")
	serveCmd.Flags().String("sink", "", "Where records go: memory, file, http, redis or mongo")
	serveCmd.Flags().String("redis-url", "", "Redis URL for the redis store and sink")
	serveCmd.Flags().Duration("session-ttl", 0, "Expiry of abandoned sessions in Redis")
	serveCmd.Flags().Bool("mask-pii", false, "Mask e-mail, phone and last name fields before delivery")
	serveCmd.Flags().String("pii-fields", "", "Comma separated field patterns to mask instead of the defaults")
	configFlags(serveCmd.Flags(), "addr", "store", "sink", "redis-url", "session-ttl", "mask-pii", "pii-fields")
}
