package main

import (
	"context"
	"fmt"

	"github.com/aretw0/canvass/internal/cli"
	"github.com/aretw0/canvass/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes feedback sessions as MCP tools, so an assistant can interview
a user and submit the answers.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// stdout belongs to JSON-RPC, logs go to stderr.
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
		srv := mcp.NewServer(stack.Engine, sessions, mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			logger.Info("starting MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			logger.Info("starting MCP server (sse)", "port", port)
			if err := srv.ServeSSE(sigCtx, port); err != nil {
				return err
			}
			logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().String("sink", "", "Where records go: memory, file, http, redis or mongo")
	mcpCmd.Flags().String("store", "", "Live session store: memory, file or redis")
	configFlags(mcpCmd.Flags(), "sink", "store")
}
