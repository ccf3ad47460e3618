package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/liftnav/internal/cli"
	"github.com/aretw0/liftnav/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the navigation coordinator as MCP tools and resources so agents can
open pages, go back and read the stack.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		_, host, err := loadHost(cmd)
		if err != nil {
			return err
		}
		srv := mcp.NewServer(host.Nav, host.Logger)

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		if _, err := host.StartMirror(ctx); err != nil {
			host.Logger.Warn("redis mirror disabled", "err", err)
		}

		switch transport {
		case "stdio":
			// Keep JSON-RPC on Stdout clean.
			log.SetOutput(os.Stderr)
			host.Logger.Info("Starting liftnav MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			host.Logger.Info("Starting liftnav MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			host.Logger.Info("MCP Server stopped gracefully")
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
}
