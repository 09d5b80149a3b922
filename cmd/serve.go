package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/max-longrun/bison-mcp/internal/server"
	"github.com/max-longrun/bison-mcp/pkg/logging"
)

var (
	serveTransport      string
	serveAddr           string
	servePublicURL      string
	serveMetricsAddr    string
	serveAllowedOrigins []string
	serveReadOnly       bool
	serveWatch          bool
)

// serveCmd starts the MCP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Starts the EmailBison MCP server.

Transports:
  stdio            JSON-RPC over stdin/stdout (default, for desktop MCP hosts)
  streamable-http  Streamable HTTP on <addr>/mcp
  sse              HTTP+SSE on <addr>/sse and <addr>/message

The HTTP transports also serve /metrics (Prometheus) and /healthz. Use
--metrics-addr to expose them on a separate listener, which is the only way
to reach them with the stdio transport.

With --read-only every tool that changes state is refused. With --watch the
configuration file is reloaded whenever it changes.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, err := server.ParseTransport(serveTransport)
	if err != nil {
		return err
	}

	rt, err := newRuntime(serveReadOnly)
	if err != nil {
		return err
	}

	cfg := server.Config{
		Version:        GetVersion(),
		Transport:      transport,
		Addr:           serveAddr,
		PublicURL:      servePublicURL,
		MetricsAddr:    serveMetricsAddr,
		AllowedOrigins: serveAllowedOrigins,
		Defaults:       rt.defaults,
	}
	if serveWatch {
		if rt.configFile == "" {
			logging.Warn("Serve", "--watch ignored: accounts come from the environment, not from a file")
		} else {
			cfg.WatchPath = rt.configFile
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, rt.dispatcher, rt.metrics)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logging.Info("Serve", "Serving %d tool(s) for account(s) %v (default %q, read-only %t)",
		len(rt.dispatcher.Tools()), rt.registry.Names(), rt.registry.DefaultAccount(), serveReadOnly)

	select {
	case <-ctx.Done():
	case <-srv.Done():
		logging.Info("Serve", "Client closed the stdio stream")
	}
	return srv.Stop(context.Background())
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveTransport, "transport", string(server.TransportStdio), "MCP transport: stdio, streamable-http or sse")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8090", "Listen address of the HTTP transports")
	serveCmd.Flags().StringVar(&servePublicURL, "public-url", "", "Externally visible base URL announced by the SSE transport")
	serveCmd.Flags().StringVar(&serveMetricsAddr, "metrics-addr", "", "Separate listen address for /metrics and /healthz")
	serveCmd.Flags().StringSliceVar(&serveAllowedOrigins, "allowed-origin", nil, "CORS origins allowed on the HTTP transports (default any)")
	serveCmd.Flags().BoolVar(&serveReadOnly, "read-only", false, "Refuse every tool that changes state")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload the configuration file when it changes")
}
