package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/app"
	"github.com/cre-scout/loopnet-mcp/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio.",
		Long: `Serve runs the MCP server on stdin/stdout until the client disconnects
or the process receives SIGINT/SIGTERM. All logging goes to stderr; stdout
carries only protocol messages. When metrics.listen_addr is configured, a
side HTTP listener exposes /healthz and /metrics.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			if addr := cfg.Metrics.ListenAddr; addr != "" {
				ops := server.NewOpsServer(addr, application.Logger.Named("ops"))
				go func() {
					if err := ops.Start(); err != nil {
						application.Logger.Error("ops server failed", zap.Error(err))
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = ops.Shutdown(shutdownCtx)
				}()
			}

			return application.Service.Run(ctx)
		},
	}
}
