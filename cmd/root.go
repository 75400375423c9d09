// Package cmd wires the CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cre-scout/loopnet-mcp/internal/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loopnet-mcp",
		Short: "MCP server for LoopNet commercial real estate listings.",
		Long: `loopnet-mcp serves commercial real estate search tools over the Model
Context Protocol. It fetches LoopNet pages through a resilient pipeline:
rate limiting, retries with backoff, challenge detection, and headless
browser escalation when the edge protection blocks plain HTTP.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newFetchCmd())

	return cmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// Execute is the CLI entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
