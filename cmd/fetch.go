package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cre-scout/loopnet-mcp/internal/app"
)

func newFetchCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Fetch a single page through the full pipeline.",
		Long: `Fetch retrieves one URL with the same cache, rate limiting, retry, and
browser escalation behavior the MCP tools use. Useful for debugging a
blocked page or verifying the challenge detection against live markup.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			content, err := application.Client.Fetch(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if raw {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}
			application.Logger.Info("fetch succeeded",
				zap.String("url", args[0]),
				zap.Int("bytes", len(content)),
			)
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the page content to stdout")
	return cmd
}
