package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/trackfang/pkg/config"
	"github.com/Sumatoshi-tech/trackfang/pkg/mcp"
	"github.com/Sumatoshi-tech/trackfang/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the delivery analytics engine as tools that AI agents
can discover and invoke:
  - trackfang_report: Generate a full delivery report from a data bundle
  - trackfang_correlate: Link issues to commits and PRs, return the summary`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			// Stdout carries the protocol; logs must stay on stderr as JSON.
			cfg.Logging.Format = "json"

			providers, err := initObservability(cfg, observability.ModeMCP)
			if err != nil {
				return err
			}
			defer shutdownObservability(providers)

			engMetrics, metricsErr := observability.NewEngineMetrics(providers.Meter)
			if metricsErr != nil {
				return metricsErr
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: engMetrics,
				Tracer:  providers.Tracer,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")

	return cmd
}
