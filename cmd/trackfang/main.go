// Package main provides the entry point for the trackfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/trackfang/cmd/trackfang/commands"
	"github.com/Sumatoshi-tech/trackfang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "trackfang",
		Short: "Trackfang delivery analytics - correlate issues with code activity",
		Long: `Trackfang correlates issue tracker data with commits and pull requests
and derives delivery metrics: cycle time, quality, velocity, and
per-developer productivity.

Commands:
  report    Generate a delivery report from a data bundle
  ingest    Extract commit records from a local git repository
  mcp       Start an MCP server exposing the engine as tools`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewIngestCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "trackfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
