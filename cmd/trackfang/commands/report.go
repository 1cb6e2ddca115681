package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/trackfang/pkg/config"
	"github.com/Sumatoshi-tech/trackfang/pkg/engine"
	"github.com/Sumatoshi-tech/trackfang/pkg/identity"
	"github.com/Sumatoshi-tech/trackfang/pkg/metrics"
	"github.com/Sumatoshi-tech/trackfang/pkg/observability"
	"github.com/Sumatoshi-tech/trackfang/pkg/persist"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
	"github.com/Sumatoshi-tech/trackfang/pkg/render"
	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

const (
	reportCmdUse   = "report <bundle.json>"
	reportCmdShort = "Generate a delivery report from a data bundle"
	reportArgCount = 1

	outputFilePerm = 0o644
)

type reportFlags struct {
	configPath    string
	identityMap   string
	format        string
	output        string
	archiveDir    string
	archiveFormat string
}

// NewReportCommand creates the report subcommand.
func NewReportCommand() *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   reportCmdUse,
		Short: reportCmdShort,
		Long: `Generate a delivery analytics report from a JSON data bundle.

The bundle holds the reporting period plus the issues, commits, and pull
requests exported from the trackers. Issues are linked to code activity by
issue key references in commit messages, PR titles, and branch names.`,
		Args: cobra.ExactArgs(reportArgCount),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runReport(cobraCmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&flags.identityMap, "identity-map", "i", "", "path to YAML identity map for merging developer aliases")
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(render.FormatText), "output format: text, markdown, json, html")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&flags.archiveDir, "archive-dir", "", "directory for report snapshots")
	cmd.Flags().StringVar(&flags.archiveFormat, "archive-format", persist.CodecLZ4, "snapshot encoding: json, gob, lz4")

	return cmd
}

func runReport(cobraCmd *cobra.Command, bundlePath string, flags reportFlags) error {
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return err
	}

	providers, err := initObservability(cfg, observability.ModeCLI)
	if err != nil {
		return err
	}
	defer shutdownObservability(providers)

	logger := providers.Logger

	engMetrics, err := observability.NewEngineMetrics(providers.Meter)
	if err != nil {
		return err
	}

	bundle, err := records.LoadBundle(bundlePath)
	if err != nil {
		return err
	}

	ctx := cobraCmd.Context()

	engMetrics.RecordIngested(ctx, observability.KindIssue, len(bundle.Issues))
	engMetrics.RecordIngested(ctx, observability.KindCommit, len(bundle.Commits))
	engMetrics.RecordIngested(ctx, observability.KindPullRequest, len(bundle.PullRequests))

	var identities *identity.Map

	if flags.identityMap != "" {
		identities, err = identity.LoadMap(flags.identityMap)
		if err != nil {
			return err
		}
	}

	eng, err := buildEngine(cfg)
	if err != nil {
		return err
	}

	start := time.Now()

	rep, err := eng.Run(ctx, engine.Inputs{
		Period:       bundle.Period,
		Issues:       bundle.Issues,
		Commits:      bundle.Commits,
		PullRequests: bundle.PullRequests,
		Identities:   identities,
	})

	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError
	}

	engMetrics.RecordRun(ctx, status, time.Since(start))

	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "report generated",
		"issues", len(bundle.Issues),
		"commits", len(bundle.Commits),
		"pull_requests", len(bundle.PullRequests),
		"duration", time.Since(start))

	if flags.archiveDir != "" {
		codec, codecErr := persist.CodecFor(flags.archiveFormat)
		if codecErr != nil {
			return codecErr
		}

		basename, archiveErr := persist.NewArchiveWithCodec(flags.archiveDir, codec).Store(rep)
		if archiveErr != nil {
			return archiveErr
		}

		logger.InfoContext(ctx, "report archived",
			"dir", flags.archiveDir,
			"format", flags.archiveFormat,
			"snapshot", basename)
	}

	return writeReport(rep, render.Format(flags.format), flags.output)
}

func buildEngine(cfg *config.Config) (*engine.Engine, error) {
	opts := []engine.Option{
		engine.WithClassifier(metrics.NewPatternClassifier(cfg.Classifier.Patterns)),
		engine.WithWeights(cfg.Quality.Weights),
		engine.WithRules(cfg.Thresholds.Rules()),
	}

	if cfg.Engine.MaxParallel > 0 {
		opts = append(opts, engine.WithMaxParallelism(cfg.Engine.MaxParallel))
	}

	return engine.New(opts...)
}

func writeReport(rep *report.Report, format render.Format, outputPath string) error {
	var writer io.Writer = os.Stdout

	if outputPath != "" {
		file, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePerm)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()

		writer = file
	}

	return render.Render(rep, format, writer)
}
