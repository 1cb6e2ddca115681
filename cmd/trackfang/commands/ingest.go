package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/trackfang/pkg/gitsource"
)

const (
	ingestCmdUse   = "ingest <repo-path>"
	ingestCmdShort = "Extract commit records from a local git repository"
	ingestArgCount = 1
)

// ErrBadSince is returned when the --since value cannot be parsed.
var ErrBadSince = errors.New("invalid --since value (expected a duration like 720h or a date like 2026-01-01)")

type ingestFlags struct {
	since       string
	maxCommits  int
	firstParent bool
	output      string
}

// NewIngestCommand creates the ingest subcommand. Its output is a JSON
// commit array that can be merged into a data bundle.
func NewIngestCommand() *cobra.Command {
	var flags ingestFlags

	cmd := &cobra.Command{
		Use:   ingestCmdUse,
		Short: ingestCmdShort,
		Args:  cobra.ExactArgs(ingestArgCount),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return runIngest(cobraCmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.since, "since", "", "only include commits after this time (duration like 720h or date like 2026-01-01)")
	cmd.Flags().IntVar(&flags.maxCommits, "max-commits", 0, "maximum number of commits to extract (0 = unlimited)")
	cmd.Flags().BoolVar(&flags.firstParent, "first-parent", false, "follow only the first parent of merge commits")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: stdout)")

	return cmd
}

func runIngest(cobraCmd *cobra.Command, repoPath string, flags ingestFlags) error {
	since, err := parseSince(flags.since)
	if err != nil {
		return err
	}

	repo, err := gitsource.Open(repoPath)
	if err != nil {
		return err
	}
	defer repo.Free()

	commits, err := repo.LoadCommits(cobraCmd.Context(), gitsource.Options{
		Since:       since,
		MaxCommits:  flags.maxCommits,
		FirstParent: flags.firstParent,
	})
	if err != nil {
		return err
	}

	var writer io.Writer = os.Stdout

	if flags.output != "" {
		file, createErr := os.OpenFile(flags.output, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, outputFilePerm)
		if createErr != nil {
			return fmt.Errorf("create output file: %w", createErr)
		}
		defer file.Close()

		writer = file
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")

	encodeErr := encoder.Encode(commits)
	if encodeErr != nil {
		return fmt.Errorf("encode commits: %w", encodeErr)
	}

	return nil
}

// parseSince accepts either a relative duration or an absolute date.
func parseSince(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	if dur, err := time.ParseDuration(raw); err == nil {
		since := time.Now().Add(-dur)

		return &since, nil
	}

	if date, err := time.Parse("2006-01-02", raw); err == nil {
		return &date, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrBadSince, raw)
}
