package persist

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

// Timestamp layout for archive basenames, filesystem-safe and sortable.
const archiveStampLayout = "20060102T150405"

// Archive stores report snapshots in a directory, one file per run,
// named report-<timestamp> with the codec's extension.
type Archive struct {
	dir   string
	codec Codec
	now   func() time.Time
}

// NewArchive creates an archive rooted at dir using the LZ4 codec.
func NewArchive(dir string) *Archive {
	return NewArchiveWithCodec(dir, NewLZ4Codec())
}

// NewArchiveWithCodec creates an archive rooted at dir using the given codec.
// Snapshots written with one codec are invisible to an archive opened with
// another, since listing filters by the codec's extension.
func NewArchiveWithCodec(dir string, codec Codec) *Archive {
	return &Archive{
		dir:   dir,
		codec: codec,
		now:   time.Now,
	}
}

// Store writes a report snapshot and returns its basename.
func (a *Archive) Store(rep *report.Report) (string, error) {
	mkdirErr := os.MkdirAll(a.dir, 0o755)
	if mkdirErr != nil {
		return "", fmt.Errorf("create archive dir: %w", mkdirErr)
	}

	basename := "report-" + a.now().UTC().Format(archiveStampLayout)

	err := SaveState(a.dir, basename, a.codec, rep)
	if err != nil {
		return "", fmt.Errorf("store report: %w", err)
	}

	return basename, nil
}

// Load reads a previously stored snapshot by basename.
func (a *Archive) Load(basename string) (*report.Report, error) {
	var rep report.Report

	err := LoadState(a.dir, basename, a.codec, &rep)
	if err != nil {
		return nil, fmt.Errorf("load report: %w", err)
	}

	return &rep, nil
}

// List returns the basenames of all stored snapshots, oldest first.
func (a *Archive) List() ([]string, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read archive dir: %w", err)
	}

	extension := a.codec.Extension()

	var basenames []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, extension) {
			continue
		}

		basenames = append(basenames, strings.TrimSuffix(name, extension))
	}

	sort.Strings(basenames)

	return basenames, nil
}

// Latest returns the most recent snapshot, or an error when the archive
// is empty.
func (a *Archive) Latest() (*report.Report, error) {
	basenames, err := a.List()
	if err != nil {
		return nil, err
	}

	if len(basenames) == 0 {
		return nil, fmt.Errorf("archive %s is empty", a.dir)
	}

	return a.Load(basenames[len(basenames)-1])
}
