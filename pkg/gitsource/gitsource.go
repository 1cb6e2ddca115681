// Package gitsource ingests commit records directly from a local git
// repository, as an alternative to pre-exported data bundles.
package gitsource

import (
	"context"
	"fmt"
	"time"

	git2go "github.com/libgit2/git2go/v34"

	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

// Options configures commit ingestion.
type Options struct {
	// Since excludes commits authored before this time.
	Since *time.Time

	// MaxCommits bounds the number of commits walked. Zero means unlimited.
	MaxCommits int

	// FirstParent follows only the first parent of merge commits.
	FirstParent bool
}

// Repository wraps a libgit2 repository for commit ingestion.
type Repository struct {
	repo *git2go.Repository
	path string
}

// Open opens a git repository at the given path.
func Open(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// LoadCommits walks the history from HEAD and converts each commit into a
// record. Line counts come from diffing each commit against its first parent;
// root commits diff against an empty tree.
func (r *Repository) LoadCommits(ctx context.Context, opts Options) ([]records.Commit, error) {
	walk, err := r.repo.Walk()
	if err != nil {
		return nil, fmt.Errorf("create revwalk: %w", err)
	}
	defer walk.Free()

	pushErr := walk.PushHead()
	if pushErr != nil {
		return nil, fmt.Errorf("push HEAD to revwalk: %w", pushErr)
	}

	walk.Sorting(git2go.SortTime)

	if opts.FirstParent {
		simplifyErr := walk.SimplifyFirstParent()
		if simplifyErr != nil {
			return nil, fmt.Errorf("simplify first parent: %w", simplifyErr)
		}
	}

	var (
		result  []records.Commit
		walkErr error
	)

	iterErr := walk.Iterate(func(commit *git2go.Commit) bool {
		defer commit.Free()

		if ctx.Err() != nil {
			walkErr = ctx.Err()

			return false
		}

		author := commit.Author()
		if opts.Since != nil && author.When.Before(*opts.Since) {
			return true
		}

		record, convErr := r.convertCommit(commit, author)
		if convErr != nil {
			walkErr = convErr

			return false
		}

		result = append(result, record)

		return opts.MaxCommits == 0 || len(result) < opts.MaxCommits
	})
	if iterErr != nil {
		return nil, fmt.Errorf("revwalk iterate: %w", iterErr)
	}

	if walkErr != nil {
		return nil, fmt.Errorf("walk commits: %w", walkErr)
	}

	return result, nil
}

func (r *Repository) convertCommit(commit *git2go.Commit, author *git2go.Signature) (records.Commit, error) {
	added, removed, err := r.diffStats(commit)
	if err != nil {
		return records.Commit{}, err
	}

	return records.Commit{
		SHA:          commit.Id().String(),
		Author:       author.Name,
		Timestamp:    author.When,
		LinesAdded:   added,
		LinesRemoved: removed,
		Message:      commit.Message(),
	}, nil
}

// diffStats diffs the commit tree against its first parent tree.
func (r *Repository) diffStats(commit *git2go.Commit) (added, removed int, err error) {
	newTree, err := commit.Tree()
	if err != nil {
		return 0, 0, fmt.Errorf("get commit tree: %w", err)
	}
	defer newTree.Free()

	var oldTree *git2go.Tree

	if commit.ParentCount() > 0 {
		parent := commit.Parent(0)
		defer parent.Free()

		oldTree, err = parent.Tree()
		if err != nil {
			return 0, 0, fmt.Errorf("get parent tree: %w", err)
		}
		defer oldTree.Free()
	}

	diffOpts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return 0, 0, fmt.Errorf("get diff options: %w", err)
	}

	diff, err := r.repo.DiffTreeToTree(oldTree, newTree, &diffOpts)
	if err != nil {
		return 0, 0, fmt.Errorf("diff trees: %w", err)
	}
	defer diff.Free()

	stats, err := diff.Stats()
	if err != nil {
		return 0, 0, fmt.Errorf("get diff stats: %w", err)
	}
	defer stats.Free()

	return stats.Insertions(), stats.Deletions(), nil
}
