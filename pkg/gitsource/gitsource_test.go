package gitsource_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/trackfang/pkg/gitsource"
)

// testRepo wraps a scratch repository for ingestion tests.
type testRepo struct {
	t      *testing.T
	path   string
	native *git2go.Repository
	when   time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	t.Cleanup(repo.Free)

	return &testRepo{
		t:      t,
		path:   dir,
		native: repo,
		when:   time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
	}
}

func (tr *testRepo) createFile(name, content string) {
	tr.t.Helper()

	err := os.WriteFile(filepath.Join(tr.path, name), []byte(content), 0o644)
	require.NoError(tr.t, err)
}

// commit stages everything and commits it one hour after the previous commit.
func (tr *testRepo) commit(message string) {
	tr.t.Helper()

	index, err := tr.native.Index()
	require.NoError(tr.t, err)

	defer index.Free()

	err = index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	require.NoError(tr.t, err)

	err = index.Write()
	require.NoError(tr.t, err)

	treeID, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	tr.when = tr.when.Add(time.Hour)
	sig := &git2go.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  tr.when,
	}

	var parents []*git2go.Commit

	head, err := tr.native.Head()
	if err == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	_, err = tr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)

	for _, parent := range parents {
		parent.Free()
	}
}

func TestOpenNotFound(t *testing.T) {
	_, err := gitsource.Open(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoadCommits(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("main.go", "package main\n\nfunc main() {}\n")
	tr.commit("OCM-1 initial scaffolding")
	tr.createFile("parser.go", "package main\n\nfunc parse() {}\n")
	tr.commit("OCM-2 add parser")

	repo, err := gitsource.Open(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	assert.Equal(t, tr.path, repo.Path())

	commits, err := repo.LoadCommits(context.Background(), gitsource.Options{})
	require.NoError(t, err)
	require.Len(t, commits, 2)

	// Newest first under time sorting.
	assert.Contains(t, commits[0].Message, "OCM-2 add parser")
	assert.Contains(t, commits[1].Message, "OCM-1 initial scaffolding")
	assert.Equal(t, "Test User", commits[0].Author)

	// The second commit adds one three-line file.
	assert.Equal(t, 3, commits[0].LinesAdded)
	assert.Equal(t, 0, commits[0].LinesRemoved)

	// The root commit diffs against the empty tree.
	assert.Equal(t, 3, commits[1].LinesAdded)
}

func TestLoadCommitsMaxCommits(t *testing.T) {
	tr := newTestRepo(t)

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		tr.createFile(name, name+"\n")
		tr.commit("add " + name)
	}

	repo, err := gitsource.Open(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	commits, err := repo.LoadCommits(context.Background(), gitsource.Options{MaxCommits: 2})
	require.NoError(t, err)
	assert.Len(t, commits, 2)
}

func TestLoadCommitsSince(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("old.txt", "old\n")
	tr.commit("old work")
	cutoff := tr.when.Add(time.Minute)
	tr.createFile("new.txt", "new\n")
	tr.commit("recent work")

	repo, err := gitsource.Open(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	commits, err := repo.LoadCommits(context.Background(), gitsource.Options{Since: &cutoff})
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Contains(t, commits[0].Message, "recent work")
}

func TestLoadCommitsCancelled(t *testing.T) {
	tr := newTestRepo(t)
	tr.createFile("a.txt", "a\n")
	tr.commit("work")

	repo, err := gitsource.Open(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = repo.LoadCommits(ctx, gitsource.Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadCommitsEmptyRepository(t *testing.T) {
	tr := newTestRepo(t)

	repo, err := gitsource.Open(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	_, err = repo.LoadCommits(context.Background(), gitsource.Options{})
	require.Error(t, err)
}
