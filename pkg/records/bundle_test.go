package records

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBundleJSON = `{
  "period": {"start": "2026-03-01T00:00:00Z", "end": "2026-03-29T00:00:00Z"},
  "issues": [
    {"key": "OCM-1", "title": "Login flow", "status": "done",
     "story_points": 5, "created_at": "2026-03-02T00:00:00Z",
     "resolved_at": "2026-03-11T00:00:00Z", "assignee": "alice"}
  ],
  "commits": [
    {"sha": "abc123", "author": "alice", "timestamp": "2026-03-05T10:00:00Z",
     "lines_added": 120, "lines_removed": 30, "message": "OCM-1 implement login"}
  ],
  "pull_requests": [
    {"id": 42, "author": "alice", "reviewers": ["bob"], "comment_count": 2,
     "created_at": "2026-03-06T00:00:00Z", "merged_at": "2026-03-08T00:00:00Z",
     "source_branch": "feature/OCM-1-login", "title": "OCM-1 login flow",
     "commits": ["abc123"]}
  ]
}`

func TestParseBundle(t *testing.T) {
	t.Parallel()

	t.Run("valid_bundle", func(t *testing.T) {
		t.Parallel()

		bundle, err := ParseBundle([]byte(validBundleJSON))
		require.NoError(t, err)

		assert.Len(t, bundle.Issues, 1)
		assert.Len(t, bundle.Commits, 1)
		assert.Len(t, bundle.PullRequests, 1)
		assert.Equal(t, "OCM-1", bundle.Issues[0].Key)
		assert.Equal(t, StatusDone, bundle.Issues[0].Status)
		assert.Equal(t, 42, bundle.PullRequests[0].ID)
		assert.True(t, bundle.PullRequests[0].Merged())
	})

	t.Run("empty_collections_are_valid", func(t *testing.T) {
		t.Parallel()

		bundle, err := ParseBundle([]byte(`{"period": {"start": "2026-03-01T00:00:00Z", "end": "2026-03-29T00:00:00Z"}}`))
		require.NoError(t, err)

		assert.Empty(t, bundle.Issues)
		assert.Empty(t, bundle.Commits)
		assert.Empty(t, bundle.PullRequests)
	})

	t.Run("missing_period_rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ParseBundle([]byte(`{"issues": []}`))
		assert.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("unknown_status_rejected", func(t *testing.T) {
		t.Parallel()

		raw := `{
		  "period": {"start": "2026-03-01T00:00:00Z", "end": "2026-03-29T00:00:00Z"},
		  "issues": [{"key": "OCM-1", "status": "blocked", "created_at": "2026-03-02T00:00:00Z"}]
		}`

		_, err := ParseBundle([]byte(raw))
		assert.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("negative_lines_rejected", func(t *testing.T) {
		t.Parallel()

		raw := `{
		  "period": {"start": "2026-03-01T00:00:00Z", "end": "2026-03-29T00:00:00Z"},
		  "commits": [{"sha": "abc", "author": "a", "timestamp": "2026-03-05T00:00:00Z", "lines_added": -1}]
		}`

		_, err := ParseBundle([]byte(raw))
		assert.ErrorIs(t, err, ErrSchemaViolation)
	})

	t.Run("inverted_period_rejected", func(t *testing.T) {
		t.Parallel()

		raw := `{"period": {"start": "2026-03-29T00:00:00Z", "end": "2026-03-01T00:00:00Z"}}`

		_, err := ParseBundle([]byte(raw))
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})

	t.Run("extra_fields_ignored", func(t *testing.T) {
		t.Parallel()

		raw := `{
		  "period": {"start": "2026-03-01T00:00:00Z", "end": "2026-03-29T00:00:00Z"},
		  "exported_by": "github_client"
		}`

		_, err := ParseBundle([]byte(raw))
		assert.NoError(t, err)
	})
}

func TestLoadBundle(t *testing.T) {
	t.Parallel()

	t.Run("from_file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bundle.json")
		require.NoError(t, os.WriteFile(path, []byte(validBundleJSON), 0o644))

		bundle, err := LoadBundle(path)
		require.NoError(t, err)
		assert.Len(t, bundle.Issues, 1)
	})

	t.Run("missing_file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadBundle(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})
}
