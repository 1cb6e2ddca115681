package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/trackfang/pkg/correlation"
	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

const testBundleJSON = `{
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

func writeBundle(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bundle.json")
	require.NoError(t, os.WriteFile(path, []byte(testBundleJSON), 0o644))

	return path
}

func TestNewServerRegistersTools(t *testing.T) {
	t.Parallel()

	srv := NewServer(ServerDeps{})

	assert.Equal(t, []string{ToolNameCorrelate, ToolNameReport}, srv.ListToolNames())
}

func TestHandleReportJSON(t *testing.T) {
	t.Parallel()

	result, output, err := handleReport(context.Background(), nil, ReportInput{
		BundlePath: writeBundle(t),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	rep, ok := output.Data.(*report.Report)
	require.True(t, ok)
	assert.Equal(t, 1, rep.Summary.TotalIssues)
	assert.InDelta(t, 100.0, rep.Summary.CorrelationPercentage, 0.0001)

	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)

	var decoded map[string]any

	require.NoError(t, json.Unmarshal([]byte(text.Text), &decoded))
	assert.Contains(t, decoded, "summary")
}

func TestHandleReportTextFormat(t *testing.T) {
	t.Parallel()

	result, _, err := handleReport(context.Background(), nil, ReportInput{
		BundlePath: writeBundle(t),
		Format:     "text",
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Delivery Report")
}

func TestHandleReportValidation(t *testing.T) {
	t.Parallel()

	t.Run("empty_bundle_path", func(t *testing.T) {
		t.Parallel()

		result, _, err := handleReport(context.Background(), nil, ReportInput{})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("unsupported_format", func(t *testing.T) {
		t.Parallel()

		result, _, err := handleReport(context.Background(), nil, ReportInput{
			BundlePath: writeBundle(t),
			Format:     "html",
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)

		text, ok := result.Content[0].(*mcpsdk.TextContent)
		require.True(t, ok)
		assert.Contains(t, text.Text, "unsupported format")
	})

	t.Run("missing_bundle_file", func(t *testing.T) {
		t.Parallel()

		result, _, err := handleReport(context.Background(), nil, ReportInput{
			BundlePath: filepath.Join(t.TempDir(), "absent.json"),
		})
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})
}

func TestHandleCorrelate(t *testing.T) {
	t.Parallel()

	result, output, err := handleCorrelate(context.Background(), nil, CorrelateInput{
		BundlePath: writeBundle(t),
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	corr, ok := output.Data.(correlation.Result)
	require.True(t, ok)
	assert.Equal(t, 1, corr.TotalIssues)
	assert.Equal(t, 1, corr.IssuesWithCommits)
	assert.Equal(t, 1, corr.IssuesWithPRs)
	assert.InDelta(t, 100.0, corr.CorrelationPercentage, 0.0001)
}

func TestHandleCorrelateEmptyPath(t *testing.T) {
	t.Parallel()

	result, _, err := handleCorrelate(context.Background(), nil, CorrelateInput{})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
