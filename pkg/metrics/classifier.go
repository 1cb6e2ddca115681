// Package metrics computes the delivery metrics of the engine: cycle time
// distributions, quality scores, velocity and deployment frequency. The
// rework/defect heuristics are pluggable via the Classifier interface.
package metrics

import (
	"strings"

	"github.com/Sumatoshi-tech/trackfang/pkg/records"
)

// Classification is the outcome of classifying a single commit.
type Classification struct {
	// Rework marks a commit addressing a quality defect in work already
	// delivered or under review.
	Rework bool
}

// CommitContext carries the correlation context a classifier may consult
// when judging a commit.
type CommitContext struct {
	// LinkedPR is the pull request the commit is linked to through its
	// issue, nil when there is none.
	LinkedPR *records.PullRequest
}

// PRContext carries the correlation context for judging a pull request.
type PRContext struct {
	// FollowUpCommits are commits referencing the same issue as the pull
	// request and authored after its merge.
	FollowUpCommits []records.Commit
}

// Classifier decides whether commits are rework and pull requests are
// defective. Implementations must be pure so classification stays
// deterministic and safe to run concurrently.
type Classifier interface {
	ClassifyCommit(commit records.Commit, ctx CommitContext) Classification
	// Defective reports whether the pull request needed corrective follow-up
	// work after merging.
	Defective(pr records.PullRequest, ctx PRContext) bool
}

// DefaultPatterns are the message substrings that mark corrective work.
func DefaultPatterns() []string {
	return []string{"fix", "bug", "hotfix", "patch", "revert", "rework"}
}

// PatternClassifier is the default heuristic classifier. A commit is rework
// when its message matches one of the configured patterns, or when it lands
// after review activity started on its linked pull request. A pull request
// is defective when any post-merge follow-up commit matches the patterns.
type PatternClassifier struct {
	patterns []string
}

// NewPatternClassifier builds a classifier over the given message patterns.
// Nil patterns fall back to DefaultPatterns.
func NewPatternClassifier(patterns []string) *PatternClassifier {
	if patterns == nil {
		patterns = DefaultPatterns()
	}

	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}

	return &PatternClassifier{patterns: lowered}
}

// ClassifyCommit implements Classifier.
func (c *PatternClassifier) ClassifyCommit(commit records.Commit, ctx CommitContext) Classification {
	if c.matches(commit.Message) {
		return Classification{Rework: true}
	}

	// Review feedback proxy: a commit landing on a PR that already has
	// review comments is follow-up work, not the original change.
	pr := ctx.LinkedPR
	if pr != nil && pr.CommentCount > 0 && commit.Timestamp.After(pr.CreatedAt) {
		return Classification{Rework: true}
	}

	return Classification{}
}

// Defective implements Classifier.
func (c *PatternClassifier) Defective(pr records.PullRequest, ctx PRContext) bool {
	if !pr.Merged() {
		return false
	}

	for _, commit := range ctx.FollowUpCommits {
		if commit.Timestamp.After(*pr.MergedAt) && c.matches(commit.Message) {
			return true
		}
	}

	return false
}

func (c *PatternClassifier) matches(message string) bool {
	lowered := strings.ToLower(message)

	for _, pattern := range c.patterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}

	return false
}
