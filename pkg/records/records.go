// Package records defines the normalized input record types consumed by the
// analytics engine: issues from the project tracker, commits and pull
// requests from source control, and the reporting period. Records are
// constructed once by an ingestion adapter and never mutated afterwards.
package records

import (
	"time"
)

// IssueStatus is the normalized workflow status of a tracker issue.
type IssueStatus string

// Known issue statuses.
const (
	StatusTodo       IssueStatus = "todo"
	StatusInProgress IssueStatus = "in_progress"
	StatusReview     IssueStatus = "review"
	StatusDone       IssueStatus = "done"
)

// Issue is a normalized project-tracker issue.
type Issue struct {
	// Key is the unique project-prefixed issue key, e.g. "OCM-123".
	Key string `json:"key"`

	Title  string      `json:"title"`
	Status IssueStatus `json:"status"`

	// StoryPoints is the issue estimate. Zero means not estimated.
	StoryPoints float64 `json:"story_points,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// ResolvedAt is set only for resolved issues.
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`

	// Assignee is the raw developer identity, empty when unassigned.
	Assignee string `json:"assignee,omitempty"`
}

// Resolved reports whether the issue is done with a known resolution time.
func (i Issue) Resolved() bool {
	return i.Status == StatusDone && i.ResolvedAt != nil
}

// CycleTimeDays returns the elapsed fractional days between creation and
// resolution. The second return value is false when either timestamp is
// missing.
func (i Issue) CycleTimeDays() (float64, bool) {
	if i.CreatedAt.IsZero() || !i.Resolved() {
		return 0, false
	}

	days := i.ResolvedAt.Sub(i.CreatedAt).Hours() / hoursPerDay
	if days < 0 {
		return 0, false
	}

	return days, true
}

const hoursPerDay = 24

// Commit is a normalized source-control commit.
type Commit struct {
	// SHA is the unique commit hash.
	SHA string `json:"sha"`

	// Author is the raw author identity as reported by source control.
	Author string `json:"author"`

	Timestamp    time.Time `json:"timestamp"`
	LinesAdded   int       `json:"lines_added"`
	LinesRemoved int       `json:"lines_removed"`
	Message      string    `json:"message"`
}

// PullRequest is a normalized pull request.
type PullRequest struct {
	// ID is the unique pull request identifier.
	ID int `json:"id"`

	// Author is the raw identity of the pull request creator.
	Author string `json:"author"`

	// Reviewers are the raw identities of requested or actual reviewers.
	Reviewers []string `json:"reviewers,omitempty"`

	CommentCount int       `json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`

	// MergedAt is set only for merged pull requests.
	MergedAt *time.Time `json:"merged_at,omitempty"`

	SourceBranch string `json:"source_branch"`
	Title        string `json:"title"`

	// Commits holds the SHAs of the commits contained in this pull request,
	// in order.
	Commits []string `json:"commits,omitempty"`
}

// Merged reports whether the pull request has been merged.
func (p PullRequest) Merged() bool {
	return p.MergedAt != nil
}

// Reviewed reports whether at least one reviewer looked at the pull request.
func (p PullRequest) Reviewed() bool {
	return len(p.Reviewers) > 0
}

// Period is the reporting window. End is exclusive for rate computations.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the period length in fractional days, never below 1 so that
// per-day rates stay finite on degenerate windows.
func (p Period) Days() float64 {
	days := p.End.Sub(p.Start).Hours() / hoursPerDay
	if days < 1 {
		return 1
	}

	return days
}

// Weeks returns the period length in weeks, never below 1 so that per-week
// rates stay finite on sub-week windows.
func (p Period) Weeks() float64 {
	weeks := p.End.Sub(p.Start).Hours() / hoursPerDay / daysPerWeek
	if weeks < 1 {
		return 1
	}

	return weeks
}

const daysPerWeek = 7
