// Package correlation links tracker issues to source-control activity via
// extracted issue-key references, producing one Pipeline per issue plus an
// aggregate correlation result for the reporting window.
package correlation

import (
	"sort"
	"time"

	"github.com/Sumatoshi-tech/trackfang/pkg/records"
	"github.com/Sumatoshi-tech/trackfang/pkg/refs"
)

// Stage is the furthest delivery milestone a pipeline has reached.
type Stage string

// Delivery stages, ordered from earliest to latest.
const (
	StagePlanning    Stage = "planning"
	StageDevelopment Stage = "development"
	StageReview      Stage = "review"
	StageIntegration Stage = "integration"
	StageCompleted   Stage = "completed"
)

// Stages lists all delivery stages in pipeline order.
func Stages() []Stage {
	return []Stage{StagePlanning, StageDevelopment, StageReview, StageIntegration, StageCompleted}
}

// Pipeline is the per-issue linkage record: the issue and every commit and
// pull request whose extracted references include the issue's key. A
// pipeline is immutable once built.
type Pipeline struct {
	IssueKey string

	// LinkedCommits holds the SHAs of correlated commits, sorted.
	LinkedCommits []string

	// LinkedPRs holds the IDs of correlated pull requests, sorted.
	LinkedPRs []int

	// CycleTimeDays is the issue's creation-to-resolution time in fractional
	// days. Valid only when HasCycleTime is true.
	CycleTimeDays float64
	HasCycleTime  bool

	Stage Stage

	// Milestone timestamps, derived from the earliest linked activity.
	// Nil when the pipeline never reached the corresponding stage.
	DevelopmentStart *time.Time
	ReviewStart      *time.Time
	IntegrationDate  *time.Time

	// Phase durations in fractional days between consecutive milestones,
	// starting from issue creation. Each is valid only when its Has flag
	// is set, which requires both bounding milestones.
	PlanningDays    float64
	HasPlanning     bool
	DevelopmentDays float64
	HasDevelopment  bool
	ReviewDays      float64
	HasReview       bool
}

// HasActivity reports whether the pipeline has any linked commit or PR.
func (p *Pipeline) HasActivity() bool {
	return len(p.LinkedCommits) > 0 || len(p.LinkedPRs) > 0
}

// Result aggregates correlation over the reporting window.
type Result struct {
	TotalIssues       int `json:"total_issues"`
	IssuesWithCommits int `json:"issues_with_commits"`
	IssuesWithPRs     int `json:"issues_with_prs"`
	TotalCommits      int `json:"total_commits"`
	TotalPRs          int `json:"total_prs"`

	// UnlinkedCommits and UnlinkedPRs count activity whose references match
	// no known issue. Unlinked activity is recorded, never an error.
	UnlinkedCommits int `json:"unlinked_commits"`
	UnlinkedPRs     int `json:"unlinked_prs"`

	// CorrelationPercentage is the share of issues with any linked activity,
	// in [0, 100]. Zero with Insufficient set when there are no issues.
	CorrelationPercentage float64 `json:"correlation_percentage"`
	Insufficient          bool    `json:"insufficient"`
}

// CommitRefs returns the reference set of a commit: the keys extracted from
// its message.
func CommitRefs(commit records.Commit) []string {
	return refs.Extract(commit.Message)
}

// PullRequestRefs returns the reference set of a pull request: the union of
// keys extracted from its title, its source branch name and the messages of
// its commits (resolved through commitsBySHA).
func PullRequestRefs(pr records.PullRequest, commitsBySHA map[string]records.Commit) []string {
	texts := make([]string, 0, len(pr.Commits)+2)
	texts = append(texts, pr.Title, pr.SourceBranch)

	for _, sha := range pr.Commits {
		if commit, ok := commitsBySHA[sha]; ok {
			texts = append(texts, commit.Message)
		}
	}

	return refs.ExtractAll(texts...)
}

// BuildPipelines links every commit and pull request to the issues it
// references. A commit or PR referencing several known issues is linked to
// all of them; references to unknown keys are ignored as out-of-scope.
// The returned map holds exactly one pipeline per input issue.
func BuildPipelines(
	issues []records.Issue,
	commits []records.Commit,
	pullRequests []records.PullRequest,
) (map[string]*Pipeline, Result) {
	return BuildPipelinesFromRefs(issues, commits, pullRequests, nil, nil)
}

// BuildPipelinesFromRefs is BuildPipelines with precomputed reference sets.
// commitRefs and prRefs are indexed positionally; when nil the references
// are extracted inline. Callers that extract references concurrently use
// this entry point.
func BuildPipelinesFromRefs(
	issues []records.Issue,
	commits []records.Commit,
	pullRequests []records.PullRequest,
	commitRefs [][]string,
	prRefs [][]string,
) (map[string]*Pipeline, Result) {
	pipelines := make(map[string]*Pipeline, len(issues))
	issuesByKey := make(map[string]records.Issue, len(issues))

	for _, issue := range issues {
		issuesByKey[issue.Key] = issue
		pipelines[issue.Key] = &Pipeline{IssueKey: issue.Key}
	}

	commitsBySHA := make(map[string]records.Commit, len(commits))
	for _, commit := range commits {
		commitsBySHA[commit.SHA] = commit
	}

	result := Result{
		TotalIssues:  len(issues),
		TotalCommits: len(commits),
		TotalPRs:     len(pullRequests),
	}

	for i, commit := range commits {
		keys := refsAt(commitRefs, i, func() []string { return CommitRefs(commit) })

		if !linkCommit(pipelines, keys, commit.SHA) {
			result.UnlinkedCommits++
		}
	}

	for i, pr := range pullRequests {
		keys := refsAt(prRefs, i, func() []string { return PullRequestRefs(pr, commitsBySHA) })

		if !linkPR(pipelines, keys, pr.ID) {
			result.UnlinkedPRs++
		}
	}

	for key, pipeline := range pipelines {
		finalizePipeline(pipeline, issuesByKey[key], commitsBySHA, pullRequests)
	}

	countLinks(pipelines, &result)

	return pipelines, result
}

func refsAt(precomputed [][]string, i int, extract func() []string) []string {
	if precomputed != nil && i < len(precomputed) {
		return precomputed[i]
	}

	return extract()
}

// linkCommit adds the commit to every referenced known pipeline. It returns
// false when no reference matched a known issue.
func linkCommit(pipelines map[string]*Pipeline, keys []string, sha string) bool {
	linked := false

	for _, key := range keys {
		pipeline, known := pipelines[key]
		if !known {
			continue
		}

		pipeline.LinkedCommits = append(pipeline.LinkedCommits, sha)
		linked = true
	}

	return linked
}

func linkPR(pipelines map[string]*Pipeline, keys []string, id int) bool {
	linked := false

	for _, key := range keys {
		pipeline, known := pipelines[key]
		if !known {
			continue
		}

		pipeline.LinkedPRs = append(pipeline.LinkedPRs, id)
		linked = true
	}

	return linked
}

// finalizePipeline sorts the link sets, derives the cycle time and milestone
// timestamps, and assigns the delivery stage.
func finalizePipeline(
	pipeline *Pipeline,
	issue records.Issue,
	commitsBySHA map[string]records.Commit,
	pullRequests []records.PullRequest,
) {
	sort.Strings(pipeline.LinkedCommits)
	sort.Ints(pipeline.LinkedPRs)

	if days, ok := issue.CycleTimeDays(); ok {
		pipeline.CycleTimeDays = days
		pipeline.HasCycleTime = true
	}

	pipeline.DevelopmentStart = earliestCommitTime(pipeline.LinkedCommits, commitsBySHA)

	linkedPRs := indexPRs(pipeline.LinkedPRs, pullRequests)
	pipeline.ReviewStart = earliestPRCreation(linkedPRs)
	pipeline.IntegrationDate = earliestPRMerge(linkedPRs)

	derivePhaseDurations(pipeline, issue)

	pipeline.Stage = deriveStage(pipeline, issue)
}

// derivePhaseDurations computes the planning, development and review phase
// lengths from the milestone timestamps. A phase with a missing bounding
// milestone, or one whose milestones arrive out of order, stays unset.
func derivePhaseDurations(pipeline *Pipeline, issue records.Issue) {
	if pipeline.DevelopmentStart != nil && !issue.CreatedAt.IsZero() {
		pipeline.PlanningDays, pipeline.HasPlanning =
			phaseDays(issue.CreatedAt, *pipeline.DevelopmentStart)
	}

	if pipeline.DevelopmentStart != nil && pipeline.ReviewStart != nil {
		pipeline.DevelopmentDays, pipeline.HasDevelopment =
			phaseDays(*pipeline.DevelopmentStart, *pipeline.ReviewStart)
	}

	if pipeline.ReviewStart != nil && pipeline.IntegrationDate != nil {
		pipeline.ReviewDays, pipeline.HasReview =
			phaseDays(*pipeline.ReviewStart, *pipeline.IntegrationDate)
	}
}

func phaseDays(from, to time.Time) (float64, bool) {
	days := to.Sub(from).Hours() / hoursPerDay
	if days < 0 {
		return 0, false
	}

	return days, true
}

func earliestCommitTime(shas []string, commitsBySHA map[string]records.Commit) *time.Time {
	var earliest *time.Time

	for _, sha := range shas {
		commit, ok := commitsBySHA[sha]
		if !ok {
			continue
		}

		ts := commit.Timestamp
		if earliest == nil || ts.Before(*earliest) {
			earliest = &ts
		}
	}

	return earliest
}

func indexPRs(ids []int, pullRequests []records.PullRequest) []records.PullRequest {
	idSet := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		idSet[id] = struct{}{}
	}

	linked := make([]records.PullRequest, 0, len(ids))

	for _, pr := range pullRequests {
		if _, ok := idSet[pr.ID]; ok {
			linked = append(linked, pr)
		}
	}

	return linked
}

func earliestPRCreation(prs []records.PullRequest) *time.Time {
	var earliest *time.Time

	for _, pr := range prs {
		ts := pr.CreatedAt
		if earliest == nil || ts.Before(*earliest) {
			earliest = &ts
		}
	}

	return earliest
}

func earliestPRMerge(prs []records.PullRequest) *time.Time {
	var earliest *time.Time

	for _, pr := range prs {
		if pr.MergedAt == nil {
			continue
		}

		ts := *pr.MergedAt
		if earliest == nil || ts.Before(*earliest) {
			earliest = &ts
		}
	}

	return earliest
}

// deriveStage picks the furthest milestone the pipeline has reached.
func deriveStage(pipeline *Pipeline, issue records.Issue) Stage {
	switch {
	case issue.Status == records.StatusDone:
		return StageCompleted
	case pipeline.IntegrationDate != nil:
		return StageIntegration
	case pipeline.ReviewStart != nil:
		return StageReview
	case pipeline.DevelopmentStart != nil:
		return StageDevelopment
	default:
		return StagePlanning
	}
}

func countLinks(pipelines map[string]*Pipeline, result *Result) {
	linked := 0

	for _, pipeline := range pipelines {
		if len(pipeline.LinkedCommits) > 0 {
			result.IssuesWithCommits++
		}

		if len(pipeline.LinkedPRs) > 0 {
			result.IssuesWithPRs++
		}

		if pipeline.HasActivity() {
			linked++
		}
	}

	if result.TotalIssues == 0 {
		result.Insufficient = true

		return
	}

	result.CorrelationPercentage = float64(linked) / float64(result.TotalIssues) * percentScale
}

const (
	percentScale = 100
	hoursPerDay  = 24
)
