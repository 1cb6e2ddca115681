// Package developers groups commit, pull request and review activity by
// canonical developer identity and ranks the resulting per-developer
// statistics.
package developers

import (
	"sort"

	"github.com/Sumatoshi-tech/trackfang/pkg/correlation"
	"github.com/Sumatoshi-tech/trackfang/pkg/identity"
	"github.com/Sumatoshi-tech/trackfang/pkg/metrics"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
	"github.com/Sumatoshi-tech/trackfang/pkg/refs"
)

// Stats are the per-developer aggregates over the reporting period.
type Stats struct {
	// Identity is the canonical developer identity.
	Identity string `json:"identity"`

	// Deliveries counts done issues assigned to this developer.
	Deliveries int `json:"deliveries"`

	Commits      int `json:"commits"`
	LinesAdded   int `json:"lines_added"`
	LinesRemoved int `json:"lines_removed"`

	PullRequestsCreated  int `json:"pull_requests_created"`
	PullRequestsReviewed int `json:"pull_requests_reviewed"`

	// ReviewParticipation is reviews per commit, capped denominators keep it
	// finite for developers without commits.
	ReviewParticipation float64 `json:"review_participation"`

	// QualityScore is the developer's quality score in [0, 1], computed from
	// this developer's activity only.
	QualityScore float64 `json:"quality_score"`
}

// Aggregate groups activity by canonical identity and computes per-developer
// statistics. Identity resolution never fails: unmapped raw identities
// become their own canonical form, so the grouping may be fragmented but is
// always deterministic. The result is sorted by quality score descending,
// ties broken by identity ascending.
func Aggregate(
	issues []records.Issue,
	commits []records.Commit,
	pullRequests []records.PullRequest,
	identities *identity.Map,
	classifier metrics.Classifier,
	weights metrics.Weights,
) []Stats {
	acc := make(map[string]*accumulator)
	prBySHA := indexPRsBySHA(pullRequests)

	commitsBySHA := make(map[string]records.Commit, len(commits))
	for _, commit := range commits {
		commitsBySHA[commit.SHA] = commit
	}

	for _, commit := range commits {
		a := lookup(acc, identities.Resolve(commit.Author))
		a.stats.Commits++
		a.stats.LinesAdded += commit.LinesAdded
		a.stats.LinesRemoved += commit.LinesRemoved

		ctx := metrics.CommitContext{LinkedPR: prBySHA[commit.SHA]}
		if classifier.ClassifyCommit(commit, ctx).Rework {
			a.reworkCommits++
		}
	}

	for _, pr := range pullRequests {
		a := lookup(acc, identities.Resolve(pr.Author))
		a.stats.PullRequestsCreated++

		if pr.Reviewed() {
			a.reviewedPRs++
		}

		if classifier.Defective(pr, metrics.PRContext{FollowUpCommits: followUps(pr, commits, commitsBySHA)}) {
			a.defectivePRs++
		}

		for _, reviewer := range identities.ResolveAll(pr.Reviewers) {
			lookup(acc, reviewer).stats.PullRequestsReviewed++
		}
	}

	for _, issue := range issues {
		if issue.Status != records.StatusDone || issue.Assignee == "" {
			continue
		}

		lookup(acc, identities.Resolve(issue.Assignee)).stats.Deliveries++
	}

	result := make([]Stats, 0, len(acc))

	for _, a := range acc {
		finalize(a, weights)
		result = append(result, a.stats)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].QualityScore != result[j].QualityScore {
			return result[i].QualityScore > result[j].QualityScore
		}

		return result[i].Identity < result[j].Identity
	})

	return result
}

// accumulator collects raw counts for one canonical identity before the
// derived rates are computed.
type accumulator struct {
	stats         Stats
	reworkCommits int
	reviewedPRs   int
	defectivePRs  int
}

// indexPRsBySHA maps each commit SHA listed on a pull request to that pull
// request, so commit classification sees its containing PR's review state.
func indexPRsBySHA(pullRequests []records.PullRequest) map[string]*records.PullRequest {
	index := make(map[string]*records.PullRequest)

	for i := range pullRequests {
		for _, sha := range pullRequests[i].Commits {
			index[sha] = &pullRequests[i]
		}
	}

	return index
}

// followUps returns the commits sharing an issue reference with the pull
// request; the classifier narrows them further to post-merge corrective
// work. The reference set matches correlation.PullRequestRefs: title,
// source branch, and the PR's own commit messages.
func followUps(pr records.PullRequest, commits []records.Commit, commitsBySHA map[string]records.Commit) []records.Commit {
	prKeys := correlation.PullRequestRefs(pr, commitsBySHA)
	if len(prKeys) == 0 {
		return nil
	}

	keySet := make(map[string]struct{}, len(prKeys))
	for _, key := range prKeys {
		keySet[key] = struct{}{}
	}

	var related []records.Commit

	for _, commit := range commits {
		for _, key := range refs.Extract(commit.Message) {
			if _, shared := keySet[key]; shared {
				related = append(related, commit)

				break
			}
		}
	}

	return related
}

func lookup(acc map[string]*accumulator, canonical string) *accumulator {
	a, ok := acc[canonical]
	if !ok {
		a = &accumulator{stats: Stats{Identity: canonical}}
		acc[canonical] = a
	}

	return a
}

func finalize(a *accumulator, weights metrics.Weights) {
	a.stats.QualityScore = metrics.QualityScore(metrics.QualityInputs{
		ReworkRate:     metrics.Rate(a.reworkCommits, a.stats.Commits),
		ReviewCoverage: metrics.Rate(a.reviewedPRs, a.stats.PullRequestsCreated),
		DefectRate:     metrics.Rate(a.defectivePRs, a.stats.PullRequestsCreated),
	}, weights)

	if a.stats.Commits > 0 {
		a.stats.ReviewParticipation = float64(a.stats.PullRequestsReviewed) / float64(a.stats.Commits)
	} else {
		a.stats.ReviewParticipation = float64(a.stats.PullRequestsReviewed)
	}
}
