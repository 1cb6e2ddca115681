// Package engine is the façade over the correlation and metrics pipeline:
// it takes the normalized input collections and produces the report model in
// one stateless pass. An Engine is safe for concurrent use; every invocation
// allocates its own entities and shares nothing with other invocations.
package engine

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/Sumatoshi-tech/trackfang/pkg/correlation"
	"github.com/Sumatoshi-tech/trackfang/pkg/developers"
	"github.com/Sumatoshi-tech/trackfang/pkg/identity"
	"github.com/Sumatoshi-tech/trackfang/pkg/metrics"
	"github.com/Sumatoshi-tech/trackfang/pkg/records"
	"github.com/Sumatoshi-tech/trackfang/pkg/report"
)

// parallelThreshold is the input size below which reference extraction runs
// inline; spawning workers for a handful of records costs more than it buys.
const parallelThreshold = 256

// Inputs is the full input contract of one engine invocation.
type Inputs struct {
	Period       records.Period
	Issues       []records.Issue
	Commits      []records.Commit
	PullRequests []records.PullRequest

	// Identities resolves raw author strings; nil resolves every identity
	// to itself.
	Identities *identity.Map
}

// Engine computes the report model from input records. The zero value is not
// usable; construct with New.
type Engine struct {
	classifier  metrics.Classifier
	weights     metrics.Weights
	rules       []report.Rule
	maxParallel int
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier replaces the default pattern classifier.
func WithClassifier(c metrics.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithWeights replaces the default quality weights.
func WithWeights(w metrics.Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithRules replaces the default insight rule table.
func WithRules(rules []report.Rule) Option {
	return func(e *Engine) { e.rules = rules }
}

// WithMaxParallelism bounds the reference-extraction worker pool.
func WithMaxParallelism(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}

		e.maxParallel = n
	}
}

// New creates an Engine with the default classifier, weights and rules.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		classifier:  metrics.NewPatternClassifier(nil),
		weights:     metrics.DefaultWeights(),
		rules:       report.DefaultThresholds().Rules(),
		maxParallel: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(e)
	}

	validateErr := e.weights.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("engine: %w", validateErr)
	}

	return e, nil
}

// Run executes the full pipeline: correlation, metrics, developer
// aggregation, report assembly. Empty input collections produce a
// well-formed all-zero report, never an error. Run is deterministic:
// identical inputs yield identical reports regardless of input ordering
// or parallelism.
func (e *Engine) Run(ctx context.Context, in Inputs) (*report.Report, error) {
	if ctx.Err() != nil {
		return nil, fmt.Errorf("engine run: %w", ctx.Err())
	}

	commitRefs, prRefs := e.extractReferences(in)

	pipelines, corr := correlation.BuildPipelinesFromRefs(
		in.Issues, in.Commits, in.PullRequests, commitRefs, prRefs)

	cycleTime := metrics.ComputeCycleTime(in.Issues)
	velocity := metrics.ComputeVelocity(in.Issues, in.PullRequests, in.Period)
	quality := metrics.ComputeQualitySummary(pipelines, in.Commits, in.PullRequests, e.classifier, e.weights)
	deployFreq := metrics.DeploymentFrequency(in.PullRequests, in.Period)

	devStats := developers.Aggregate(
		in.Issues, in.Commits, in.PullRequests, in.Identities, e.classifier, e.weights)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("engine run: %w", ctx.Err())
	}

	return report.Build(report.BuilderInputs{
		Period:              in.Period,
		Issues:              in.Issues,
		PullRequests:        in.PullRequests,
		Pipelines:           pipelines,
		Correlation:         corr,
		CycleTime:           cycleTime,
		Velocity:            velocity,
		Quality:             quality,
		DeploymentFrequency: deployFreq,
		Developers:          devStats,
		Rules:               e.rules,
	}), nil
}

// extractReferences computes every commit's and pull request's reference set.
// Extraction is embarrassingly parallel: each record's references land in its
// own output slot, so large inputs are fanned out over a bounded worker pool.
func (e *Engine) extractReferences(in Inputs) (commitRefs, prRefs [][]string) {
	commitsBySHA := make(map[string]records.Commit, len(in.Commits))
	for _, commit := range in.Commits {
		commitsBySHA[commit.SHA] = commit
	}

	commitRefs = make([][]string, len(in.Commits))
	prRefs = make([][]string, len(in.PullRequests))

	total := len(in.Commits) + len(in.PullRequests)
	if total < parallelThreshold || e.maxParallel <= 1 {
		for i, commit := range in.Commits {
			commitRefs[i] = correlation.CommitRefs(commit)
		}

		for i, pr := range in.PullRequests {
			prRefs[i] = correlation.PullRequestRefs(pr, commitsBySHA)
		}

		return commitRefs, prRefs
	}

	sem := make(chan struct{}, e.maxParallel)
	wg := sync.WaitGroup{}

	for i, commit := range in.Commits {
		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			commitRefs[i] = correlation.CommitRefs(commit)
		}()
	}

	for i, pr := range in.PullRequests {
		wg.Add(1)

		go func() {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			prRefs[i] = correlation.PullRequestRefs(pr, commitsBySHA)
		}()
	}

	wg.Wait()

	return commitRefs, prRefs
}
