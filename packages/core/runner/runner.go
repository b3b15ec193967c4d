package runner

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cicheck/cicheck/packages/checker"
	"github.com/cicheck/cicheck/packages/core/ruleset"
)

type Runner struct {
	config *Config
}

type Config struct {
	// Root is the directory target paths are resolved against. Defaults to
	// the current working directory.
	Root string
	// NameFilter selects checks whose name contains the given substring.
	NameFilter string
	// Bail stops the run after the first target with failures.
	Bail bool
}

func NewRunner(cfg *Config) *Runner {
	if cfg == nil {
		cfg = &Config{}
	}
	return &Runner{config: cfg}
}

// RunResult aggregates one ruleset run.
type RunResult struct {
	Ruleset  string
	Targets  []*TargetResult
	Duration time.Duration
	Passed   int
	Failed   int
	Errored  int
	Skipped  int
}

// Ok reports whether every evaluated expectation passed.
func (r *RunResult) Ok() bool {
	return r.Failed == 0 && r.Errored == 0
}

// TargetResult holds the results for a single target file, in the
// declaration order of its checks.
type TargetResult struct {
	File     string
	Missing  bool
	Results  []*checker.Result
	Duration time.Duration
	Passed   int
	Failed   int
	Errored  int
	Skipped  int
}

// Run evaluates every target in the ruleset. Checks are never retried:
// a run is deterministic against an unchanged set of files.
func (r *Runner) Run(rs *ruleset.Ruleset) *RunResult {
	start := time.Now()

	name := rs.Name
	if name == "" {
		name = rs.Path
	}
	result := &RunResult{Ruleset: name}

	for _, target := range rs.Targets {
		tr := r.runTarget(target)
		result.Targets = append(result.Targets, tr)
		result.Passed += tr.Passed
		result.Failed += tr.Failed
		result.Errored += tr.Errored
		result.Skipped += tr.Skipped

		if r.config.Bail && (tr.Failed > 0 || tr.Errored > 0) {
			break
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Runner) runTarget(target *ruleset.Target) *TargetResult {
	start := time.Now()
	result := &TargetResult{File: target.File}

	checks := r.filterChecks(target.Checks, result)
	if len(checks) == 0 {
		result.Duration = time.Since(start)
		return result
	}

	path := target.File
	if r.config.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(r.config.Root, path)
	}

	// Existence is the precondition for every content check: a missing
	// target fails each check with a missing-file outcome, never a mismatch.
	if !checker.FileExists(path) {
		result.Missing = true
		for _, exp := range checks {
			result.Results = append(result.Results, checker.MissingFileResult(exp, target.File))
			result.Failed++
		}
		result.Duration = time.Since(start)
		return result
	}

	data, err := os.ReadFile(path)
	if err != nil {
		for _, exp := range checks {
			result.Results = append(result.Results, checker.ReadErrorResult(exp, target.File, err))
			result.Errored++
		}
		result.Duration = time.Since(start)
		return result
	}

	eval := checker.NewEvaluator(string(data), checker.WithBaseDir(r.config.Root))
	for _, res := range eval.EvaluateAll(checks) {
		result.Results = append(result.Results, res)
		switch {
		case res.Passed:
			result.Passed++
		case res.Outcome == checker.OutcomeError:
			result.Errored++
		default:
			result.Failed++
		}
	}

	result.Duration = time.Since(start)
	return result
}

func (r *Runner) filterChecks(checks []*checker.Expectation, result *TargetResult) []*checker.Expectation {
	if r.config.NameFilter == "" {
		return checks
	}

	var kept []*checker.Expectation
	for _, exp := range checks {
		if strings.Contains(exp.Name, r.config.NameFilter) {
			kept = append(kept, exp)
		} else {
			result.Skipped++
		}
	}
	return kept
}
