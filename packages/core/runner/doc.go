// Package runner executes rulesets against target files and aggregates
// per-expectation results.
//
// Targets are independent of each other; expectations within a target are
// evaluated strictly in declaration order against a single read of the file.
// A missing target fails every one of its checks with a distinct
// missing-file outcome instead of a content mismatch.
package runner
