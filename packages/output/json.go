package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/cicheck/cicheck/packages/checker"
	"github.com/cicheck/cicheck/packages/core/runner"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary  JSONSummary `json:"summary"`
	Checks   []JSONCheck `json:"checks"`
	Duration float64     `json:"duration"`
	Time     string      `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// JSONCheck represents a single check result
type JSONCheck struct {
	Name     string `json:"name"`
	Ruleset  string `json:"ruleset,omitempty"`
	File     string `json:"file"`
	AC       string `json:"ac,omitempty"`
	Kind     string `json:"kind"`
	Outcome  string `json:"outcome"`
	Passed   bool   `json:"passed"`
	Message  string `json:"message,omitempty"`
	Expected any    `json:"expected,omitempty"`
	Actual   any    `json:"actual,omitempty"`
}

// JSONFormatter formats check results as JSON
type JSONFormatter struct {
	writer  io.Writer
	checks  []JSONCheck
	skipped int
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
		checks: make([]JSONCheck, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(result *runner.RunResult) {
	for _, tr := range result.Targets {
		for _, res := range tr.Results {
			f.checks = append(f.checks, JSONCheck{
				Name:     res.Name,
				Ruleset:  result.Ruleset,
				File:     tr.File,
				AC:       res.AC,
				Kind:     string(res.Kind),
				Outcome:  string(res.Outcome),
				Passed:   res.Passed,
				Message:  res.Message,
				Expected: res.Expected,
				Actual:   res.Actual,
			})
		}
		f.skipped += tr.Skipped
	}
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual check results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	var passed, failed, errored int
	for _, c := range f.checks {
		switch {
		case c.Passed:
			passed++
		case c.Outcome == string(checker.OutcomeError):
			errored++
		default:
			failed++
		}
	}

	out := JSONOutput{
		Summary: JSONSummary{
			Total:   len(f.checks) + f.skipped,
			Passed:  passed,
			Failed:  failed,
			Errored: errored,
			Skipped: f.skipped,
		},
		Checks:   f.checks,
		Duration: float64(totalDuration.Milliseconds()),
		Time:     time.Now().Format(time.RFC3339),
	}

	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
