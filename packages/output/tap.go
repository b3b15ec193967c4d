package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cicheck/cicheck/packages/checker"
	"github.com/cicheck/cicheck/packages/core/runner"
)

// TAPFormatter formats check results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer     io.Writer
	checkCount int
	results    []tapResult
}

type tapResult struct {
	number  int
	name    string
	file    string
	passed  bool
	errored bool
	message string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatResult(result *runner.RunResult) {
	for _, tr := range result.Targets {
		for _, res := range tr.Results {
			f.checkCount++
			f.results = append(f.results, tapResult{
				number:  f.checkCount,
				name:    fmt.Sprintf("%s: %s", tr.File, res.Name),
				file:    tr.File,
				passed:  res.Passed,
				errored: res.Outcome == checker.OutcomeError,
				message: res.Message,
			})
		}
	}
}

func (f *TAPFormatter) FormatError(err error) {
	// Errors are included in individual check results
}

func (f *TAPFormatter) FormatHeader(version string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(totalDuration time.Duration) error {
	fmt.Fprintf(f.writer, "TAP version 13\n")
	fmt.Fprintf(f.writer, "1..%d\n", f.checkCount)

	for _, r := range f.results {
		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
			continue
		}

		fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
		fmt.Fprintf(f.writer, "  ---\n")
		fmt.Fprintf(f.writer, "  message: %s\n", escapeYAML(r.message))
		if r.errored {
			fmt.Fprintf(f.writer, "  severity: error\n")
		}
		fmt.Fprintf(f.writer, "  ...\n")
	}

	// Add final newline for proper TAP output
	fmt.Fprintln(f.writer)

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
