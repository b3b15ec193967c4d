package checker

import "fmt"

// Kind identifies the type of condition an Expectation asserts.
type Kind string

const (
	KindContains    Kind = "contains"
	KindNotContains Kind = "notContains"
	KindPattern     Kind = "pattern"
	KindOrder       Kind = "order"
	KindValidYAML   Kind = "validYaml"
	KindJSONPath    Kind = "jsonPath"
	KindSchema      Kind = "schema"
)

// Outcome classifies how an expectation was resolved. A missing target file
// and an invalid document are deliberately distinct from an ordinary mismatch.
type Outcome string

const (
	OutcomePassed      Outcome = "passed"
	OutcomeNotMet      Outcome = "not_met"
	OutcomeMissingFile Outcome = "missing_file"
	OutcomeInvalidYAML Outcome = "invalid_yaml"
	OutcomeError       Outcome = "error"
)

// Expectation is a single declarative condition checked against a target
// file's text. Exactly one kind is set per expectation.
type Expectation struct {
	Name string
	// AC is an optional acceptance-criterion label carried through to the
	// report for traceability. It is never evaluated.
	AC   string
	Kind Kind

	Substring string   // contains, notContains
	Pattern   string   // pattern
	Keywords  []string // order, first-occurrence line indices must be strictly increasing

	Path  string // jsonPath
	Op    string // jsonPath operator: equals, exists, contains
	Value string // jsonPath expected value

	SchemaFile string // schema
}

// Result is the resolved outcome of one expectation, preserving the
// declaration order of the expectation list it came from.
type Result struct {
	Name     string
	AC       string
	Kind     Kind
	Outcome  Outcome
	Passed   bool
	Message  string
	Expected any
	Actual   any
}

// MissingFileResult reports an expectation that could not be evaluated
// because its target file does not exist.
func MissingFileResult(exp *Expectation, path string) *Result {
	return &Result{
		Name:    exp.Name,
		AC:      exp.AC,
		Kind:    exp.Kind,
		Outcome: OutcomeMissingFile,
		Message: fmt.Sprintf("file does not exist: %s", path),
	}
}

// ReadErrorResult reports an expectation whose target file exists but could
// not be read.
func ReadErrorResult(exp *Expectation, path string, err error) *Result {
	return &Result{
		Name:    exp.Name,
		AC:      exp.AC,
		Kind:    exp.Kind,
		Outcome: OutcomeError,
		Message: fmt.Sprintf("cannot read %s: %v", path, err),
	}
}
