package checker

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Evaluator checks expectations against a single target file's contents.
// The text is read once; line splitting is done lazily for order checks.
type Evaluator struct {
	text    string
	lines   []string
	baseDir string // base directory for resolving schema file paths
}

// EvaluatorOption is a functional option for configuring an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithBaseDir sets the directory schema file paths are resolved against.
func WithBaseDir(dir string) EvaluatorOption {
	return func(e *Evaluator) {
		e.baseDir = dir
	}
}

func NewEvaluator(text string, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{text: text}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FileExists reports whether path exists and is a regular file. It is the
// precondition for every content expectation against that path.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func (e *Evaluator) Evaluate(exp *Expectation) *Result {
	result := &Result{
		Name: exp.Name,
		AC:   exp.AC,
		Kind: exp.Kind,
	}

	var passed bool
	var msg string
	outcome := OutcomeNotMet

	switch exp.Kind {
	case KindContains:
		result.Expected = exp.Substring
		passed, msg = e.contains(exp.Substring)
	case KindNotContains:
		result.Expected = exp.Substring
		passed, msg = e.contains(exp.Substring)
		if passed {
			passed, msg = false, fmt.Sprintf("expected text not to contain %q", exp.Substring)
		} else {
			passed, msg = true, ""
		}
	case KindPattern:
		result.Expected = exp.Pattern
		passed, msg, outcome = e.pattern(exp.Pattern, outcome)
	case KindOrder:
		result.Expected = exp.Keywords
		passed, msg = e.order(exp.Keywords, result)
	case KindValidYAML:
		passed, msg = e.validYAML()
		if !passed {
			outcome = OutcomeInvalidYAML
		}
	case KindJSONPath:
		result.Expected = exp.Value
		passed, msg = e.jsonPath(exp, result)
	case KindSchema:
		result.Expected = exp.SchemaFile
		passed, msg, outcome = e.schema(exp.SchemaFile, outcome)
	default:
		passed, msg, outcome = false, fmt.Sprintf("unknown expectation kind: %s", exp.Kind), OutcomeError
	}

	result.Passed = passed
	result.Message = msg
	if passed {
		result.Outcome = OutcomePassed
	} else {
		result.Outcome = outcome
	}
	return result
}

// EvaluateAll evaluates expectations in declaration order, one Result each.
func (e *Evaluator) EvaluateAll(exps []*Expectation) []*Result {
	results := make([]*Result, len(exps))
	for i, exp := range exps {
		results[i] = e.Evaluate(exp)
	}
	return results
}

func (e *Evaluator) contains(substring string) (bool, string) {
	if strings.Contains(e.text, substring) {
		return true, ""
	}
	return false, fmt.Sprintf("expected text to contain %q", substring)
}

func (e *Evaluator) pattern(pattern string, outcome Outcome) (bool, string, Outcome) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false, fmt.Sprintf("invalid regex pattern: %v", err), OutcomeError
	}
	if re.MatchString(e.text) {
		return true, "", outcome
	}
	return false, fmt.Sprintf("expected text to match /%s/", pattern), outcome
}

// FirstLineIndex returns the index of the first line containing keyword,
// or -1 if no line contains it.
func FirstLineIndex(lines []string, keyword string) int {
	for i, line := range lines {
		if strings.Contains(line, keyword) {
			return i
		}
	}
	return -1
}

// order checks that the first-occurrence line index of every keyword exists
// and is strictly increasing in declaration order. Only the first occurrence
// of each keyword counts, so keywords that are substrings of earlier lines
// can produce surprising indices.
func (e *Evaluator) order(keywords []string, result *Result) (bool, string) {
	if e.lines == nil {
		e.lines = strings.Split(e.text, "\n")
	}

	indices := make([]int, len(keywords))
	for i, kw := range keywords {
		idx := FirstLineIndex(e.lines, kw)
		if idx == -1 {
			result.Actual = indices[:i]
			return false, fmt.Sprintf("keyword %q not found in any line", kw)
		}
		indices[i] = idx
	}
	result.Actual = indices

	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			return false, fmt.Sprintf("%q (line %d) should come after %q (line %d)",
				keywords[i], indices[i]+1, keywords[i-1], indices[i-1]+1)
		}
	}
	return true, ""
}

func (e *Evaluator) validYAML() (bool, string) {
	if strings.TrimSpace(e.text) == "" {
		return false, "file is empty"
	}
	var parsed any
	if err := yaml.Unmarshal([]byte(e.text), &parsed); err != nil {
		return false, fmt.Sprintf("invalid YAML: %v", err)
	}
	if parsed == nil {
		return false, "invalid YAML: document is empty"
	}
	return true, ""
}

func (e *Evaluator) jsonPath(exp *Expectation, result *Result) (bool, string) {
	if !gjson.Valid(e.text) {
		return false, "target is not valid JSON"
	}
	value := gjson.Get(e.text, exp.Path)
	result.Actual = value.String()

	switch exp.Op {
	case "", "exists":
		if value.Exists() {
			return true, ""
		}
		return false, fmt.Sprintf("expected %s to exist", exp.Path)
	case "equals":
		if value.Exists() && value.String() == exp.Value {
			return true, ""
		}
		return false, fmt.Sprintf("expected %s to equal %q, got %q", exp.Path, exp.Value, value.String())
	case "contains":
		if value.Exists() && strings.Contains(value.String(), exp.Value) {
			return true, ""
		}
		return false, fmt.Sprintf("expected %s to contain %q, got %q", exp.Path, exp.Value, value.String())
	default:
		return false, fmt.Sprintf("unknown jsonPath operator: %s", exp.Op)
	}
}

func (e *Evaluator) schema(schemaFile string, outcome Outcome) (bool, string, Outcome) {
	path := schemaFile
	if !filepath.IsAbs(path) && e.baseDir != "" {
		path = filepath.Join(e.baseDir, path)
	}

	schemaData, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Sprintf("failed to read schema file: %v", err), OutcomeError
	}

	if !gjson.Valid(e.text) {
		return false, "target is not valid JSON", outcome
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaData)
	documentLoader := gojsonschema.NewStringLoader(e.text)

	res, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return false, fmt.Sprintf("schema validation error: %v", err), OutcomeError
	}
	if res.Valid() {
		return true, "", outcome
	}

	var errors []string
	for _, desc := range res.Errors() {
		errors = append(errors, desc.String())
	}
	return false, fmt.Sprintf("schema validation failed: %s", strings.Join(errors, "; ")), outcome
}
