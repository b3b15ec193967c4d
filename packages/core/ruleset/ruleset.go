package ruleset

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cicheck/cicheck/packages/checker"
)

// CurrentVersion is the ruleset format version this build understands.
const CurrentVersion = 1

// Ruleset is a parsed ruleset file: an ordered list of target files, each
// with an ordered list of expectations.
type Ruleset struct {
	Version int
	Name    string
	Path    string
	Targets []*Target
}

// Target binds a relative file path to the expectations checked against it.
type Target struct {
	File   string
	Checks []*checker.Expectation
}

type rulesetSpec struct {
	Version int          `yaml:"version"`
	Name    string       `yaml:"name"`
	Targets []targetSpec `yaml:"targets"`
}

type targetSpec struct {
	File   string      `yaml:"file"`
	Checks []checkSpec `yaml:"checks"`
}

// checkSpec is the YAML shape of a single check. Exactly one expectation
// key must be set; pointers distinguish "absent" from "empty".
type checkSpec struct {
	Name        string   `yaml:"name"`
	AC          string   `yaml:"ac"`
	Contains    *string  `yaml:"contains"`
	NotContains *string  `yaml:"notContains"`
	Pattern     *string  `yaml:"pattern"`
	Order       []string `yaml:"order"`
	ValidYAML   *bool    `yaml:"validYaml"`
	JSONPath    *string  `yaml:"jsonPath"`
	Op          string   `yaml:"op"`
	Value       string   `yaml:"value"`
	Schema      *string  `yaml:"schema"`
}

// ParseFile reads and parses a ruleset file.
func ParseFile(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ruleset: %w", err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	rs.Path = path
	return rs, nil
}

// Parse parses ruleset YAML. Unknown fields are rejected so typos in
// expectation keys surface as parse errors instead of silently passing.
func Parse(data []byte) (*Ruleset, error) {
	var spec rulesetSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing ruleset: %w", err)
	}

	if spec.Version != 0 && spec.Version != CurrentVersion {
		return nil, fmt.Errorf("unsupported ruleset version %d (supported: %d)", spec.Version, CurrentVersion)
	}
	if len(spec.Targets) == 0 {
		return nil, fmt.Errorf("ruleset declares no targets")
	}

	rs := &Ruleset{
		Version: CurrentVersion,
		Name:    spec.Name,
	}

	for i, t := range spec.Targets {
		if t.File == "" {
			return nil, fmt.Errorf("target %d: missing file path", i)
		}
		if len(t.Checks) == 0 {
			return nil, fmt.Errorf("target %s: declares no checks", t.File)
		}

		target := &Target{File: t.File}
		for j, c := range t.Checks {
			exp, err := c.toExpectation()
			if err != nil {
				return nil, fmt.Errorf("target %s, check %d: %w", t.File, j, err)
			}
			target.Checks = append(target.Checks, exp)
		}
		rs.Targets = append(rs.Targets, target)
	}

	return rs, nil
}

func (c checkSpec) toExpectation() (*checker.Expectation, error) {
	if c.Name == "" {
		return nil, fmt.Errorf("missing check name")
	}

	exp := &checker.Expectation{Name: c.Name, AC: c.AC}

	kinds := 0
	if c.Contains != nil {
		kinds++
		exp.Kind = checker.KindContains
		exp.Substring = *c.Contains
	}
	if c.NotContains != nil {
		kinds++
		exp.Kind = checker.KindNotContains
		exp.Substring = *c.NotContains
	}
	if c.Pattern != nil {
		kinds++
		exp.Kind = checker.KindPattern
		exp.Pattern = *c.Pattern
	}
	if c.Order != nil {
		kinds++
		exp.Kind = checker.KindOrder
		exp.Keywords = c.Order
	}
	if c.ValidYAML != nil {
		kinds++
		exp.Kind = checker.KindValidYAML
	}
	if c.JSONPath != nil {
		kinds++
		exp.Kind = checker.KindJSONPath
		exp.Path = *c.JSONPath
		exp.Op = c.Op
		exp.Value = c.Value
	}
	if c.Schema != nil {
		kinds++
		exp.Kind = checker.KindSchema
		exp.SchemaFile = *c.Schema
	}

	switch {
	case kinds == 0:
		return nil, fmt.Errorf("check %q declares no expectation", c.Name)
	case kinds > 1:
		return nil, fmt.Errorf("check %q declares %d expectations, want exactly one", c.Name, kinds)
	}

	if exp.Kind == checker.KindContains && exp.Substring == "" {
		return nil, fmt.Errorf("check %q: contains requires a non-empty substring", c.Name)
	}
	if exp.Kind == checker.KindPattern && exp.Pattern == "" {
		return nil, fmt.Errorf("check %q: pattern requires a non-empty expression", c.Name)
	}
	if exp.Kind == checker.KindOrder && len(exp.Keywords) == 0 {
		return nil, fmt.Errorf("check %q: order requires at least one keyword", c.Name)
	}
	if exp.Kind == checker.KindValidYAML && !*c.ValidYAML {
		return nil, fmt.Errorf("check %q: validYaml must be true", c.Name)
	}
	if exp.Kind == checker.KindJSONPath && exp.Path == "" {
		return nil, fmt.Errorf("check %q: jsonPath requires a non-empty path", c.Name)
	}
	if exp.Kind == checker.KindSchema && exp.SchemaFile == "" {
		return nil, fmt.Errorf("check %q: schema requires a file path", c.Name)
	}

	return exp, nil
}

// CheckCount returns the total number of checks across all targets.
func (rs *Ruleset) CheckCount() int {
	n := 0
	for _, t := range rs.Targets {
		n += len(t.Checks)
	}
	return n
}
