package checker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

const workflowText = `name: CI
on:
  push:
    branches: [main]
  pull_request:
    branches: [main]
jobs:
  build:
    runs-on: ubuntu-latest
    steps:
      - name: Checkout code
        uses: actions/checkout@v4
      - name: Set up Java
        uses: actions/setup-java@v4
        with:
          java-version: '21'
          distribution: 'temurin'
      - name: Setup Gradle
        uses: gradle/actions/setup-gradle@v4
      - name: Run spotlessCheck
        run: ./gradlew spotlessCheck
      - name: Build
        run: ./gradlew clean build --build-cache
`

func TestEvaluator_Contains(t *testing.T) {
	e := NewEvaluator(workflowText)

	tests := []struct {
		name      string
		substring string
		passed    bool
	}{
		{"trigger present", "push:", true},
		{"branch filter present", "branches: [main]", true},
		{"case sensitive", "PUSH:", false},
		{"absent substring", "actions/upload-artifact@v4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(&Expectation{
				Name:      tt.name,
				Kind:      KindContains,
				Substring: tt.substring,
			})
			assert.Equal(t, tt.passed, result.Passed, "Message: %s", result.Message)
			if tt.passed {
				assert.Equal(t, OutcomePassed, result.Outcome)
			} else {
				assert.Equal(t, OutcomeNotMet, result.Outcome)
			}
		})
	}
}

func TestEvaluator_ContainsMonotonicUnderAppend(t *testing.T) {
	e := NewEvaluator(workflowText)
	result := e.Evaluate(&Expectation{Kind: KindContains, Substring: "pull_request:"})
	require.True(t, result.Passed)

	appended := NewEvaluator(workflowText + "\n# trailing comment\nextra: lines\n")
	result = appended.Evaluate(&Expectation{Kind: KindContains, Substring: "pull_request:"})
	assert.True(t, result.Passed)
}

func TestEvaluator_NotContains(t *testing.T) {
	e := NewEvaluator(workflowText)

	result := e.Evaluate(&Expectation{Kind: KindNotContains, Substring: "sonar-scanner"})
	assert.True(t, result.Passed)

	result = e.Evaluate(&Expectation{Kind: KindNotContains, Substring: "push:"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "not to contain")
}

func TestEvaluator_Pattern(t *testing.T) {
	e := NewEvaluator(workflowText)

	tests := []struct {
		name    string
		pattern string
		passed  bool
		outcome Outcome
	}{
		{"quoted java version", `java-version:\s*'?21'?`, true, OutcomePassed},
		{"unanchored match", `setup-gradle@v4`, true, OutcomePassed},
		{"no match", `java-version:\s*'?17'?`, false, OutcomeNotMet},
		{"invalid regex", `java-version: [`, false, OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(&Expectation{
				Name:    tt.name,
				Kind:    KindPattern,
				Pattern: tt.pattern,
			})
			assert.Equal(t, tt.passed, result.Passed, "Message: %s", result.Message)
			assert.Equal(t, tt.outcome, result.Outcome)
		})
	}
}

func TestEvaluator_Order(t *testing.T) {
	e := NewEvaluator(workflowText)

	result := e.Evaluate(&Expectation{
		Kind:     KindOrder,
		Keywords: []string{"Checkout code", "Set up Java", "Setup Gradle", "spotlessCheck", "clean build"},
	})
	assert.True(t, result.Passed, "Message: %s", result.Message)
}

func TestEvaluator_OrderViolated(t *testing.T) {
	// Gradle setup appears before Java setup, violating the declared order.
	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "# filler"
	}
	lines[10] = "      - name: Checkout code"
	lines[20] = "      - name: Setup Gradle"
	lines[25] = "      - name: Set up Java"

	e := NewEvaluator(strings.Join(lines, "\n"))
	result := e.Evaluate(&Expectation{
		Kind:     KindOrder,
		Keywords: []string{"Checkout code", "Set up Java", "Setup Gradle"},
	})
	assert.False(t, result.Passed)
	assert.Equal(t, OutcomeNotMet, result.Outcome)
	assert.Contains(t, result.Message, "should come after")
	assert.Equal(t, []int{10, 25, 20}, result.Actual)
}

func TestEvaluator_OrderKeywordMissing(t *testing.T) {
	e := NewEvaluator(workflowText)
	result := e.Evaluate(&Expectation{
		Kind:     KindOrder,
		Keywords: []string{"Checkout code", "upload-artifact"},
	})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, `"upload-artifact" not found`)
}

func TestEvaluator_OrderFlipsWhenLinesReversed(t *testing.T) {
	keywords := []string{"Checkout code", "Set up Java", "Setup Gradle"}

	e := NewEvaluator(workflowText)
	result := e.Evaluate(&Expectation{Kind: KindOrder, Keywords: keywords})
	require.True(t, result.Passed)

	lines := strings.Split(workflowText, "\n")
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	reversed := NewEvaluator(strings.Join(lines, "\n"))
	result = reversed.Evaluate(&Expectation{Kind: KindOrder, Keywords: keywords})
	assert.False(t, result.Passed)
}

func TestEvaluator_OrderSingleKeyword(t *testing.T) {
	e := NewEvaluator(workflowText)
	result := e.Evaluate(&Expectation{Kind: KindOrder, Keywords: []string{"Checkout code"}})
	assert.True(t, result.Passed)
}

func TestEvaluator_ValidYAML(t *testing.T) {
	e := NewEvaluator(workflowText)
	result := e.Evaluate(&Expectation{Kind: KindValidYAML})
	assert.True(t, result.Passed, "Message: %s", result.Message)
}

func TestEvaluator_InvalidYAMLHasDistinctOutcome(t *testing.T) {
	e := NewEvaluator("jobs:\n  build:\n\t\ttabs are not indentation\n")
	result := e.Evaluate(&Expectation{Kind: KindValidYAML})
	assert.False(t, result.Passed)
	assert.Equal(t, OutcomeInvalidYAML, result.Outcome)
	assert.Contains(t, result.Message, "invalid YAML")
}

func TestEvaluator_EmptyFileIsInvalidYAML(t *testing.T) {
	e := NewEvaluator("")
	result := e.Evaluate(&Expectation{Kind: KindValidYAML})
	assert.False(t, result.Passed)
	assert.Equal(t, OutcomeInvalidYAML, result.Outcome)
}

func TestEvaluator_JSONPath(t *testing.T) {
	e := NewEvaluator(`{"extends": ["config:recommended"], "schedule": "before 5am"}`)

	tests := []struct {
		name   string
		exp    *Expectation
		passed bool
	}{
		{
			name:   "exists",
			exp:    &Expectation{Kind: KindJSONPath, Path: "extends"},
			passed: true,
		},
		{
			name:   "equals",
			exp:    &Expectation{Kind: KindJSONPath, Path: "schedule", Op: "equals", Value: "before 5am"},
			passed: true,
		},
		{
			name:   "contains",
			exp:    &Expectation{Kind: KindJSONPath, Path: "extends.0", Op: "contains", Value: "recommended"},
			passed: true,
		},
		{
			name:   "missing path",
			exp:    &Expectation{Kind: KindJSONPath, Path: "automerge", Op: "exists"},
			passed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.Evaluate(tt.exp)
			assert.Equal(t, tt.passed, result.Passed, "Message: %s", result.Message)
		})
	}
}

func TestEvaluator_JSONPathOnNonJSON(t *testing.T) {
	e := NewEvaluator(workflowText)
	result := e.Evaluate(&Expectation{Kind: KindJSONPath, Path: "jobs"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "not valid JSON")
}

func TestEvaluator_Schema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, writeFile(schemaPath, `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}}
	}`))

	e := NewEvaluator(`{"name": "ci"}`, WithBaseDir(dir))
	result := e.Evaluate(&Expectation{Kind: KindSchema, SchemaFile: "schema.json"})
	assert.True(t, result.Passed, "Message: %s", result.Message)

	e = NewEvaluator(`{"label": "ci"}`, WithBaseDir(dir))
	result = e.Evaluate(&Expectation{Kind: KindSchema, SchemaFile: "schema.json"})
	assert.False(t, result.Passed)
	assert.Contains(t, result.Message, "schema validation failed")
}

func TestEvaluator_SchemaFileMissing(t *testing.T) {
	e := NewEvaluator(`{}`, WithBaseDir(t.TempDir()))
	result := e.Evaluate(&Expectation{Kind: KindSchema, SchemaFile: "nope.json"})
	assert.False(t, result.Passed)
	assert.Equal(t, OutcomeError, result.Outcome)
}

func TestEvaluator_Idempotent(t *testing.T) {
	e := NewEvaluator(workflowText)
	exps := []*Expectation{
		{Kind: KindContains, Substring: "push:"},
		{Kind: KindPattern, Pattern: `java-version:\s*'?21'?`},
		{Kind: KindOrder, Keywords: []string{"Checkout code", "Set up Java"}},
		{Kind: KindValidYAML},
	}

	first := e.EvaluateAll(exps)
	second := e.EvaluateAll(exps)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Passed, second[i].Passed)
		assert.Equal(t, first[i].Outcome, second[i].Outcome)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ci.yml")
	require.NoError(t, writeFile(path, "name: CI\n"))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(filepath.Join(dir, "missing.yml")))
	assert.False(t, FileExists(dir))
}

func TestMissingFileResult(t *testing.T) {
	exp := &Expectation{Name: "project key", AC: "AC-1.2.3", Kind: KindContains, Substring: "sonar.projectKey"}
	result := MissingFileResult(exp, "sonar-project.properties")

	assert.False(t, result.Passed)
	assert.Equal(t, OutcomeMissingFile, result.Outcome)
	assert.Equal(t, "AC-1.2.3", result.AC)
	assert.Contains(t, result.Message, "file does not exist")
}
