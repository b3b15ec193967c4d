package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicheck/cicheck/packages/checker"
)

const validRuleset = `
version: 1
name: ci workflow checks
targets:
  - file: .github/workflows/ci.yml
    checks:
      - name: workflow is valid YAML
        ac: AC-1.2.1
        validYaml: true
      - name: triggers on push
        contains: "push:"
      - name: java 21 configured
        pattern: "java-version:\\s*'?21'?"
      - name: steps run in pipeline order
        order: ["Checkout code", "Set up Java", "Setup Gradle"]
  - file: renovate.json
    checks:
      - name: extends recommended preset
        jsonPath: extends.0
        op: contains
        value: recommended
      - name: matches renovate schema
        schema: schemas/renovate.json
`

func TestParse(t *testing.T) {
	rs, err := Parse([]byte(validRuleset))
	require.NoError(t, err)

	assert.Equal(t, 1, rs.Version)
	assert.Equal(t, "ci workflow checks", rs.Name)
	require.Len(t, rs.Targets, 2)
	assert.Equal(t, ".github/workflows/ci.yml", rs.Targets[0].File)
	assert.Equal(t, 6, rs.CheckCount())

	checks := rs.Targets[0].Checks
	require.Len(t, checks, 4)
	assert.Equal(t, checker.KindValidYAML, checks[0].Kind)
	assert.Equal(t, "AC-1.2.1", checks[0].AC)
	assert.Equal(t, checker.KindContains, checks[1].Kind)
	assert.Equal(t, "push:", checks[1].Substring)
	assert.Equal(t, checker.KindPattern, checks[2].Kind)
	assert.Equal(t, checker.KindOrder, checks[3].Kind)
	assert.Equal(t, []string{"Checkout code", "Set up Java", "Setup Gradle"}, checks[3].Keywords)

	jsonChecks := rs.Targets[1].Checks
	require.Len(t, jsonChecks, 2)
	assert.Equal(t, checker.KindJSONPath, jsonChecks[0].Kind)
	assert.Equal(t, "extends.0", jsonChecks[0].Path)
	assert.Equal(t, "contains", jsonChecks[0].Op)
	assert.Equal(t, checker.KindSchema, jsonChecks[1].Kind)
	assert.Equal(t, "schemas/renovate.json", jsonChecks[1].SchemaFile)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cicheck.yml")
	require.NoError(t, os.WriteFile(path, []byte(validRuleset), 0o644))

	rs, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, rs.Path)
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "not yaml",
			yaml:    "targets: [",
			wantErr: "parsing ruleset",
		},
		{
			name:    "unsupported version",
			yaml:    "version: 2\ntargets:\n  - file: a\n    checks:\n      - name: x\n        contains: y\n",
			wantErr: "unsupported ruleset version 2",
		},
		{
			name:    "no targets",
			yaml:    "version: 1\nname: empty\n",
			wantErr: "no targets",
		},
		{
			name:    "target without file",
			yaml:    "targets:\n  - checks:\n      - name: x\n        contains: y\n",
			wantErr: "missing file path",
		},
		{
			name:    "target without checks",
			yaml:    "targets:\n  - file: build.gradle\n",
			wantErr: "declares no checks",
		},
		{
			name:    "check without name",
			yaml:    "targets:\n  - file: build.gradle\n    checks:\n      - contains: sonarqube\n",
			wantErr: "missing check name",
		},
		{
			name:    "check without expectation",
			yaml:    "targets:\n  - file: build.gradle\n    checks:\n      - name: x\n",
			wantErr: "declares no expectation",
		},
		{
			name:    "check with two expectations",
			yaml:    "targets:\n  - file: build.gradle\n    checks:\n      - name: x\n        contains: a\n        pattern: b\n",
			wantErr: "want exactly one",
		},
		{
			name:    "empty order list",
			yaml:    "targets:\n  - file: a\n    checks:\n      - name: x\n        order: []\n",
			wantErr: "at least one keyword",
		},
		{
			name:    "validYaml false",
			yaml:    "targets:\n  - file: a\n    checks:\n      - name: x\n        validYaml: false\n",
			wantErr: "must be true",
		},
		{
			name:    "unknown key rejected",
			yaml:    "targets:\n  - file: a\n    checks:\n      - name: x\n        containz: typo\n",
			wantErr: "parsing ruleset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestEmptyContainsRejected(t *testing.T) {
	_, err := Parse([]byte("targets:\n  - file: a\n    checks:\n      - name: x\n        contains: \"\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-empty substring")
}
