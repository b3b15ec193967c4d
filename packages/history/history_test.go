package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cicheck/cicheck/packages/checker"
	"github.com/cicheck/cicheck/packages/core/runner"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult() *runner.RunResult {
	return &runner.RunResult{
		Ruleset:  "gradle ci workflow checks",
		Duration: 8 * time.Millisecond,
		Passed:   1,
		Failed:   1,
		Targets: []*runner.TargetResult{
			{
				File: "build.gradle",
				Results: []*checker.Result{
					{Name: "sonarqube plugin applied", Outcome: checker.OutcomePassed, Passed: true},
					{Name: "no snapshot versions", Outcome: checker.OutcomeNotMet, Message: "expected text not to contain \"-SNAPSHOT\""},
				},
			},
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, sampleResult(), time.Now())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.Equal(t, "gradle ci workflow checks", runs[0].Ruleset)
	assert.Equal(t, 1, runs[0].Passed)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, 8*time.Millisecond, runs[0].Duration)
}

func TestResultsPreserveInsertionOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, sampleResult(), time.Now())
	require.NoError(t, err)

	records, err := s.Results(ctx, id)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "sonarqube plugin applied", records[0].Name)
	assert.Equal(t, "passed", records[0].Outcome)
	assert.Equal(t, "not_met", records[1].Outcome)
	assert.Equal(t, "build.gradle", records[0].Target)
}

func TestRecentNewestFirst(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	first, err := s.Record(ctx, sampleResult(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	second, err := s.Record(ctx, sampleResult(), time.Now())
	require.NoError(t, err)

	runs, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestRecentLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Record(ctx, sampleResult(), time.Now().Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	runs, err := s.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cicheck", "nested", "history.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Recent(context.Background(), 1)
	assert.NoError(t, err)
}
