package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindScenarioFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "sub/c.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o644))
	}

	files, err := FindScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub/c.yaml"),
	}, files)

	files, err = FindScenarioFiles(dir, "b*")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "b.yaml")}, files)

	_, err = FindScenarioFiles(dir, "[")
	assert.Error(t, err)
}

func TestRunSuite_Fixtures(t *testing.T) {
	res, err := RunSuite(context.Background(), "testdata/scenarios", SuiteOptions{GoldenDir: "testdata/golden"})
	require.NoError(t, err)

	assert.Equal(t, res.Total, res.Passed, "failures: %+v", res.Scenarios)
	assert.Zero(t, res.Failed)
	assert.Len(t, res.Scenarios, 4)
}

func TestRunSuite_CountsFailures(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.yaml"), []byte(validYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0o644))
	failing := `
name: failing
description: expects a code nobody bought
flow:
  - op: get_code
    args: {user: 1, product: p1}
assertions:
  - type: trace_count
    op: get_code
    count: 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "failing.yaml"), []byte(failing), 0o644))

	res, err := RunSuite(context.Background(), dir, SuiteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 2, res.Failed)

	byName := map[string]ScenarioResult{}
	for _, sr := range res.Scenarios {
		byName[sr.Name] = sr
	}
	assert.Contains(t, byName["broken.yaml"].Errors[0], "failed to load scenario")
	assert.Contains(t, byName["failing"].Errors[0], "PRODUCT_NOT_FOUND")
}

func TestRunSuite_UpdateThenCompare(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minimal.yaml"), []byte(validYAML), 0o644))
	goldenDir := filepath.Join(dir, "golden")

	res, err := RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: goldenDir, Update: true})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passed)
	assert.FileExists(t, filepath.Join(goldenDir, "minimal"+GoldenSuffix))

	res, err = RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: goldenDir})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Passed)

	require.NoError(t, os.WriteFile(filepath.Join(goldenDir, "minimal"+GoldenSuffix), []byte("{}\n"), 0o644))
	res, err = RunSuite(context.Background(), dir, SuiteOptions{GoldenDir: goldenDir})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Contains(t, res.Scenarios[0].Errors[0], ErrGoldenMismatch.Error())
}
