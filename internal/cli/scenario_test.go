package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sellbot/internal/harness"
)

const fixtureDir = "../harness/testdata/scenarios"

const passingScenario = `
name: add_only
description: admin adds a product
flow:
  - op: add_product
    args: {product: p1, price: "10", username: u, password: pw, secret: S}
assertions:
  - type: final_state
    table: products
    where: {product: p1}
    expect: {exists: true, price: "10"}
`

const failingScenario = `
name: code_without_purchase
description: expects success where the engine refuses
flow:
  - op: get_code
    args: {user: 1, product: p1}
    expect: {case: Success}
assertions:
  - type: trace_count
    op: get_code
    count: 1
`

func TestScenarioCommandMissingArgs(t *testing.T) {
	_, _, err := execute(t, &RootOptions{}, "scenario")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestScenarioCommandMissingDir(t *testing.T) {
	_, _, err := execute(t, &RootOptions{}, "scenario", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

func TestScenarioCommandUpdateNeedsGolden(t *testing.T) {
	_, _, err := execute(t, &RootOptions{}, "scenario", t.TempDir(), "--update")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestScenarioCommandEmptyDir(t *testing.T) {
	out, _, err := execute(t, &RootOptions{}, "scenario", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found")
}

func TestScenarioCommandFixtures(t *testing.T) {
	out, _, err := execute(t, &RootOptions{}, "scenario", fixtureDir, "--golden", "../harness/testdata/golden")
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ approve_purchase")
	assert.Contains(t, out, "0 failed, 4 total")
	assert.Contains(t, out, "All scenarios passed")
}

func TestScenarioCommandFilter(t *testing.T) {
	out, _, err := execute(t, &RootOptions{}, "scenario", fixtureDir, "--filter", "reject*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestScenarioCommandFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.yaml"), []byte(passingScenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(failingScenario), 0o644))

	out, _, err := execute(t, &RootOptions{}, "scenario", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✓ add_only")
	assert.Contains(t, out, "✗ code_without_purchase")
	assert.Contains(t, out, "1 passed, 1 failed, 2 total")
}

func TestScenarioCommandJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.yaml"), []byte(passingScenario), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(failingScenario), 0o644))

	out, _, err := execute(t, &RootOptions{}, "--format", "json", "scenario", dir)
	require.Error(t, err)

	var resp struct {
		Status string              `json:"status"`
		Data   harness.SuiteResult `json:"data"`
		Error  *CLIError           `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeScenarioFailed, resp.Error.Code)
}

func TestScenarioCommandUpdateGolden(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.yaml"), []byte(passingScenario), 0o644))
	goldenDir := filepath.Join(dir, "golden")

	out, _, err := execute(t, &RootOptions{}, "scenario", dir, "--golden", goldenDir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "golden updated")
	assert.FileExists(t, filepath.Join(goldenDir, "add_only"+harness.GoldenSuffix))

	_, _, err = execute(t, &RootOptions{}, "scenario", dir, "--golden", goldenDir)
	assert.NoError(t, err)
}
