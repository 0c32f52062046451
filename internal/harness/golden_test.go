package harness

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every fixture scenario. approve_purchase is also
// compared with its golden trace; regenerate it with:
//
//	go test ./internal/harness -run TestScenarios -update
func TestScenarios(t *testing.T) {
	files, err := FindScenarioFiles("testdata/scenarios", "")
	require.NoError(t, err)

	for _, path := range files {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			var result *Result
			if _, statErr := os.Stat(filepath.Join("testdata/golden", scenario.Name+GoldenSuffix)); statErr == nil {
				result, err = RunWithGolden(t, scenario)
			} else {
				result, err = Run(context.Background(), scenario)
			}
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestMarshalTrace_Stable(t *testing.T) {
	snap := TraceSnapshot{
		ScenarioName: "s",
		Trace: []TraceEvent{
			{Seq: 1, Type: EventInvocation, Op: "stats", Args: map[string]any{"z": 1, "a": "x"}},
		},
	}
	data, err := MarshalTrace(snap)
	require.NoError(t, err)

	want := `{
  "scenario_name": "s",
  "trace": [
    {
      "seq": 1,
      "type": "invocation",
      "op": "stats",
      "args": {
        "a": "x",
        "z": 1
      }
    }
  ]
}
`
	assert.Equal(t, want, string(data))
}

func TestCheckAndWriteGolden(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "golden")
	data := []byte("{}\n")

	err := CheckGolden(dir, "s", data)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, WriteGolden(dir, "s", data))
	assert.NoError(t, CheckGolden(dir, "s", data))
	assert.ErrorIs(t, CheckGolden(dir, "s", []byte("[]\n")), ErrGoldenMismatch)
}

func TestGoldenCarriesFlowToken(t *testing.T) {
	golden, err := os.ReadFile(filepath.Join("testdata/golden", "approve_purchase"+GoldenSuffix))
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"flow_token": "flow-approve"`)
}
