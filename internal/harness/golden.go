package harness

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenSuffix is the file extension of golden traces.
const GoldenSuffix = ".golden"

// ErrGoldenMismatch is returned when a trace differs from its golden file.
var ErrGoldenMismatch = errors.New("trace does not match golden file")

// TraceSnapshot captures the complete trace for a scenario execution.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	FlowToken    string       `json:"flow_token,omitempty"`
	Trace        []TraceEvent `json:"trace"`
}

// MarshalTrace renders a snapshot as indented JSON with a trailing
// newline. Map keys are sorted, so the output is stable across runs.
func MarshalTrace(s TraceSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trace: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	data, err := MarshalTrace(TraceSnapshot{
		ScenarioName: scenario.Name,
		FlowToken:    scenario.FlowToken,
		Trace:        result.Trace,
	})
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, scenario.Name, data)
	return result, nil
}

// CheckGolden compares data with dir/name.golden outside of tests. A
// missing golden file is reported as an os.ErrNotExist error.
func CheckGolden(dir, name string, data []byte) error {
	want, err := os.ReadFile(filepath.Join(dir, name+GoldenSuffix))
	if err != nil {
		return fmt.Errorf("read golden %s: %w", name, err)
	}
	if !bytes.Equal(want, data) {
		return fmt.Errorf("%s: %w", name, ErrGoldenMismatch)
	}
	return nil
}

// WriteGolden writes data to dir/name.golden, creating dir if needed.
func WriteGolden(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+GoldenSuffix), data, 0o644); err != nil {
		return fmt.Errorf("write golden %s: %w", name, err)
	}
	return nil
}
