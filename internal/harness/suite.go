package harness

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// SuiteOptions controls RunSuite.
type SuiteOptions struct {
	// Filter is a glob matched against scenario file base names.
	Filter string

	// GoldenDir, when set, compares each trace with GoldenDir/<name>.golden.
	// Scenarios without a golden file are not compared.
	GoldenDir string

	// Update rewrites golden files instead of comparing.
	Update bool
}

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// SuiteResult summarises a directory of scenarios.
type SuiteResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// FindScenarioFiles returns the .yaml and .yml files under dir whose base
// name matches filter (all files when filter is empty), sorted by path.
func FindScenarioFiles(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			ok, err := filepath.Match(filter, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// RunSuite loads and runs every scenario in dir.
//
// A file that fails to load or run counts as a failed scenario; only an
// unreadable directory or bad filter returns an error.
func RunSuite(ctx context.Context, dir string, opts SuiteOptions) (*SuiteResult, error) {
	files, err := FindScenarioFiles(dir, opts.Filter)
	if err != nil {
		return nil, err
	}

	result := &SuiteResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, path := range files {
		sr := runFile(ctx, path, opts)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
		result.Scenarios = append(result.Scenarios, sr)
	}
	return result, nil
}

func runFile(ctx context.Context, path string, opts SuiteOptions) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(path), Path: path}

	scenario, err := LoadScenario(path)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	res, err := Run(ctx, scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("scenario execution failed: %v", err)}
		return sr
	}
	sr.Errors = res.Errors

	if opts.GoldenDir != "" {
		if msg := golden(scenario, res, opts); msg != "" {
			sr.Errors = append(sr.Errors, msg)
		}
	}
	sr.Pass = len(sr.Errors) == 0
	return sr
}

// golden compares or rewrites the scenario's golden trace and returns a
// failure message, or "" on success.
func golden(scenario *Scenario, res *Result, opts SuiteOptions) string {
	data, err := MarshalTrace(TraceSnapshot{
		ScenarioName: scenario.Name,
		FlowToken:    scenario.FlowToken,
		Trace:        res.Trace,
	})
	if err != nil {
		return err.Error()
	}
	if opts.Update {
		if err := WriteGolden(opts.GoldenDir, scenario.Name, data); err != nil {
			return err.Error()
		}
		return ""
	}
	err = CheckGolden(opts.GoldenDir, scenario.Name, data)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
