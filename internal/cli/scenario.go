package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/sellbot/internal/harness"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // glob on scenario file names
	GoldenDir string
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <scenarios-dir>",
		Short: "Run purchase scenarios against an in-memory engine",
		Long: `Run YAML purchase scenarios against a fresh in-memory engine.

Each scenario drives the engine through setup and flow steps, records a
trace of calls, outcomes and notices, then checks its assertions. With
--golden the trace is also compared with <golden-dir>/<name>.golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (missing directory, bad filter)

Examples:
  sellbot scenario ./scenarios
  sellbot scenario ./scenarios --filter "approve*"
  sellbot scenario ./scenarios --golden ./scenarios/golden --update
  sellbot scenario ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files (requires --golden)")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenario files by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "directory of golden traces")

	return cmd
}

func runScenarios(opts *ScenarioOptions, dir string, cmd *cobra.Command) error {
	out := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(dir); err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", dir))
	}
	if opts.Update && opts.GoldenDir == "" {
		return NewExitError(ExitCommandError, "--update requires --golden")
	}

	res, err := harness.RunSuite(cmd.Context(), dir, harness.SuiteOptions{
		Filter:    opts.Filter,
		GoldenDir: opts.GoldenDir,
		Update:    opts.Update,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	if opts.Format == "json" {
		return outputScenarioJSON(out, res)
	}
	return outputScenarioText(out, res, opts.Update)
}

func outputScenarioJSON(out *OutputFormatter, res *harness.SuiteResult) error {
	if res.Failed == 0 {
		return out.Success(res)
	}
	msg := fmt.Sprintf("%d scenario(s) failed", res.Failed)
	if err := out.encode(CLIResponse{
		Status: "error",
		Data:   res,
		Error:  &CLIError{Code: CodeScenarioFailed, Message: msg},
	}); err != nil {
		return err
	}
	return NewExitError(ExitFailure, msg)
}

func outputScenarioText(out *OutputFormatter, res *harness.SuiteResult, updated bool) error {
	w := out.Writer
	if res.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return nil
	}

	for _, sr := range res.Scenarios {
		if sr.Pass {
			suffix := ""
			if updated {
				suffix = " (golden updated)"
			}
			fmt.Fprintf(w, "✓ %s%s\n", sr.Name, suffix)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n", sr.Name)
		for _, e := range sr.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	out.VerboseLog("ran %d scenario file(s)", res.Total)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Scenario Summary: %d passed, %d failed, %d total\n", res.Passed, res.Failed, res.Total)

	if res.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", res.Failed))
	}
	fmt.Fprintln(w, "✓ All scenarios passed")
	return nil
}
