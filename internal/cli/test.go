package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/catalogsync/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // scenario filter (glob pattern)
	Golden string // golden directory, default <scenarios-dir>/golden
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "missing"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// RenderText implements TextRenderer.
func (r TestResult) RenderText(w io.Writer, verbose bool) {
	if r.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, s := range r.Scenarios {
		switch {
		case s.Pass && s.Golden == "updated":
			fmt.Fprintf(w, "✓ %s (golden updated)\n", s.Name)
		case s.Pass:
			fmt.Fprintf(w, "✓ %s\n", s.Name)
		default:
			fmt.Fprintf(w, "✗ %s\n", s.Name)
			for _, e := range s.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		if verbose {
			fmt.Fprintf(w, "  %s\n", s.Path)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files",
		Long: `Run scenario files through a store, a list projection and, where
configured, the filter pipeline. Each scenario's step expectations are
checked, and its trace is compared with <name>.golden in the golden
directory when that file exists.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  catalogsync test ./scenarios
  catalogsync test ./scenarios --filter "menu_*"
  catalogsync test ./scenarios --update
  catalogsync test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reported(runTests(opts, args[0], cmd))
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "golden file directory (default <scenarios-dir>/golden)")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	info, err := os.Stat(scenariosDir)
	if err != nil || !info.IsDir() {
		msg := fmt.Sprintf("scenarios directory not found: %s", scenariosDir)
		_ = formatter.Error(ErrCodeScenario, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	goldenDir := opts.Golden
	if goldenDir == "" {
		goldenDir = filepath.Join(scenariosDir, "golden")
	}

	files, err := harness.FindScenarios(scenariosDir)
	if err != nil {
		_ = formatter.Error(ErrCodeScenario, err.Error(), nil)
		return WrapExitError(ExitCommandError, "find scenarios", err)
	}
	files, err = filterScenarios(files, goldenDir, opts.Filter)
	if err != nil {
		_ = formatter.Error(ErrCodeArguments, err.Error(), nil)
		return WrapExitError(ExitCommandError, "filter scenarios", err)
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(files)),
		Total:     len(files),
	}
	for _, file := range files {
		formatter.VerboseLog("Running %s", file)
		sr := runScenario(file, goldenDir, opts.Update)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d scenario(s) failed", result.Failed)
		if err := formatter.Failure(result, ErrCodeTestFail, msg); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(result)
}

// filterScenarios drops files under the golden directory and, with a
// pattern, files whose base name (without extension) does not match.
func filterScenarios(files []string, goldenDir, pattern string) ([]string, error) {
	goldenPrefix := filepath.Clean(goldenDir) + string(filepath.Separator)
	var out []string
	for _, file := range files {
		if strings.HasPrefix(filepath.Clean(file), goldenPrefix) {
			continue
		}
		if pattern != "" {
			base := filepath.Base(file)
			name := strings.TrimSuffix(base, filepath.Ext(base))
			matched, err := filepath.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		out = append(out, file)
	}
	return out, nil
}

// runScenario executes a single scenario and checks it against its golden
// file.
func runScenario(file, goldenDir string, update bool) ScenarioResult {
	sr := ScenarioResult{Name: filepath.Base(file), Path: file}

	scenario, err := harness.LoadScenario(file)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to load scenario: %v", err)}
		return sr
	}
	sr.Name = scenario.Name

	result, err := harness.Run(scenario)
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("execution failed: %v", err)}
		return sr
	}

	snapshot := harness.TraceSnapshot{ScenarioName: scenario.Name, Trace: result.Trace}
	trace, err := snapshot.MarshalCanonical()
	if err != nil {
		sr.Errors = []string{fmt.Sprintf("failed to marshal trace: %v", err)}
		return sr
	}
	goldenPath := filepath.Join(goldenDir, scenario.Name+".golden")

	if update {
		if err := writeGolden(goldenPath, trace); err != nil {
			sr.Errors = []string{fmt.Sprintf("failed to update golden file: %v", err)}
			return sr
		}
		sr.Golden = "updated"
	} else {
		want, err := os.ReadFile(goldenPath)
		switch {
		case os.IsNotExist(err):
			sr.Golden = "missing"
		case err != nil:
			sr.Errors = []string{fmt.Sprintf("failed to read golden file: %v", err)}
			return sr
		case !bytes.Equal(want, trace):
			sr.Errors = []string{"trace does not match golden file (run with --update to regenerate)"}
			return sr
		default:
			sr.Golden = "match"
		}
	}

	sr.Pass = result.Pass
	sr.Errors = result.Errors
	if len(sr.Errors) == 0 {
		sr.Errors = nil
	}
	return sr
}

func writeGolden(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
