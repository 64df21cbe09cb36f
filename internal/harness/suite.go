package harness

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// SuiteResult summarizes running every scenario in a directory.
type SuiteResult struct {
	Total    int               `json:"total"`
	Passed   int               `json:"passed"`
	Failed   int               `json:"failed"`
	Failures []ScenarioFailure `json:"failures,omitempty"`
}

// ScenarioFailure describes one scenario that did not pass.
type ScenarioFailure struct {
	Path   string   `json:"path"`
	Name   string   `json:"name,omitempty"`
	Errors []string `json:"errors"`
}

// FindScenarios lists the .yaml and .yml files under path. A file path is
// returned as is. Results are sorted.
func FindScenarios(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scenario path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	slices.Sort(files)
	return files, nil
}

// RunSuite loads and runs every scenario file. A file that fails to load or
// execute counts as a failure; the suite keeps going.
func RunSuite(paths []string) *SuiteResult {
	res := &SuiteResult{Total: len(paths)}
	for _, path := range paths {
		scenario, err := LoadScenario(path)
		if err != nil {
			res.fail(ScenarioFailure{Path: path, Errors: []string{err.Error()}})
			continue
		}
		result, err := Run(scenario)
		if err != nil {
			res.fail(ScenarioFailure{Path: path, Name: scenario.Name, Errors: []string{err.Error()}})
			continue
		}
		if !result.Pass {
			res.fail(ScenarioFailure{Path: path, Name: scenario.Name, Errors: result.Errors})
			continue
		}
		res.Passed++
	}
	return res
}

func (r *SuiteResult) fail(f ScenarioFailure) {
	r.Failed++
	r.Failures = append(r.Failures, f)
}
