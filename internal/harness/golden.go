package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/catalogsync/internal/ir"
)

// TraceSnapshot is the golden-file form of a scenario run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
}

// MarshalCanonical renders the snapshot as canonical JSON, so golden files
// compare byte for byte.
func (s *TraceSnapshot) MarshalCanonical() ([]byte, error) {
	trace := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		trace[i] = event.toCanonical()
	}
	return ir.MarshalCanonical(map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         trace,
	})
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{ScenarioName: scenarioName, Trace: result.Trace}
	traceJSON, err := snapshot.MarshalCanonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
