package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarios_Golden(t *testing.T) {
	paths, err := FindScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)
	require.Len(t, paths, 3)

	for _, path := range paths {
		sc, err := LoadScenario(path)
		require.NoError(t, err)

		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Trace, len(sc.Steps))
		})
	}
}

func TestRun_ReportsFailedExpectations(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: wrong
steps:
  - replace:
      sections:
        - title: Tea
          items: [{id: green, title: Green}]
    expect:
      ops: ["InsertItem(0,0,green)"]
  - select: {section: 0, row: 0}
    expect: {selected: black}
`))
	require.NoError(t, err)

	result, err := Run(sc)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "steps[0] (replace): ops")
	assert.Contains(t, result.Errors[1], `selected: expected "black", got "green"`)
}

func TestRun_InvalidInlineCatalogIsAnError(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: dup
steps:
  - replace:
      sections:
        - title: Tea
          items: [{id: a, title: A}, {id: a, title: B}]
`))
	require.NoError(t, err)

	_, err = Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps[0] (replace)")
}

func TestRun_ToggleHiddenComponentIsAnError(t *testing.T) {
	sc, err := ParseScenario([]byte(`
name: hidden
filter:
  components: [{id: 1, title: Salt}, {id: 2, title: Pepper}]
steps:
  - query: salt
    expect: {components: [Salt]}
  - toggle: 2
`))
	require.NoError(t, err)

	_, err = Run(sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "component 2 is not displayed")
}

func TestRun_DeterministicTrace(t *testing.T) {
	sc, err := LoadScenario(filepath.Join("testdata", "scenarios", "menu_sync.yaml"))
	require.NoError(t, err)

	a, err := Run(sc)
	require.NoError(t, err)
	b, err := Run(sc)
	require.NoError(t, err)

	ja, err := (&TraceSnapshot{ScenarioName: sc.Name, Trace: a.Trace}).MarshalCanonical()
	require.NoError(t, err)
	jb, err := (&TraceSnapshot{ScenarioName: sc.Name, Trace: b.Trace}).MarshalCanonical()
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestRunSuite(t *testing.T) {
	dir := t.TempDir()
	good := `
name: good
steps:
  - replace: {sections: [{title: A}]}
    expect: {ops: ["InsertSection(0,primary/A)"]}
`
	bad := `
name: bad
steps:
  - replace: {sections: [{title: A}]}
    expect: {ops: []}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.yaml"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yml"), []byte(bad), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: [\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	paths, err := FindScenarios(dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	res := RunSuite(paths)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 2, res.Failed)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "bad", res.Failures[0].Name)
	assert.Contains(t, res.Failures[1].Errors[0], "failed to parse YAML")
}
