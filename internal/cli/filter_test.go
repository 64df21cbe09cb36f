package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFilterJSON(t *testing.T, args ...string) FilterResult {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewFilterCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs(append([]string{filepath.Join("testdata", "menu.yaml")}, args...))
	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string       `json:"status"`
		Data   FilterResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func titles(cs []ComponentState) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Title
	}
	return out
}

func TestFilterCommand_QueryToggleDrop(t *testing.T) {
	db := filepath.Join(t.TempDir(), "filters.db")

	res := runFilterJSON(t, "--db", db)
	assert.Equal(t, "Filter", res.Title)
	assert.Equal(t, int64(1), res.CityID, "city comes from the catalog")
	assert.Equal(t, int64(7), res.CategoryID)
	assert.Equal(t, []string{"Basil", "Mozzarella", "Mushrooms", "Tomato"}, titles(res.Components))
	assert.Empty(t, res.Selected)

	res = runFilterJSON(t, "--db", db, "--query", "mo", "--toggle", "1")
	assert.Equal(t, []ComponentState{{ID: 1, Title: "Mozzarella", Selected: true}}, res.Components)
	assert.Equal(t, []int64{1}, res.Selected)

	// The selection persists and is visible without a query.
	res = runFilterJSON(t, "--db", db, "--toggle", "3")
	assert.Equal(t, []int64{1, 3}, res.Selected)
	assert.True(t, res.Components[1].Selected)
	assert.True(t, res.Components[3].Selected)

	res = runFilterJSON(t, "--db", db, "--drop")
	assert.Empty(t, res.Selected)
	for _, c := range res.Components {
		assert.False(t, c.Selected, c.Title)
	}
}

func TestFilterCommand_PairsAreIndependent(t *testing.T) {
	db := filepath.Join(t.TempDir(), "filters.db")

	runFilterJSON(t, "--db", db, "--toggle", "2")
	res := runFilterJSON(t, "--db", db, "--city", "2")
	assert.Empty(t, res.Selected)
	assert.Empty(t, res.Components, "the catalog only has products for city 1")
}

func TestFilterCommand_ToggleHidden(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewFilterCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "menu.yaml"),
		"--db", filepath.Join(t.TempDir(), "filters.db"),
		"--query", "basil",
		"--toggle", "4",
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "component 4 is not displayed")
}

func TestFilterCommand_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewFilterCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		filepath.Join("testdata", "menu.yaml"),
		"--db", filepath.Join(t.TempDir(), "filters.db"),
		"--query", "  TO ",
		"--toggle", "3",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Filter (city 1, category 7)\nquery: \"  TO \"\n[x] Tomato\n", buf.String())
}
