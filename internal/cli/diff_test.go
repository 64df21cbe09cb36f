package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffCommand_Text(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewDiffCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "menu.yaml"), filepath.Join("testdata", "menu_next.yaml")})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "RemoveSection(0)\nMoveSection(1,0)\nMoveItem(1,1,0)\nInsertItem(0,1,d2)\nUpdateItem(1,0,p2)\n", buf.String())
}

func TestDiffCommand_NoChanges(t *testing.T) {
	buf := &bytes.Buffer{}
	menu := filepath.Join("testdata", "menu.yaml")
	cmd := NewDiffCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{menu, menu})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "No changes.\n", buf.String())
}

func TestDiffCommand_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewDiffCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "menu_next.yaml"), filepath.Join("testdata", "menu.yaml")})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string     `json:"status"`
		Data   DiffResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Verified)
	assert.NotEmpty(t, resp.Data.Ops)
	assert.Len(t, resp.Data.OldHash, 64)
	assert.NotEqual(t, resp.Data.OldHash, resp.Data.NewHash)
}

func TestDiffCommand_InvalidCatalog(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewDiffCommand(&RootOptions{Format: "json"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "menu.yaml"), filepath.Join("testdata", "bad.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, Reported(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E006", resp.Error.Code)
}

func TestDiffCommand_MissingFile(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewDiffCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "menu.yaml"), filepath.Join(t.TempDir(), "gone.yaml")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E005]")
}
