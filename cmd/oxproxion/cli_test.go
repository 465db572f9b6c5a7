package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "oxproxion.yaml")
	content := "state_dir: " + filepath.Join(dir, "state") + "\n" +
		"agents:\n" +
		"  - name: alpha\n" +
		"    available: true\n" +
		"    load: 2\n" +
		"  - name: beta\n" +
		"    available: true\n" +
		"    load: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSolveCommand(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := runCLI(t, "--config", cfg, "solve", "fix the build", "--type", "code")
	require.NoError(t, err)
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "code")
}

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := runCLI(t, "--config", cfg, "solve", "fix the build")
	require.NoError(t, err)

	out, err := runCLI(t, "--config", cfg, "status", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_solved": 1`)
	assert.Contains(t, out, `"beta"`)
}

func TestStatusCommandRendersBanner(t *testing.T) {
	cfg := writeConfig(t, t.TempDir())

	out, err := runCLI(t, "--config", cfg, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Federation")
	assert.Contains(t, out, "alpha")
}

func TestExportWithoutJournalFails(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := runCLI(t, "--config", cfg, "export", filepath.Join(dir, "snap.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal")
}
