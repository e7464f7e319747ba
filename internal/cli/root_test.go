package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(Version)
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestHelpDoesNotTouchOutputDir(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "inputdir")
	assert.Contains(t, out, "--pattern")
	assert.NoDirExists(t, outputDir)
}

func TestVersionFlag(t *testing.T) {
	out, err := execute(t, "-V")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestInfoPrintsDescriptor(t *testing.T) {
	out, err := execute(t, "info")
	require.NoError(t, err)

	var descriptor map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &descriptor))
	assert.Equal(t, "ds", descriptor["type"])
	assert.Equal(t, "coneme", descriptor["name"])
}

func TestMissingInputDirFails(t *testing.T) {
	_, err := execute(t, filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input directory")
}

func TestWrongArgCount(t *testing.T) {
	_, err := execute(t, "only-one-dir")
	require.Error(t, err)
}

func TestFullRun(t *testing.T) {
	inputDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(inputDir, "measures.txt"),
		[]byte("flag_standard_measures=1\n"),
		0o644,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(inputDir, "net.csv"),
		[]byte("0,1,0\n1,0,1\n0,1,0\n"),
		0o644,
	))
	outputDir := filepath.Join(t.TempDir(), "out")

	out, err := execute(t, inputDir, outputDir, "--subj", "sub-01", "--workers", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "finished with status succeeded")
	assert.Contains(t, out, "1 processed, 0 skipped, 0 failed")
	assert.FileExists(t, filepath.Join(outputDir, "net.json"))
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	inputDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(inputDir, "params.txt"),
		[]byte("flag_standard_measures=1\n"),
		0o644,
	))
	require.NoError(t, os.WriteFile(
		filepath.Join(inputDir, "net.csv"),
		[]byte("0,1\n1,0\n"),
		0o644,
	))
	configPath := filepath.Join(t.TempDir(), "coneme.yaml")
	require.NoError(t, os.WriteFile(
		configPath,
		[]byte("measurement_file: params.txt\nworkers: 1\nlog_level: error\n"),
		0o644,
	))
	outputDir := filepath.Join(t.TempDir(), "out")

	// pattern comes from the flag, measurement file from the config
	out, err := execute(t, inputDir, outputDir, "--config", configPath, "--pattern", "*.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "1 processed")
	assert.FileExists(t, filepath.Join(outputDir, "net.json"))
}
