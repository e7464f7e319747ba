package mapper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, rel := range []string{
		"a.csv",
		"notes.txt",
		filepath.Join("sub", "b.csv"),
		filepath.Join("sub", "deep", "c.csv"),
	} {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("0\n"), 0o644))
	}
	return dir
}

func TestPairsRecursiveGlob(t *testing.T) {
	inputDir := seedInput(t)
	outputDir := t.TempDir()

	pairs, err := New(inputDir, outputDir, "**/*.csv", ".json").Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	assert.Equal(t, filepath.Join(inputDir, "a.csv"), pairs[0].Input)
	assert.Equal(t, filepath.Join(outputDir, "a.json"), pairs[0].Output)
	assert.Equal(t, filepath.Join(outputDir, "sub", "b.json"), pairs[1].Output)
	assert.Equal(t, filepath.Join(outputDir, "sub", "deep", "c.json"), pairs[2].Output)
}

func TestPairsTopLevelGlob(t *testing.T) {
	inputDir := seedInput(t)

	pairs, err := New(inputDir, t.TempDir(), "*.csv", ".json").Pairs()
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, filepath.Join(inputDir, "a.csv"), pairs[0].Input)
}

func TestPairsNoMatches(t *testing.T) {
	pairs, err := New(t.TempDir(), t.TempDir(), "**/*.csv", ".json").Pairs()
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestPairsBadPattern(t *testing.T) {
	_, err := New(t.TempDir(), t.TempDir(), "[", ".json").Pairs()
	require.Error(t, err)
}

func TestSwapExt(t *testing.T) {
	assert.Equal(t, "net.json", swapExt("net.csv", ".json"))
	assert.Equal(t, filepath.Join("sub", "net.json"), swapExt(filepath.Join("sub", "net.csv"), ".json"))
	assert.Equal(t, "bare.json", swapExt("bare", ".json"))
}
