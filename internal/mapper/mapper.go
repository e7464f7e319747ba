// Package mapper discovers input files and maps them to output paths,
// preserving the directory layout under the output root.
package mapper

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Pair is one unit of work: an input file and where its result goes.
type Pair struct {
	Input  string
	Output string
}

// Mapper matches files under an input directory against a glob pattern and
// derives the corresponding output path with the extension swapped.
type Mapper struct {
	inputDir  string
	outputDir string
	pattern   string
	suffix    string
}

// New returns a Mapper. The pattern supports `**` (doublestar) and is
// matched against input-relative paths. suffix replaces the input file
// extension, e.g. ".json".
func New(inputDir, outputDir, pattern, suffix string) *Mapper {
	return &Mapper{
		inputDir:  inputDir,
		outputDir: outputDir,
		pattern:   pattern,
		suffix:    suffix,
	}
}

// Pairs walks the input directory and returns matched input/output pairs in
// a deterministic order. Directories matching the pattern are skipped.
func (m *Mapper) Pairs() ([]Pair, error) {
	fsys := os.DirFS(m.inputDir)
	matches, err := doublestar.Glob(fsys, m.pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", m.pattern, err)
	}
	sort.Strings(matches)

	pairs := make([]Pair, 0, len(matches))
	for _, rel := range matches {
		info, err := fs.Stat(fsys, rel)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", rel, err)
		}
		if info.IsDir() {
			continue
		}

		native := filepath.FromSlash(rel)
		pairs = append(pairs, Pair{
			Input:  filepath.Join(m.inputDir, native),
			Output: filepath.Join(m.outputDir, swapExt(native, m.suffix)),
		})
	}
	return pairs, nil
}

// swapExt replaces the file extension with suffix, or appends it when the
// file has none.
func swapExt(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}
