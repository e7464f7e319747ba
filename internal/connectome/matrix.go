// Package connectome reads connectome inputs: CSV adjacency matrices and
// the per-study measurement parameter file.
package connectome

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Matrix is a square weighted adjacency matrix.
type Matrix [][]float64

// Order returns the number of nodes.
func (m Matrix) Order() int {
	return len(m)
}

// Edges counts nonzero entries in the upper triangle.
func (m Matrix) Edges() int {
	edges := 0
	for i := range m {
		for j := i + 1; j < len(m); j++ {
			if m[i][j] != 0 {
				edges++
			}
		}
	}
	return edges
}

// ReadMatrix parses a headerless CSV file into a square adjacency matrix.
// Ragged rows, non-numeric cells, and non-square shapes are errors.
func ReadMatrix(path string) (Matrix, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open matrix: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: empty matrix", path)
	}

	matrix := make(Matrix, len(records))
	for i, record := range records {
		if len(record) != len(records) {
			return nil, fmt.Errorf("parse %s: row %d has %d columns, want %d", path, i+1, len(record), len(records))
		}
		row := make([]float64, len(record))
		for j, cell := range record {
			value, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("parse %s: row %d column %d: %q is not a number", path, i+1, j+1, cell)
			}
			row[j] = value
		}
		matrix[i] = row
	}

	return matrix, nil
}
