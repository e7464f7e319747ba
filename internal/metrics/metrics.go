// Package metrics computes weighted undirected graph measures over
// connectome adjacency matrices: degree, density, strength, betweenness
// centrality, shortest-path statistics, efficiency, clustering, and
// transitivity.
package metrics

import (
	"fmt"
	"math"
)

// Float is a JSON-safe float64: NaN and infinities encode as null.
type Float float64

// MarshalJSON encodes non-finite values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(fmt.Sprintf("%g", v)), nil
}

// Measures is the standard measure battery for one connectome. JSON keys
// follow the historical result dictionary of the analyzer.
type Measures struct {
	Degree           []Float   `json:"degree"`
	Density          Float     `json:"density"`
	Strength         []Float   `json:"strength"`
	EdgeBetweenness  [][]Float `json:"edge_BC_matrix"`
	NodeBetweenness  []Float   `json:"node_BC"`
	Distance         [][]Float `json:"distance_matrix"`
	CharPathLength   Float     `json:"CPL"`
	GlobalEfficiency Float     `json:"global_eff"`
	Eccentricity     []Float   `json:"eccentricity"`
	Radius           Float     `json:"radius"`
	Diameter         Float     `json:"diameter"`
	LocalEfficiency  []Float   `json:"local_eff"`
	Clustering       []Float   `json:"node_CC"`
	Transitivity     Float     `json:"node_transitivity"`
	TransitivityNorm Float     `json:"node_transitivity_normMat"`
}

// Compute runs the full standard measure battery on a square weighted
// adjacency matrix.
func Compute(w [][]float64) (*Measures, error) {
	n := len(w)
	if n == 0 {
		return nil, fmt.Errorf("empty matrix")
	}
	for i, row := range w {
		if len(row) != n {
			return nil, fmt.Errorf("matrix is not square: row %d has %d columns, want %d", i+1, len(row), n)
		}
	}

	l := lengths(w)
	d := distance(l)
	cpl, eff, ecc, radius, diameter := charpath(d)

	ebc, bc := edgeBetweenness(l)
	// Betweenness is reported relative to the number of ordered node pairs
	// excluding the endpoints; degenerate for fewer than three nodes.
	if norm := float64((n - 1) * (n - 2)); norm > 0 {
		for i := range ebc {
			bc[i] /= norm
			for j := range ebc[i] {
				ebc[i][j] /= norm
			}
		}
	}

	return &Measures{
		Degree:           floats(degrees(w)),
		Density:          Float(density(w)),
		Strength:         floats(strengths(w)),
		EdgeBetweenness:  matrix(ebc),
		NodeBetweenness:  floats(bc),
		Distance:         matrix(d),
		CharPathLength:   Float(cpl),
		GlobalEfficiency: Float(eff),
		Eccentricity:     floats(ecc),
		Radius:           Float(radius),
		Diameter:         Float(diameter),
		LocalEfficiency:  floats(localEfficiency(w)),
		Clustering:       floats(clustering(w)),
		Transitivity:     Float(transitivity(w)),
		TransitivityNorm: Float(transitivity(normalize(w))),
	}, nil
}

func floats(values []float64) []Float {
	out := make([]Float, len(values))
	for i, v := range values {
		out[i] = Float(v)
	}
	return out
}

func matrix(values [][]float64) [][]Float {
	out := make([][]Float, len(values))
	for i, row := range values {
		out[i] = floats(row)
	}
	return out
}
