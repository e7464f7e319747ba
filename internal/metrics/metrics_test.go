package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// path graph 0-1-2 with unit weights
func pathGraph() [][]float64 {
	return [][]float64{
		{0, 1, 0},
		{1, 0, 1},
		{0, 1, 0},
	}
}

// complete triangle with unit weights
func triangle() [][]float64 {
	return [][]float64{
		{0, 1, 1},
		{1, 0, 1},
		{1, 1, 0},
	}
}

func TestComputePathGraph(t *testing.T) {
	m, err := Compute(pathGraph())
	require.NoError(t, err)

	assert.Equal(t, []Float{1, 2, 1}, m.Degree)
	assert.InDelta(t, 2.0/3.0, float64(m.Density), 1e-12)
	assert.Equal(t, []Float{1, 2, 1}, m.Strength)

	assert.Equal(t, Float(1), m.Distance[0][1])
	assert.Equal(t, Float(2), m.Distance[0][2])
	assert.Equal(t, Float(0), m.Distance[1][1])

	assert.InDelta(t, 4.0/3.0, float64(m.CharPathLength), 1e-12)
	assert.InDelta(t, 5.0/6.0, float64(m.GlobalEfficiency), 1e-12)
	assert.Equal(t, []Float{2, 1, 2}, m.Eccentricity)
	assert.Equal(t, Float(1), m.Radius)
	assert.Equal(t, Float(2), m.Diameter)

	// only the middle node carries shortest paths; 2 paths over (n-1)(n-2)=2
	assert.Equal(t, []Float{0, 1, 0}, m.NodeBetweenness)
	assert.Equal(t, Float(1), m.EdgeBetweenness[0][1])
	assert.Equal(t, Float(1), m.EdgeBetweenness[1][0])
	assert.Equal(t, Float(1), m.EdgeBetweenness[1][2])
	assert.Equal(t, Float(1), m.EdgeBetweenness[2][1])
	assert.Equal(t, Float(0), m.EdgeBetweenness[0][2])

	assert.Equal(t, []Float{0, 0, 0}, m.Clustering)
	assert.Equal(t, Float(0), m.Transitivity)
}

func TestComputeTriangle(t *testing.T) {
	m, err := Compute(triangle())
	require.NoError(t, err)

	assert.Equal(t, []Float{2, 2, 2}, m.Degree)
	assert.Equal(t, Float(1), m.Density)
	assert.Equal(t, Float(1), m.CharPathLength)
	assert.Equal(t, Float(1), m.GlobalEfficiency)

	// no shortest path has an intermediate node
	assert.Equal(t, []Float{0, 0, 0}, m.NodeBetweenness)
	// every edge carries exactly one of the 2 ordered endpoint-excluded paths
	assert.Equal(t, Float(0.5), m.EdgeBetweenness[0][1])

	assert.Equal(t, []Float{1, 1, 1}, m.Clustering)
	assert.Equal(t, Float(1), m.Transitivity)
	assert.Equal(t, Float(1), m.TransitivityNorm)
	assert.Equal(t, []Float{1, 1, 1}, m.LocalEfficiency)
}

func TestComputeWeightedTriangleNormalization(t *testing.T) {
	w := [][]float64{
		{0, 2, 2},
		{2, 0, 2},
		{2, 2, 0},
	}
	m, err := Compute(w)
	require.NoError(t, err)

	// triangle intensity scales with raw weights; the normalized variant
	// divides by the maximum weight first
	assert.InDelta(t, 2, float64(m.Transitivity), 1e-12)
	assert.InDelta(t, 1, float64(m.TransitivityNorm), 1e-12)

	// stronger connections are shorter paths
	assert.Equal(t, Float(0.5), m.Distance[0][1])
	assert.Equal(t, []Float{4, 4, 4}, m.Strength)
}

func TestLocalEfficiencyMultiHopNeighborhood(t *testing.T) {
	// node 0's neighborhood is {1, 2, 3}; 1 and 3 are not adjacent, so
	// their shortest intra-neighborhood path detours through 2 and the
	// detour length is the hop-wise sum of cube-rooted lengths
	w := [][]float64{
		{0, 1, 1, 1},
		{1, 0, 1, 0},
		{1, 1, 0, 1},
		{1, 0, 1, 0},
	}
	eff := localEfficiency(w)

	// pairs (1,2) and (2,3) contribute 1 each way, (1,3) contributes
	// 1/(1+1) each way: (4 + 1) / (3*2)
	assert.InDelta(t, 5.0/6.0, eff[0], 1e-12)
	assert.InDelta(t, 5.0/6.0, eff[2], 1e-12)
	// two-neighbor nodes whose neighbors are adjacent are fully efficient
	assert.InDelta(t, 1, eff[1], 1e-12)
	assert.InDelta(t, 1, eff[3], 1e-12)
}

func TestComputeDisconnected(t *testing.T) {
	w := [][]float64{
		{0, 1, 0, 0},
		{1, 0, 0, 0},
		{0, 0, 0, 1},
		{0, 0, 1, 0},
	}
	m, err := Compute(w)
	require.NoError(t, err)

	assert.True(t, math.IsInf(float64(m.Distance[0][2]), 1))
	// infinite distances are excluded from the mean
	assert.Equal(t, Float(1), m.CharPathLength)
	assert.InDelta(t, 4.0/12.0, float64(m.GlobalEfficiency), 1e-12)
	assert.InDelta(t, 1.0/3.0, float64(m.Density), 1e-12)

	// unreachable pairs must survive JSON encoding as nulls
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Contains(t, string(data), "null")
}

func TestComputeTwoNodes(t *testing.T) {
	w := [][]float64{
		{0, 2},
		{2, 0},
	}
	m, err := Compute(w)
	require.NoError(t, err)

	assert.Equal(t, []Float{2, 2}, m.Strength)
	assert.Equal(t, Float(0.5), m.Distance[0][1])
	assert.Equal(t, Float(0.5), m.CharPathLength)
	// betweenness normalization is degenerate below three nodes
	assert.Equal(t, []Float{0, 0}, m.NodeBetweenness)
}

func TestComputeRejectsBadShapes(t *testing.T) {
	_, err := Compute(nil)
	require.Error(t, err)

	_, err = Compute([][]float64{{0, 1}, {1}})
	require.Error(t, err)
}

func TestFloatMarshalJSON(t *testing.T) {
	for _, tc := range []struct {
		in   Float
		want string
	}{
		{Float(1.5), "1.5"},
		{Float(0), "0"},
		{Float(math.Inf(1)), "null"},
		{Float(math.Inf(-1)), "null"},
		{Float(math.NaN()), "null"},
	} {
		data, err := json.Marshal(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data))
	}
}

func TestComputeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 8).Draw(t, "n")
		w := make([][]float64, n)
		for i := range w {
			w[i] = make([]float64, n)
		}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rapid.Bool().Draw(t, "edge") {
					weight := rapid.Float64Range(0.1, 2).Draw(t, "weight")
					w[i][j] = weight
					w[j][i] = weight
				}
			}
		}

		m, err := Compute(w)
		if err != nil {
			t.Fatalf("compute: %v", err)
		}

		if d := float64(m.Density); d < 0 || d > 1 {
			t.Fatalf("density out of range: %v", d)
		}
		for i := 0; i < n; i++ {
			if float64(m.Degree[i]) > float64(n-1) {
				t.Fatalf("degree %d exceeds n-1", i)
			}
			if float64(m.Distance[i][i]) != 0 {
				t.Fatalf("nonzero self distance at %d", i)
			}
			if float64(m.NodeBetweenness[i]) < 0 {
				t.Fatalf("negative betweenness at %d", i)
			}
			for j := 0; j < n; j++ {
				a, b := float64(m.Distance[i][j]), float64(m.Distance[j][i])
				if math.IsInf(a, 1) != math.IsInf(b, 1) {
					t.Fatalf("reachability asymmetry at (%d,%d)", i, j)
				}
				if !math.IsInf(a, 1) && math.Abs(a-b) > 1e-9 {
					t.Fatalf("distance asymmetry at (%d,%d): %v vs %v", i, j, a, b)
				}
			}
		}
	})
}
