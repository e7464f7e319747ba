package metrics

import "math"

// clustering computes the weighted clustering coefficient per node
// (Onnela cube-root form): the geometric-mean intensity of triangles
// around a node over the number of possible triangles.
func clustering(w [][]float64) []float64 {
	n := len(w)
	k := degrees(w)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if k[i] < 2 {
			continue
		}
		cyc := triangleIntensity(w, i)
		out[i] = cyc / (k[i] * (k[i] - 1))
	}
	return out
}

// transitivity is the ratio of weighted triangles to connected triplets
// over the whole network.
func transitivity(w [][]float64) float64 {
	n := len(w)
	k := degrees(w)
	numer, denom := 0.0, 0.0
	for i := 0; i < n; i++ {
		numer += triangleIntensity(w, i)
		denom += k[i] * (k[i] - 1)
	}
	if denom == 0 {
		return 0
	}
	return numer / denom
}

// triangleIntensity sums the cube-root geometric means of triangle weights
// through node i, counting both orientations.
func triangleIntensity(w [][]float64, i int) float64 {
	n := len(w)
	sum := 0.0
	for j := 0; j < n; j++ {
		if j == i || w[i][j] == 0 {
			continue
		}
		for h := 0; h < n; h++ {
			if h == i || h == j || w[j][h] == 0 || w[h][i] == 0 {
				continue
			}
			sum += math.Cbrt(w[i][j] * w[j][h] * w[h][i])
		}
	}
	return sum
}

// localEfficiency computes weighted local efficiency per node: the
// efficiency of communication among a node's neighbors when routed only
// through the neighborhood subgraph. Paths are measured on cube-rooted
// connection lengths so a multi-hop detour sums the cube roots hop by hop.
func localEfficiency(w [][]float64) []float64 {
	n := len(w)
	l := lengths(w)
	out := make([]float64, n)

	for u := 0; u < n; u++ {
		var hood []int
		for v := 0; v < n; v++ {
			if v != u && w[u][v] != 0 {
				hood = append(hood, v)
			}
		}
		k := len(hood)
		if k < 2 {
			continue
		}

		sub := make([][]float64, k)
		for a, va := range hood {
			sub[a] = make([]float64, k)
			for b, vb := range hood {
				sub[a][b] = math.Cbrt(l[va][vb])
			}
		}
		d := distance(sub)

		sum := 0.0
		for a, va := range hood {
			for b, vb := range hood {
				if a == b || math.IsInf(d[a][b], 1) {
					continue
				}
				sum += math.Cbrt(w[u][va]*w[u][vb]) / d[a][b]
			}
		}
		out[u] = sum / float64(k*(k-1))
	}
	return out
}
