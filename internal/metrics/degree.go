package metrics

// degrees counts nonzero connections per node.
func degrees(w [][]float64) []float64 {
	out := make([]float64, len(w))
	for i, row := range w {
		for j, weight := range row {
			if i != j && weight != 0 {
				out[i]++
			}
		}
	}
	return out
}

// strengths sums edge weights per node.
func strengths(w [][]float64) []float64 {
	out := make([]float64, len(w))
	for i, row := range w {
		for j, weight := range row {
			if i != j {
				out[i] += weight
			}
		}
	}
	return out
}

// density is the fraction of possible undirected edges present.
func density(w [][]float64) float64 {
	n := len(w)
	if n < 2 {
		return 0
	}
	edges := 0
	for i := range w {
		for j := i + 1; j < n; j++ {
			if w[i][j] != 0 {
				edges++
			}
		}
	}
	return 2 * float64(edges) / float64(n*(n-1))
}
