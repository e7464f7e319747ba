package metrics

import "math"

// lengths converts a weight matrix to a connection-length matrix: stronger
// connections are shorter. Absent edges stay zero.
func lengths(w [][]float64) [][]float64 {
	out := make([][]float64, len(w))
	for i, row := range w {
		out[i] = make([]float64, len(row))
		for j, weight := range row {
			if weight != 0 {
				out[i][j] = 1 / weight
			}
		}
	}
	return out
}

// normalize scales all weights by the maximum absolute weight.
func normalize(w [][]float64) [][]float64 {
	max := 0.0
	for _, row := range w {
		for _, weight := range row {
			if abs := math.Abs(weight); abs > max {
				max = abs
			}
		}
	}

	out := make([][]float64, len(w))
	for i, row := range w {
		out[i] = make([]float64, len(row))
		if max == 0 {
			continue
		}
		for j, weight := range row {
			out[i][j] = weight / max
		}
	}
	return out
}

// distance computes all-pairs shortest weighted path lengths over a
// connection-length matrix. Unreachable pairs are +Inf.
func distance(l [][]float64) [][]float64 {
	n := len(l)
	out := make([][]float64, n)
	for src := 0; src < n; src++ {
		out[src] = dijkstra(l, src)
	}
	return out
}

// dijkstra runs a single-source shortest path over the length matrix.
// A zero off-diagonal entry means no edge.
func dijkstra(l [][]float64, src int) []float64 {
	n := len(l)
	dist := make([]float64, n)
	done := make([]bool, n)
	for i := range dist {
		dist[i] = math.Inf(1)
	}
	dist[src] = 0

	for {
		u := -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !done[i] && dist[i] < best {
				best = dist[i]
				u = i
			}
		}
		if u < 0 {
			return dist
		}
		done[u] = true

		for v := 0; v < n; v++ {
			if done[v] || v == u || l[u][v] == 0 {
				continue
			}
			if alt := dist[u] + l[u][v]; alt < dist[v] {
				dist[v] = alt
			}
		}
	}
}

// charpath derives path statistics from a distance matrix: characteristic
// path length, global efficiency, per-node eccentricity, radius, and
// diameter. Infinite distances are excluded from the means and from
// eccentricity; efficiency counts them as zero contribution.
func charpath(d [][]float64) (cpl, efficiency float64, ecc []float64, radius, diameter float64) {
	n := len(d)
	ecc = make([]float64, n)
	radius = math.Inf(1)
	diameter = math.Inf(-1)

	sum, count := 0.0, 0
	effSum, effCount := 0.0, 0
	for i := 0; i < n; i++ {
		rowMax := math.NaN()
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			effCount++
			if math.IsInf(d[i][j], 1) {
				continue
			}
			sum += d[i][j]
			count++
			effSum += 1 / d[i][j]
			if math.IsNaN(rowMax) || d[i][j] > rowMax {
				rowMax = d[i][j]
			}
		}
		ecc[i] = rowMax
		if !math.IsNaN(rowMax) {
			radius = math.Min(radius, rowMax)
			diameter = math.Max(diameter, rowMax)
		}
	}

	cpl = math.NaN()
	if count > 0 {
		cpl = sum / float64(count)
	}
	efficiency = math.NaN()
	if effCount > 0 {
		efficiency = effSum / float64(effCount)
	}
	if math.IsInf(radius, 1) {
		radius = math.NaN()
	}
	if math.IsInf(diameter, -1) {
		diameter = math.NaN()
	}
	return cpl, efficiency, ecc, radius, diameter
}
