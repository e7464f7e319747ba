package metrics

import "math"

// edgeBetweenness computes weighted edge and node betweenness centrality
// over a connection-length matrix using Brandes' algorithm with a Dijkstra
// traversal per source. Values are raw path counts; the caller normalizes.
func edgeBetweenness(l [][]float64) (ebc [][]float64, bc []float64) {
	n := len(l)
	ebc = make([][]float64, n)
	for i := range ebc {
		ebc[i] = make([]float64, n)
	}
	bc = make([]float64, n)

	dist := make([]float64, n)
	sigma := make([]float64, n)
	delta := make([]float64, n)
	done := make([]bool, n)
	order := make([]int, 0, n)
	preds := make([][]int, n)

	for src := 0; src < n; src++ {
		for i := 0; i < n; i++ {
			dist[i] = math.Inf(1)
			sigma[i] = 0
			delta[i] = 0
			done[i] = false
			preds[i] = preds[i][:0]
		}
		dist[src] = 0
		sigma[src] = 1
		order = order[:0]

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
				break
			}
			done[u] = true
			order = append(order, u)

			for v := 0; v < n; v++ {
				if done[v] || v == u || l[u][v] == 0 {
					continue
				}
				alt := dist[u] + l[u][v]
				switch {
				case alt < dist[v]:
					dist[v] = alt
					sigma[v] = sigma[u]
					preds[v] = append(preds[v][:0], u)
				case alt == dist[v]:
					sigma[v] += sigma[u]
					preds[v] = append(preds[v], u)
				}
			}
		}

		// Accumulate dependencies in reverse settled order.
		for i := len(order) - 1; i > 0; i-- {
			w := order[i]
			for _, v := range preds[w] {
				c := sigma[v] / sigma[w] * (1 + delta[w])
				delta[v] += c
				ebc[v][w] += c
			}
			bc[w] += delta[w]
		}
	}

	return ebc, bc
}
