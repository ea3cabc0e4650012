// Package assign solves rectangular minimum-cost bipartite matching.
//
// Both planning stages (targets, then moves) reduce to the same problem, so
// the solver is a plain function of the cost matrix and holds no state.
package assign

import "math"

// Solve assigns every row to a distinct column minimizing the total cost and
// returns the column index per row. Rows are agents, columns candidates.
// When there are more rows than columns the surplus rows get -1.
//
// Costs must be finite; use a large constant for forbidden pairs. Output is
// a pure function of the input, and ties resolve toward the lowest index.
func Solve(cost [][]float64) []int {
	n := len(cost)
	if n == 0 {
		return nil
	}
	m := len(cost[0])
	if m == 0 {
		out := make([]int, n)
		for i := range out {
			out[i] = -1
		}
		return out
	}
	if n > m {
		return solveTransposed(cost, n, m)
	}
	return solve(cost, n, m)
}

// solve is the O(n²m) shortest augmenting path method with row and column
// potentials. Indices are 1-based internally; column 0 is the virtual source.
func solve(cost [][]float64, n, m int) []int {
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	p := make([]int, m+1) // p[j]: row matched to column j
	way := make([]int, m+1)
	minv := make([]float64, m+1)
	used := make([]bool, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	out := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			out[p[j]-1] = j - 1
		}
	}
	return out
}

func solveTransposed(cost [][]float64, n, m int) []int {
	t := make([][]float64, m)
	for j := range t {
		t[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			t[j][i] = cost[i][j]
		}
	}
	colToRow := solve(t, m, n)

	out := make([]int, n)
	for i := range out {
		out[i] = -1
	}
	for j, i := range colToRow {
		out[i] = j
	}
	return out
}

// Total sums the cost of an assignment, skipping unassigned rows.
func Total(cost [][]float64, assignment []int) float64 {
	total := 0.0
	for i, j := range assignment {
		if j >= 0 {
			total += cost[i][j]
		}
	}
	return total
}
