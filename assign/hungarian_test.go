package assign

import (
	"math"
	"math/rand"
	"testing"
)

func permutations(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	for _, p := range permutations(n - 1) {
		for i := 0; i <= len(p); i++ {
			q := make([]int, 0, n)
			q = append(q, p[:i]...)
			q = append(q, n-1)
			q = append(q, p[i:]...)
			out = append(out, q)
		}
	}
	return out
}

func distinctMatrix(rng *rand.Rand, rows, cols int) [][]float64 {
	vals := rng.Perm(rows * cols * 3)
	c := make([][]float64, rows)
	for i := range c {
		c[i] = make([]float64, cols)
		for j := range c[i] {
			c[i][j] = float64(vals[i*cols+j]) + 0.5
		}
	}
	return c
}

func assertDistinct(t *testing.T, a []int, cols int) {
	t.Helper()
	seen := make(map[int]bool)
	for i, j := range a {
		if j < 0 || j >= cols {
			t.Fatalf("row %d assigned out-of-range column %d", i, j)
		}
		if seen[j] {
			t.Fatalf("column %d assigned twice in %v", j, a)
		}
		seen[j] = true
	}
}

func TestSolveMatchesBruteForce4x4(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	perms := permutations(4)
	for trial := 0; trial < 200; trial++ {
		cost := distinctMatrix(rng, 4, 4)

		best := math.Inf(1)
		for _, p := range perms {
			best = math.Min(best, Total(cost, p))
		}

		got := Solve(cost)
		assertDistinct(t, got, 4)
		if total := Total(cost, got); total != best {
			t.Fatalf("trial %d: total %v, brute force %v (matrix %v)", trial, total, best, cost)
		}
	}
}

func TestSolveRectangularDistinctColumns(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for trial := 0; trial < 50; trial++ {
		rows := 1 + rng.Intn(6)
		cols := rows + rng.Intn(8)
		cost := distinctMatrix(rng, rows, cols)
		got := Solve(cost)
		if len(got) != rows {
			t.Fatalf("got %d assignments, want %d", len(got), rows)
		}
		assertDistinct(t, got, cols)
	}
}

func TestSolveRectangularOptimal(t *testing.T) {
	cost := [][]float64{
		{9, 1, 9, 9, 9},
		{9, 2, 3, 9, 9},
	}
	got := Solve(cost)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("Solve = %v, want [1 2]", got)
	}
}

func TestSolveMoreRowsThanColumns(t *testing.T) {
	cost := [][]float64{
		{5, 1},
		{1, 5},
		{3, 3},
	}
	got := Solve(cost)
	want := []int{1, 0, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Solve = %v, want %v", got, want)
		}
	}
}

func TestSolveBlockedRowStillAssigned(t *testing.T) {
	const blocked = 1e9
	cost := [][]float64{
		{blocked, blocked, blocked},
		{1, 2, 3},
	}
	got := Solve(cost)
	assertDistinct(t, got, 3)
	if got[1] != 0 {
		t.Errorf("unblocked row should take its cheapest column, got %v", got)
	}
}

func TestSolveDeterministicTies(t *testing.T) {
	cost := [][]float64{
		{1, 1, 1},
		{1, 1, 1},
	}
	first := Solve(cost)
	for i := 0; i < 10; i++ {
		again := Solve(cost)
		for r := range first {
			if again[r] != first[r] {
				t.Fatalf("Solve not deterministic: %v vs %v", first, again)
			}
		}
	}
	if first[0] != 0 || first[1] != 1 {
		t.Errorf("ties should favour low indices, got %v", first)
	}
}

func TestSolveEmpty(t *testing.T) {
	if got := Solve(nil); got != nil {
		t.Errorf("Solve(nil) = %v, want nil", got)
	}
}
