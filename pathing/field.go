// Package pathing computes move-cost distance fields over the game map.
package pathing

import (
	"container/heap"

	"github.com/nstehr/prospector/model"
)

// Unreachable is the distance reported for cells the search never reaches.
const Unreachable = 1_000_000

// Field holds the cheapest halite burn from a source to every cell,
// indexed like GameMap.Cells.
type Field struct {
	m    *model.GameMap
	dist []int
}

// At returns the burn needed to reach p, or Unreachable.
func (f *Field) At(p model.Position) int {
	return f.dist[f.m.Index(p)]
}

// DistanceField runs Dijkstra from source. Leaving a cell costs its halite
// divided by the move-cost ratio, occupied cells cannot be entered, and only
// neighbours strictly farther from the source than the current cell are
// relaxed, so paths never fold back around the torus.
func DistanceField(g *model.Game, source model.Position) *Field {
	m := g.Map
	source = m.Normalize(source)

	f := &Field{m: m, dist: make([]int, len(m.Cells))}
	for i := range f.dist {
		f.dist[i] = Unreachable
	}
	f.dist[m.Index(source)] = 0

	pq := &queue{{pos: source, dist: 0}}
	for pq.Len() > 0 {
		it := heap.Pop(pq).(item)
		p := it.pos
		if it.dist > f.dist[m.Index(p)] {
			continue // stale entry
		}
		cost := g.Constants.MoveCost(m.At(p).Halite)
		layer := m.Distance(source, p)
		for _, n := range m.Neighbors(p) {
			if m.Distance(source, n) <= layer {
				continue
			}
			if m.At(n).Occupied() {
				continue
			}
			ni := m.Index(n)
			if d := f.dist[m.Index(p)] + cost; d < f.dist[ni] {
				f.dist[ni] = d
				heap.Push(pq, item{pos: n, dist: d})
			}
		}
	}
	return f
}

type item struct {
	pos  model.Position
	dist int
}

// queue is a min-heap on dist with a positional tie-break so the pop order
// never depends on push order.
type queue []item

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].pos.Less(q[j].pos)
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(item)) }
func (q *queue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
