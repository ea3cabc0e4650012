package plan

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/nstehr/prospector/assign"
	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
	"github.com/nstehr/prospector/pathing"
)

// Targets picks a distinct destination cell for every explorer and stores it
// in Ship.Next. The returned slice is parallel to explorers.
//
// Each explorer scores every candidate by profit per turn of travel. Only the
// cells that rank in some explorer's top len(explorers)+TargetSlack survive as
// columns. In four-player games those raw costs are solved directly;
// otherwise cells outside an explorer's own top set are Blocked and the rest
// are rescored with rollouts.
func (pl *Planner) Targets(explorers []*model.Ship, candidates []model.Position) []model.Position {
	if len(explorers) == 0 || len(candidates) == 0 {
		return nil
	}
	g := pl.Game
	offset := pl.Params.CostOffset
	keep := len(explorers) + pl.Params.TargetSlack

	raw := make([][]float64, len(explorers))
	cutoff := make([]float64, len(explorers))
	top := make([]bool, len(candidates))
	for i, ship := range explorers {
		field := pathing.DistanceField(g, ship.Pos)
		row := make([]float64, len(candidates))
		for j, p := range candidates {
			row[j] = offset - pl.score(ship, p, field)
		}
		cutoff[i] = kthSmallest(row, keep)
		for j, c := range row {
			if c <= cutoff[i] {
				top[j] = true
			}
		}
		raw[i] = row
	}

	var cols []int
	for j, ok := range top {
		if ok {
			cols = append(cols, j)
		}
	}

	four := len(g.Players) == 4
	cost := make([][]float64, len(explorers))
	for i, ship := range explorers {
		row := make([]float64, len(cols))
		for c, j := range cols {
			switch {
			case four:
				row[c] = raw[i][j]
			case raw[i][j] > cutoff[i]:
				row[c] = Blocked
			default:
				row[c] = offset - pl.Sim.Best(pl.Rand, ship, candidates[j], pl.Params.RefineWalks)
			}
		}
		cost[i] = row
	}

	assignment := assign.Solve(cost)
	out := make([]model.Position, len(explorers))
	for i, ship := range explorers {
		ship.Next = ship.Pos
		if a := assignment[i]; a >= 0 {
			ship.Next = candidates[cols[a]]
		}
		out[i] = ship.Next
	}
	slog.Debug("targets assigned", "turn", g.Turn, "explorers", len(explorers), "columns", len(cols))
	return out
}

// score is the estimated halite per turn for ship mining p: what the cell
// holds after paying the cheapest path there, plus inspiration and capture
// bonuses, over the trip out and a damped trip back.
func (pl *Planner) score(ship *model.Ship, p model.Position, field *pathing.Field) float64 {
	g := pl.Game
	m := g.Map
	k := g.Constants
	c := m.At(p)

	d := float64(m.Distance(ship.Pos, p))
	back := math.Sqrt(float64(m.Distance(p, c.NearestBase)))

	profit := float64(c.Halite - field.At(p))
	if c.Inspired && (len(g.Players) == 4 || d <= float64(k.InspirationRadius)) {
		profit += k.InspiredBonusMultiplier * float64(c.Halite)
	}
	if occ := g.Occupant(p); occ != nil && occ.Owner != ship.Owner {
		if d <= 1 && fleet.SafeToMove(g, pl.Ctx, ship, p) {
			profit += float64(occ.Halite - ship.Halite)
		}
		if pl.Ctx.Aggressive[ship.ID] {
			profit += float64(occ.Halite)
		}
	}
	return profit / math.Max(1, d+back)
}

// kthSmallest returns the k-th smallest value of row, or its maximum when
// row is shorter than k.
func kthSmallest(row []float64, k int) float64 {
	if k >= len(row) {
		return floats.Max(row)
	}
	sorted := slices.Clone(row)
	slices.Sort(sorted)
	return sorted[k-1]
}
