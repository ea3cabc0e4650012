package plan

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/nstehr/prospector/assign"
	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
)

const (
	unscored    = 1e5 // neighbour no rollout started toward
	arrived     = 1.0 // staying on the target cell
	starvedStay = 1e7 // staying put after StaleTurns without moving
)

// SurroundingCosts scores the cells ship can occupy next turn: lower is
// better. A ship on its target only wants to stay. Otherwise neighbours are
// scored by the best rollout that started toward them, relative to the best
// rollout overall, as 1000^(1 - rate/best).
func (pl *Planner) SurroundingCosts(ship *model.Ship) map[model.Position]float64 {
	g := pl.Game
	m := g.Map
	costs := make(map[model.Position]float64, 5)
	for _, n := range m.Neighbors(ship.Pos) {
		costs[n] = unscored
	}
	if ship.Pos == m.Normalize(ship.Next) {
		costs[ship.Pos] = arrived
		return costs
	}

	walks := pl.Sim.Directional(pl.Rand, ship, ship.Next, pl.Params.MoveWalks)
	rates := []float64{1}
	for _, r := range walks {
		rates = append(rates, r)
	}
	best := floats.Max(rates)
	for d, r := range walks {
		costs[m.Normalize(ship.Pos.Offset(d))] = math.Pow(1e3, 1-r/best)
	}

	if pl.Ctx.LastMoved[ship.ID] <= g.Turn-pl.Params.StaleTurns {
		costs[ship.Pos] = starvedStay
	}
	return costs
}

// Moves assigns every active ship one of the cells it can reach this turn,
// no two ships the same cell, and returns the orders. Cells the collision
// check rejects stay Blocked; a ship left with only Blocked cells still gets
// one and the caller accepts the risk. Chosen cells are marked taken and
// ships that move have LastMoved updated.
func (pl *Planner) Moves(active []*model.Ship) []model.Command {
	if len(active) == 0 {
		return nil
	}
	g := pl.Game
	m := g.Map

	seen := make(map[model.Position]bool)
	var cols []model.Position
	for _, ship := range active {
		around := m.Neighbors(ship.Pos)
		for _, p := range append([]model.Position{ship.Pos}, around[:]...) {
			if !seen[p] {
				seen[p] = true
				cols = append(cols, p)
			}
		}
	}
	slices.SortFunc(cols, comparePos)
	index := make(map[model.Position]int, len(cols))
	for i, p := range cols {
		index[p] = i
	}

	cost := make([][]float64, len(active))
	for i, ship := range active {
		row := make([]float64, len(cols))
		for j := range row {
			row[j] = Blocked
		}
		for p, c := range pl.SurroundingCosts(ship) {
			if fleet.SafeToMove(g, pl.Ctx, ship, p) {
				row[index[p]] = c
			}
		}
		cost[i] = row
	}

	assignment := assign.Solve(cost)
	cmds := make([]model.Command, 0, len(active))
	for i, ship := range active {
		target := ship.Pos
		if a := assignment[i]; a >= 0 {
			target = cols[a]
		}
		d := Step(m, ship.Pos, target)
		if d == model.Still {
			target = ship.Pos
		} else {
			pl.Ctx.LastMoved[ship.ID] = g.Turn
		}
		g.MarkUnsafe(target, ship)
		cmds = append(cmds, model.Move(ship.ID, d))
	}
	return cmds
}

// Step is the direction from one cell onto an adjacent one. Anything that is
// not a neighbour decodes to Still.
func Step(m *model.GameMap, from, to model.Position) model.Direction {
	d, ok := m.DirectionTo(from, to)
	if !ok {
		return model.Still
	}
	return d
}
