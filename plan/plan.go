// Package plan builds the two assignment problems solved every turn (which
// cell each explorer heads for, then which step every active ship takes)
// and turns the solutions back into orders.
package plan

import (
	"math/rand"
	"slices"

	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
	"github.com/nstehr/prospector/sim"
)

// Blocked is the cost of a pairing that should never be chosen. It stays
// finite so the solver remains well defined.
const Blocked = 1e9

// Params tune matrix construction.
type Params struct {
	CostOffset  float64 // rate is turned into cost as CostOffset - rate
	TargetSlack int     // extra candidates kept per explorer beyond the fleet size
	RefineWalks int     // rollouts used to rescore surviving targets
	MoveWalks   int     // rollouts per ship when scoring its neighbours
	StaleTurns  int     // idle turns before staying put is penalised
}

// Planner holds everything the matrices read for one turn.
type Planner struct {
	Game   *model.Game
	Ctx    *fleet.Context
	Sim    *sim.Simulator
	Rand   *rand.Rand
	Params Params
}

// Candidates returns every cell not listed in any of the exclusions, in
// position order.
func Candidates(g *model.Game, exclude ...[]model.Position) []model.Position {
	skip := make(map[model.Position]bool)
	for _, list := range exclude {
		for _, p := range list {
			skip[g.Map.Normalize(p)] = true
		}
	}
	out := make([]model.Position, 0, len(g.Map.Cells))
	for i := range g.Map.Cells {
		if p := g.Map.Cells[i].Pos; !skip[p] {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, comparePos)
	return out
}

func comparePos(a, b model.Position) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
