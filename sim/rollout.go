// Package sim estimates how profitable it is for a ship to head for a cell by
// playing out randomized greedy walks against a frozen copy of the map.
package sim

import (
	"math/rand"

	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
)

// Simulator scores walks for one turn. It never mutates the game.
type Simulator struct {
	Game *model.Game
	Ctx  *fleet.Context

	// ReturnThreshold ends an explorer's walk once its cargo passes it.
	ReturnThreshold float64
	// Horizon caps the number of simulated steps per walk.
	Horizon int
}

// Walk plays one randomized walk from the ship toward dest and returns the
// first step taken together with the resulting halite rate. A ship already
// on dest reports Still.
func (s *Simulator) Walk(rng *rand.Rand, ship *model.Ship, dest model.Position) (model.Direction, float64) {
	g := s.Game
	m := g.Map
	k := g.Constants
	task := s.Ctx.Task(ship.ID)
	dest = m.Normalize(dest)

	p := ship.Pos
	cargo := ship.Halite
	here := m.At(p).Halite
	first := model.Still
	moved := false
	burned := 0

	t := 1.0
	for steps := 0; p != dest && steps < s.Horizon; steps, t = steps+1, t+1 {
		moves := s.moves(p, dest, cargo, here)
		d := moves[rng.Intn(len(moves))]
		if !moved {
			first = d
			moved = true
		}

		if d == model.Still {
			mined := min(k.Extracted(here), k.MaxHalite-cargo)
			cargo += mined
			if m.At(p).Inspired {
				cargo = min(cargo+int(k.InspiredBonusMultiplier*float64(mined)), k.MaxHalite)
			}
			here -= mined
		} else {
			burn := k.MoveCost(here)
			cargo -= burn
			burned += burn
			p = m.Normalize(p.Offset(d))
			here = m.At(p).Halite
		}

		if task == fleet.Explore && float64(cargo) > s.ReturnThreshold {
			break
		}
	}

	endMine := 0
	if p == dest {
		t++
		endMine = k.Extracted(m.At(dest).Halite)
		if m.At(dest).Inspired {
			endMine += int(k.InspiredBonusMultiplier * float64(endMine))
		}
	}

	// Burn is charged again on top of the cargo it already left, which
	// pushes walks toward cheap paths.
	end := float64(cargo + endMine - burned)

	if task == fleet.Explore {
		if len(g.Players) == 2 {
			return first, (end - float64(ship.Halite)) / t
		}
		return first, end / t
	}
	return first, end / (t * t)
}

// moves lists the steps a greedy walker at p may take: Still when it cannot
// pay to leave; otherwise the approaching directions into the cheapest
// neighbours, plus Still when the current cell is at least as rich as any
// of them and the hold has room.
func (s *Simulator) moves(p, dest model.Position, cargo, here int) []model.Direction {
	g := s.Game
	k := g.Constants
	if cargo < k.MoveCost(here) {
		return []model.Direction{model.Still}
	}

	toward := g.Map.DirectionsToward(p, dest)
	var out []model.Direction
	cheapest, richest := -1, 0
	for _, d := range toward {
		h := g.Map.At(p.Offset(d)).Halite
		c := k.MoveCost(h)
		switch {
		case cheapest < 0 || c < cheapest:
			cheapest = c
			out = append(out[:0], d)
		case c == cheapest:
			out = append(out, d)
		}
		richest = max(richest, h)
	}
	if here > 0 && here >= richest && cargo < k.MaxHalite {
		out = append(out, model.Still)
	}
	if len(out) == 0 {
		out = append(out, model.Still)
	}
	return out
}

// Best returns the highest rate seen over n walks.
func (s *Simulator) Best(rng *rand.Rand, ship *model.Ship, dest model.Position, n int) float64 {
	best := 0.0
	for i := 0; i < n; i++ {
		_, r := s.Walk(rng, ship, dest)
		best = max(best, r)
	}
	return best
}

// Directional returns, for each first step that occurred in n walks, the best
// rate seen for walks starting with it. Rates floor at zero.
func (s *Simulator) Directional(rng *rand.Rand, ship *model.Ship, dest model.Position, n int) map[model.Direction]float64 {
	out := make(map[model.Direction]float64)
	for i := 0; i < n; i++ {
		d, r := s.Walk(rng, ship, dest)
		out[d] = max(out[d], r)
	}
	return out
}
