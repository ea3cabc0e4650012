package fleet

import "github.com/nstehr/prospector/model"

// SafeToMove estimates whether ship may enter p this turn.
//
// Empty cells and the ship's own cell are safe, cells held by a friendly ship
// never are, and hard-returning ships may ram anything. Otherwise the local
// force balance decides: each ship contributes 2^(4-d) to its side's pressure
// on p. Ramming is allowed only when our pressure wins and the game is
// head-to-head or the ship is flagged aggressive. The check is one-sided: the
// opponent running the same test on the same cell may disagree.
func SafeToMove(g *model.Game, ctx *Context, ship *model.Ship, p model.Position) bool {
	c := g.Map.At(p)
	if !c.Occupied() || c.Occupant == ship.ID {
		return true
	}
	occ := g.Ship(c.Occupant)
	if occ == nil {
		return true
	}
	if occ.Owner == ship.Owner {
		return false
	}
	if ctx.Task(ship.ID) == HardReturn {
		return true
	}

	ally := 0
	for _, o := range g.Player(ship.Owner).ShipList() {
		if o.ID == ship.ID || ctx.Task(o.ID) == HardReturn {
			continue
		}
		ally += pressure(g.Map.Distance(p, o.Pos))
	}
	enemy := 0
	if owner := g.Player(occ.Owner); owner != nil {
		for _, o := range owner.ShipList() {
			if o.ID == occ.ID {
				continue
			}
			enemy += pressure(g.Map.Distance(p, o.Pos))
		}
	}
	return (len(g.Players) == 2 || ctx.Aggressive[ship.ID]) && ally > enemy
}

// pressure is 2^(4-d) truncated to an integer, so ships farther than four
// steps do not count.
func pressure(d int) int {
	if d > 4 {
		return 0
	}
	return 1 << (4 - d)
}
