package economy

import (
	"log/slog"

	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
)

// PlannerParams gate dropoff construction.
type PlannerParams struct {
	MineRadius   int     // diamond radius of halite counted around a candidate
	MinSpacing   int     // floor on the distance to an existing base
	EndGame      int     // no construction in the last EndGame turns
	ShipsPerBase float64 // fleet size per (2 + dropoffs) needed before building
}

// Planner scores cells as dropoff sites.
type Planner struct {
	Game   *model.Game
	Ctx    *fleet.Context
	Params PlannerParams
}

// Ideal estimates the halite saved by a dropoff at p for a ship now at from.
// It returns zero unless the site clears every gate: the saving covers the
// dropoff cost, no own base is close, enough turns remain, the fleet is not
// heading home, and the fleet is large enough for another base.
func (pl *Planner) Ideal(p, from model.Position) float64 {
	g := pl.Game
	m := g.Map
	k := g.Constants
	me := g.Me()
	rate := pl.Ctx.Rate

	spacing := max(pl.Params.MinSpacing, m.Width/3)
	local := m.At(p).HasStructure()
	for _, b := range me.Bases() {
		if m.Distance(p, b.Pos) <= spacing {
			local = true
		}
	}

	r := pl.Params.MineRadius
	around := 0
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if abs(dx)+abs(dy) > r {
				continue
			}
			q := model.Position{X: p.X + dx, Y: p.Y + dy}
			if s := g.Occupant(q); s != nil && s.Owner != me.ID {
				continue
			}
			around += m.At(q).Halite
		}
	}

	// Mining out the neighbourhood, in full holds, each one saving the trip
	// to the current nearest base.
	saved := float64(around/k.MaxHalite) * rate * float64(m.Distance(p, g.NearestBase(p)))
	for _, s := range me.ShipList() {
		d := m.Distance(s.Pos, g.NearestBase(s.Pos))
		dd := m.Distance(s.Pos, p)
		saved += float64(max(0, d-dd)) * rate
	}
	saved -= rate * float64(m.Distance(p, from))

	ideal := saved >= float64(k.DropoffCost) &&
		!local &&
		g.Turn <= k.MaxTurns-pl.Params.EndGame &&
		!pl.Ctx.HardReturn &&
		float64(len(me.Ships))/(2+float64(len(me.Dropoffs))) >= pl.Params.ShipsPerBase
	if !ideal {
		return 0
	}
	return saved
}

// shortfall is the bank halite a ship on its current cell needs to convert.
func (pl *Planner) shortfall(s *model.Ship) int {
	return pl.Game.Constants.DropoffCost - pl.Game.Map.At(s.Pos).Halite - s.Halite
}

// Convert turns every ship standing on an ideal site into a dropoff while the
// bank can cover it. Converted ships leave the roster and their dropoffs are
// registered for the rest of the turn; callers re-annotate afterwards.
func (pl *Planner) Convert() ([]model.Command, []*model.Base) {
	g := pl.Game
	me := g.Me()
	var cmds []model.Command
	var built []*model.Base
	for _, s := range me.ShipList() {
		if pl.Ideal(s.Pos, s.Pos) == 0 {
			continue
		}
		delta := pl.shortfall(s)
		if delta > me.Halite {
			continue
		}
		me.Halite -= max(0, delta)
		cmds = append(cmds, model.Convert(s.ID))
		built = append(built, g.AddDropoff(-int(s.ID), s.Pos))
		g.RemoveShip(s.ID)
		slog.Info("dropoff created", "turn", g.Turn, "ship", s.ID, "pos", s.Pos.String(), "bank", me.Halite)
	}
	return cmds, built
}

// Reserve returns the smallest shortfall among active ships whose target
// would make an ideal dropoff, or zero when none would. Spawning keeps that
// much in the bank.
func (pl *Planner) Reserve(active []*model.Ship) int {
	wanted, found := 0, false
	for _, s := range active {
		if pl.Ideal(s.Next, s.Pos) == 0 {
			continue
		}
		delta := max(0, pl.shortfall(s))
		if !found || delta < wanted {
			wanted, found = delta, true
		}
	}
	return wanted
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
