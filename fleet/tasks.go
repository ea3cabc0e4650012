package fleet

import (
	"log/slog"
	"math"

	"github.com/nstehr/prospector/model"
)

// Params are the tuning knobs for classification.
type Params struct {
	ReturnRatio      float64 // cargo fraction that sends an explorer home
	CongestionFactor float64 // extra turns per ship queued at the same base
}

// Classification is the outcome of the task pass.
type Classification struct {
	Explorers []*model.Ship
	Returners []*model.Ship // Next already points at the nearest base

	// Commands are orders settled without the optimizer: stuck ships and
	// hard-returning ships one step from home.
	Commands []model.Command

	// Stuck lists cells of ships that cannot move; they are not targets.
	Stuck []model.Position
}

// ReturnThreshold is the cargo above which an explorer turns for home.
func (p Params) ReturnThreshold(k model.Constants) float64 {
	return p.ReturnRatio * float64(k.MaxHalite)
}

// Classify assigns this turn's task to every own ship. Rules, in priority:
// fleet-wide hard return (sticky), end-of-game leisurely return, full cargo,
// and back to exploring once a returner reaches a base.
func Classify(g *model.Game, ctx *Context, p Params) Classification {
	var out Classification
	k := g.Constants
	exhausted := g.Map.TotalHalite() == 0
	threshold := p.ReturnThreshold(k)

	for _, s := range g.Me().ShipList() {
		id := s.ID
		base := g.NearestBase(s.Pos)
		baseDist := g.Map.Distance(s.Pos, base)
		task := ctx.Task(id)

		forcedTurn := g.Turn + baseDist + int(float64(g.Map.At(base).Congestion)*p.CongestionFactor)
		if ctx.HardReturn || exhausted || forcedTurn > k.MaxTurns {
			if !ctx.HardReturn {
				slog.Info("hard return started", "turn", g.Turn, "ship", id, "exhausted", exhausted)
			}
			task = HardReturn
			ctx.HardReturn = true
		} else {
			// Truncated like a turn number. A zero rate never fills up in time.
			returnTurn := math.Trunc(float64(g.Turn) + (threshold-float64(s.Halite))/ctx.Rate)
			if returnTurn > float64(k.MaxTurns) && s.Halite > k.MaxHalite/10 {
				task = Return
				ctx.Aggressive[id] = true
			}
			switch task {
			case Explore:
				if float64(s.Halite) > threshold {
					task = Return
				}
			case Return:
				if baseDist == 0 {
					task = Explore
					ctx.LastCargo[id] = 0
				}
			}
		}
		ctx.Tasks[id] = task

		if g.HardStuck(s) {
			out.Commands = append(out.Commands, model.StayStill(id))
			out.Stuck = append(out.Stuck, s.Pos)
			g.MarkUnsafe(s.Pos, s)
			continue
		}

		if task == HardReturn && baseDist <= 1 {
			d, _ := g.Map.DirectionTo(s.Pos, base)
			out.Commands = append(out.Commands, model.Move(id, d))
			continue
		}

		switch task {
		case Explore:
			out.Explorers = append(out.Explorers, s)
		case Return, HardReturn:
			s.Next = base
			out.Returners = append(out.Returners, s)
		}
	}
	return out
}
