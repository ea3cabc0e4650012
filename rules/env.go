package rules

import (
	"github.com/nstehr/prospector/fleet"
	"github.com/nstehr/prospector/model"
)

// noEnemyFloor stands in for the fewest enemy ships when there is no
// opponent to match.
const noEnemyFloor = 1000

// RuleEnv wraps the turn's state and exposes helper methods callable from
// expr expressions.
type RuleEnv struct {
	Game   *model.Game
	Fleet  *fleet.Context
	Memory map[string]any

	Wanted        int  // bank halite held back for a pending dropoff
	Worthwhile    bool // the economy estimate says a ship still pays off
	InitialHalite int  // map total on turn one
}

func (e RuleEnv) Turn() int      { return e.Game.Turn }
func (e RuleEnv) TurnsLeft() int { return e.Game.Constants.MaxTurns - e.Game.Turn }
func (e RuleEnv) Bank() int      { return e.Game.Me().Halite }
func (e RuleEnv) ShipCost() int  { return e.Game.Constants.ShipCost }
func (e RuleEnv) Reserved() int  { return e.Wanted }
func (e RuleEnv) ShipCount() int { return len(e.Game.Me().Ships) }

func (e RuleEnv) DropoffCount() int { return len(e.Game.Me().Dropoffs) }

// ShipyardOccupied reports whether anything (a ship, or a cell claimed by
// this turn's moves) sits on our shipyard.
func (e RuleEnv) ShipyardOccupied() bool {
	return e.Game.Map.At(e.Game.Me().Shipyard.Pos).Occupied()
}

func (e RuleEnv) HardReturn() bool { return e.Fleet.HardReturn }

func (e RuleEnv) SpawnWorthwhile() bool { return e.Worthwhile }

// FewestEnemyShips is the smallest opposing fleet. Once the fleet is heading
// home there is nothing to keep up with, so it drops to zero.
func (e RuleEnv) FewestEnemyShips() int {
	if e.Fleet.HardReturn {
		return 0
	}
	lo := noEnemyFloor
	for _, p := range e.Game.Players {
		if p.ID == e.Game.MyID {
			continue
		}
		lo = min(lo, len(p.Ships))
	}
	return lo
}

// RemainingFraction is the share of the starting halite still on the map.
func (e RuleEnv) RemainingFraction() float64 {
	if e.InitialHalite <= 0 {
		return 0
	}
	return float64(e.Game.Map.TotalHalite()) / float64(e.InitialHalite)
}

// LastSpawnTurn is the turn the engine last ordered a ship, or -1.
func (e RuleEnv) LastSpawnTurn() int {
	if t, ok := e.Memory["lastSpawnTurn"].(int); ok {
		return t
	}
	return -1
}
