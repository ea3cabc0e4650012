package rules

import (
	"log/slog"

	"github.com/nstehr/prospector/model"
)

// ActionSpawn orders a new ship at the shipyard and debits the bank so
// later rules see what is left.
func ActionSpawn(env RuleEnv, orders *Orders) error {
	me := env.Game.Me()
	me.Halite -= env.ShipCost()
	orders.Add(model.Spawn())
	env.Memory["lastSpawnTurn"] = env.Turn()
	slog.Debug("spawning ship", "turn", env.Turn(), "bank", me.Halite, "ships", env.ShipCount())
	return nil
}
